package plant

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a plant spec from a YAML file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plant file: %w", err)
	}

	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing plant YAML: %w", err)
	}
	s = s.WithDefaults()

	return &s, nil
}

// LoadProject loads a plant spec from a project directory.
// It looks for plant.yaml in the given directory.
func LoadProject(projectDir string) (*Spec, error) {
	return Load(filepath.Join(projectDir, "plant.yaml"))
}
