package plant

import (
	"fmt"

	"github.com/runofriver/hydroflow/pkg/turbine"
)

// Spec is a partial description of a run-of-the-river plant as supplied
// by the user. Pointer fields are optional; the estimator derives the
// absent ones. The nominal generator efficiency is never supplied
// directly, it is always derived from the nominal power.
type Spec struct {
	Name         string   `yaml:"name" json:"name"`
	NominalPower *float64 `yaml:"nominal_power_w" json:"nominal_power_w,omitempty"`
	NominalFlow  *float64 `yaml:"nominal_flow_m3s" json:"nominal_flow_m3s,omitempty"`
	NominalHead  *float64 `yaml:"nominal_head_m" json:"nominal_head_m,omitempty"`
	ResidualFlow *float64 `yaml:"residual_flow_m3s" json:"residual_flow_m3s,omitempty"`
	TurbineType  string   `yaml:"turbine_type" json:"turbine_type,omitempty"`
	TurbineCount int      `yaml:"turbine_count" json:"turbine_count,omitempty"`
}

// WithDefaults returns the spec with unset defaults applied.
func (s Spec) WithDefaults() Spec {
	if s.TurbineCount == 0 {
		s.TurbineCount = 1
	}
	return s
}

// Float is a convenience constructor for optional spec fields.
func Float(v float64) *float64 {
	return &v
}

// Plant is the fully resolved plant record produced by the estimator.
// It is read-only for the power calculator; the only later mutation is
// caching the resolved efficiency coefficients.
type Plant struct {
	Name         string  `json:"name"`
	NominalPower float64 `json:"nominal_power_w"`
	NominalFlow  float64 `json:"nominal_flow_m3s"`
	NominalHead  float64 `json:"nominal_head_m"`
	ResidualFlow float64 `json:"residual_flow_m3s"`
	TurbineType  string  `json:"turbine_type"`
	TurbineCount int     `json:"turbine_count"`
	GeneratorEff float64 `json:"generator_efficiency"`

	Coefficients *turbine.Coefficients `json:"turbine_coefficients,omitempty"`
}

// ResolveCoefficients looks the plant's turbine type up in the
// efficiency table and caches the row on the record. Resolution runs
// once per plant; subsequent calls are no-ops.
func (p *Plant) ResolveCoefficients(table *turbine.EfficiencyTable) error {
	if p.Coefficients != nil {
		return nil
	}
	c, err := table.Lookup(p.TurbineType)
	if err != nil {
		return err
	}
	p.Coefficients = &c
	return nil
}

// Validate checks the resolved-record invariant: every parameter the
// power calculator reads must be present and physically plausible.
func (p *Plant) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("plant has no name")
	case p.NominalPower <= 0:
		return fmt.Errorf("plant %s: nominal power %g W is not positive", p.Name, p.NominalPower)
	case p.NominalFlow <= 0:
		return fmt.Errorf("plant %s: nominal flow %g m³/s is not positive", p.Name, p.NominalFlow)
	case p.NominalHead <= 0:
		return fmt.Errorf("plant %s: nominal head %g m is not positive", p.Name, p.NominalHead)
	case p.ResidualFlow < 0:
		return fmt.Errorf("plant %s: residual flow %g m³/s is negative", p.Name, p.ResidualFlow)
	case p.TurbineType == "":
		return fmt.Errorf("plant %s: turbine type is not resolved", p.Name)
	case p.TurbineCount < 1:
		return fmt.Errorf("plant %s: turbine count %d is less than 1", p.Name, p.TurbineCount)
	case p.GeneratorEff <= 0 || p.GeneratorEff > 1:
		return fmt.Errorf("plant %s: generator efficiency %g outside (0,1]", p.Name, p.GeneratorEff)
	}
	return nil
}
