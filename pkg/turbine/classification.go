package turbine

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/runofriver/hydroflow/pkg/geo"
)

// Region is one named zone of the turbine application chart: a polygon
// in the (flow, head) plane mapped to a turbine type.
type Region struct {
	Type     string
	Boundary geo.Polygon
}

// ClassificationTable holds the chart regions in their source-file
// order. The order matters: Classify returns the first containing
// region, matching how overlapping zones are resolved.
type ClassificationTable struct {
	Regions []Region
}

// Classify returns the turbine type of the first region containing the
// point (nominal flow, nominal head). The second return is false when
// no region contains the point.
func (t *ClassificationTable) Classify(pt geo.Point) (string, bool) {
	for _, r := range t.Regions {
		if r.Boundary.Contains(pt) {
			return r.Type, true
		}
	}
	return "", false
}

// DefaultClassificationTable parses the bundled application chart.
func DefaultClassificationTable() (*ClassificationTable, error) {
	data, err := bundled.ReadFile("data/turbines.geojson")
	if err != nil {
		return nil, fmt.Errorf("opening bundled classification table: %w", err)
	}
	t, err := parseClassificationTable(data)
	if err != nil {
		return nil, fmt.Errorf("parsing bundled classification table: %w", err)
	}
	return t, nil
}

// LoadClassificationTable reads a chart from a GeoJSON file. Each
// feature must carry a polygon geometry and a turbine type identifier
// in its "id" field (feature-level or in properties).
func LoadClassificationTable(path string) (*ClassificationTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading classification table %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading classification table %s: %w", path, err)
	}
	t, err := parseClassificationTable(data)
	if err != nil {
		return nil, fmt.Errorf("parsing classification table %s: %w", path, err)
	}
	return t, nil
}

type geoFeatureCollection struct {
	Features []geoFeature `json:"features"`
}

type geoFeature struct {
	ID         string `json:"id"`
	Properties struct {
		ID string `json:"id"`
	} `json:"properties"`
	Geometry struct {
		Type        string        `json:"type"`
		Coordinates [][][]float64 `json:"coordinates"`
	} `json:"geometry"`
}

func parseClassificationTable(data []byte) (*ClassificationTable, error) {
	var fc geoFeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("no features in classification table")
	}

	t := &ClassificationTable{}
	for i, f := range fc.Features {
		id := f.ID
		if id == "" {
			id = f.Properties.ID
		}
		if id == "" {
			return nil, fmt.Errorf("feature %d has no turbine type identifier", i)
		}
		if f.Geometry.Type != "Polygon" || len(f.Geometry.Coordinates) == 0 {
			return nil, fmt.Errorf("feature %q: expected Polygon geometry", id)
		}

		// Outer ring only; interior rings do not occur on application charts.
		ring := f.Geometry.Coordinates[0]
		pts := make([]geo.Point, 0, len(ring))
		for _, c := range ring {
			if len(c) < 2 {
				return nil, fmt.Errorf("feature %q: malformed coordinate", id)
			}
			pts = append(pts, geo.Pt(c[0], c[1]))
		}
		// GeoJSON rings repeat the first vertex at the end.
		if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
			pts = pts[:len(pts)-1]
		}

		poly := geo.NewPolygon(pts...)
		if poly.IsEmpty() || poly.Area() == 0 {
			return nil, fmt.Errorf("feature %q: degenerate polygon", id)
		}
		t.Regions = append(t.Regions, Region{Type: id, Boundary: poly})
	}
	return t, nil
}
