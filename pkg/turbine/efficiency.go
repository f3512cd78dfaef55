package turbine

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed data/turbine_types.csv data/turbines.geojson
var bundled embed.FS

// DummyType is the fallback turbine type assigned when classification
// finds no matching region. The bundled efficiency table carries a row
// for it so the pipeline stays usable with degraded efficiency modeling.
const DummyType = "dummy"

// Coefficients are the three dimensionless parameters of the turbine
// efficiency curve eta_t = dV_pu / (a1 + a2*dV_pu + a3*dV_pu²).
type Coefficients struct {
	A1 float64 `json:"a1"`
	A2 float64 `json:"a2"`
	A3 float64 `json:"a3"`
}

// UnknownTypeError reports a turbine type missing from the efficiency
// table, along with every type the table does know.
type UnknownTypeError struct {
	Type  string
	Valid []string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("turbine type %q is not in the efficiency table (valid types: %s)",
		e.Type, strings.Join(e.Valid, ", "))
}

// EfficiencyTable maps turbine type identifiers to efficiency-curve
// coefficients. Row order is preserved from the source file.
type EfficiencyTable struct {
	order []string
	rows  map[string]Coefficients
}

// Types returns the known turbine types in table order.
func (t *EfficiencyTable) Types() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Lookup returns the coefficients for turbType, or an UnknownTypeError
// listing the valid types.
func (t *EfficiencyTable) Lookup(turbType string) (Coefficients, error) {
	c, ok := t.rows[turbType]
	if !ok {
		return Coefficients{}, &UnknownTypeError{Type: turbType, Valid: t.Types()}
	}
	return c, nil
}

// DefaultEfficiencyTable parses the bundled coefficient table.
func DefaultEfficiencyTable() (*EfficiencyTable, error) {
	f, err := bundled.Open("data/turbine_types.csv")
	if err != nil {
		return nil, fmt.Errorf("opening bundled efficiency table: %w", err)
	}
	defer f.Close()
	return ReadEfficiencyTable(f)
}

// LoadEfficiencyTable reads a coefficient table from a CSV file with
// columns turb_type, a1, a2, a3.
func LoadEfficiencyTable(path string) (*EfficiencyTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading efficiency table %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadEfficiencyTable(f)
	if err != nil {
		return nil, fmt.Errorf("parsing efficiency table %s: %w", path, err)
	}
	return t, nil
}

// ReadEfficiencyTable parses coefficient rows from r.
func ReadEfficiencyTable(r io.Reader) (*EfficiencyTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("efficiency table has no data rows")
	}

	t := &EfficiencyTable{rows: make(map[string]Coefficients)}
	for _, row := range rows[1:] {
		var c Coefficients
		for i, dst := range []*float64{&c.A1, &c.A2, &c.A3} {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %q: parsing coefficient %q: %w", row[0], row[i+1], err)
			}
			*dst = v
		}
		if _, dup := t.rows[row[0]]; dup {
			return nil, fmt.Errorf("duplicate turbine type %q", row[0])
		}
		t.order = append(t.order, row[0])
		t.rows[row[0]] = c
	}
	return t, nil
}
