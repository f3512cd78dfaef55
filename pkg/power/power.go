// Package power converts a water-flow series into the electrical power
// output of a fully resolved plant.
package power

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/runofriver/hydroflow/pkg/plant"
	"github.com/runofriver/hydroflow/pkg/series"
)

// OutputLabel is the fixed name of every power-output series.
const OutputLabel = "power_output"

const (
	gravity      = 9.81   // m/s²
	waterDensity = 1000.0 // kg/m³
)

// Part-load control points of the generator efficiency curve, as a
// fraction of the nominal efficiency over per-unit flow. Clamped to the
// end values outside [0.1, 0.5].
var (
	partLoadFlow = []float64{0.1, 0.25, 0.5}
	partLoadEff  = []float64{0.85, 0.95, 1.0}
)

// Calculator computes power output for one plant. The plant record must
// be fully resolved, with efficiency coefficients already cached.
type Calculator struct {
	plant    plant.Plant
	partLoad interp.PiecewiseLinear
}

// NewCalculator validates the plant record and prepares the part-load
// curve.
func NewCalculator(p plant.Plant) (*Calculator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Coefficients == nil {
		return nil, fmt.Errorf("plant %s: efficiency coefficients are not resolved", p.Name)
	}
	c := &Calculator{plant: p}
	if err := c.partLoad.Fit(partLoadFlow, partLoadEff); err != nil {
		return nil, fmt.Errorf("fitting part-load curve: %w", err)
	}
	return c, nil
}

// GeneratorEff returns the generator efficiency at the given per-unit
// flow: the part-load curve scaled by the nominal efficiency.
func (c *Calculator) GeneratorEff(perUnit float64) float64 {
	x := math.Min(math.Max(perUnit, partLoadFlow[0]), partLoadFlow[len(partLoadFlow)-1])
	return c.partLoad.Predict(x) * c.plant.GeneratorEff
}

// TurbineEff returns the turbine efficiency at the given per-unit flow.
func (c *Calculator) TurbineEff(perUnit float64) float64 {
	a := c.plant.Coefficients
	return perUnit / (a.A1 + a.A2*perUnit + a.A3*perUnit*perUnit)
}

// At computes the power output in W for a single flow value in m³/s.
// Flow at or above nominal is clamped to exactly the nominal power; the
// surplus water is spilled, not converted.
func (c *Calculator) At(flow float64) float64 {
	effective := math.Max(flow-c.plant.ResidualFlow, 0)
	perUnit := effective / c.plant.NominalFlow
	if perUnit >= 1 {
		return c.plant.NominalPower
	}
	return c.TurbineEff(perUnit) * c.GeneratorEff(perUnit) *
		gravity * waterDensity * effective * c.plant.NominalHead
}

// Compute converts the flow series pointwise, preserving order and
// timestamps.
func (c *Calculator) Compute(flow series.Series) series.Series {
	out := series.Series{
		Name:    OutputLabel,
		Samples: make([]series.Sample, len(flow.Samples)),
	}
	for i, smp := range flow.Samples {
		out.Samples[i] = series.Sample{Time: smp.Time, Value: c.At(smp.Value)}
	}
	return out
}

// Compute is the one-shot form: validate the plant, build the
// calculator, convert the series.
func Compute(p plant.Plant, flow series.Series) (series.Series, error) {
	c, err := NewCalculator(p)
	if err != nil {
		return series.Series{}, err
	}
	return c.Compute(flow), nil
}
