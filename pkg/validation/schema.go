package validation

import (
	"fmt"

	"github.com/runofriver/hydroflow/pkg/estimate"
	"github.com/runofriver/hydroflow/pkg/plant"
	"github.com/runofriver/hydroflow/pkg/turbine"
)

// ValidateSpec performs schema validation on a parsed plant spec.
// It checks structural correctness before any estimation.
func ValidateSpec(s *plant.Spec) *Report {
	r := NewReport()

	if s.Name == "" {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "plant name is required",
			SpecPath: "name",
			Expected: "non-empty string",
		})
	}

	positives := []struct {
		path  string
		value *float64
	}{
		{"nominal_power_w", s.NominalPower},
		{"nominal_flow_m3s", s.NominalFlow},
		{"nominal_head_m", s.NominalHead},
	}
	for _, f := range positives {
		if f.value != nil && *f.value <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s must be greater than 0 when given", f.path),
				SpecPath:    f.path,
				ActualValue: *f.value,
				Expected:    "> 0",
			})
		}
	}
	if s.ResidualFlow != nil && *s.ResidualFlow < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "residual_flow_m3s must be non-negative when given",
			SpecPath:    "residual_flow_m3s",
			ActualValue: *s.ResidualFlow,
			Expected:    ">= 0",
		})
	}
	if s.TurbineCount < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "turbine_count must be at least 1",
			SpecPath:    "turbine_count",
			ActualValue: s.TurbineCount,
			Expected:    ">= 1",
		})
	}

	return r
}

// ValidateFeasibility checks that the spec carries enough information
// for the estimator, given whether a flow history is available.
func ValidateFeasibility(s *plant.Spec, histPresent bool) *Report {
	r := NewReport()

	if !estimate.CanEstimate(*s, histPresent) {
		r.AddError(Result{
			Level:    LevelFeasibility,
			Message:  fmt.Sprintf("input data is not sufficient for plant %q", s.Name),
			SpecPath: "plant",
			Expected: "nominal head and power, or one of them plus nominal flow or flow history",
			Suggestions: []string{
				"Provide two of nominal_head_m, nominal_flow_m3s, nominal_power_w",
				"Or provide a flow history series alongside head or power",
			},
		})
		return r
	}

	if s.NominalHead != nil && s.NominalPower != nil && s.NominalFlow == nil && !histPresent {
		r.AddWarning(Result{
			Level:    LevelFeasibility,
			Message:  "nominal flow cannot be derived without history; power computation will be unavailable",
			SpecPath: "nominal_flow_m3s",
			Suggestions: []string{
				"Provide nominal_flow_m3s or a flow history series",
			},
		})
	}

	return r
}

// ValidateResolved checks the physical invariant on a resolved plant
// record and flags degraded outcomes.
func ValidateResolved(p *plant.Plant) *Report {
	r := NewReport()

	if err := p.Validate(); err != nil {
		r.AddError(Result{
			Level:    LevelPhysical,
			Message:  err.Error(),
			SpecPath: "plant",
		})
	}
	if p.TurbineType == turbine.DummyType {
		r.AddWarning(Result{
			Level:       LevelPhysical,
			Message:     "plant uses the dummy turbine type; efficiency modeling is degraded",
			SpecPath:    "turbine_type",
			ActualValue: p.TurbineType,
			Suggestions: []string{"Supply turbine_type explicitly, or check that (flow, head) lies on the application chart"},
		})
	}

	return r
}
