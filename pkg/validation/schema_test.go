package validation

import (
	"testing"

	"github.com/runofriver/hydroflow/pkg/plant"
	"github.com/runofriver/hydroflow/pkg/turbine"
)

func TestValidateSpecValid(t *testing.T) {
	s := &plant.Spec{
		Name:        "Raon",
		NominalHead: plant.Float(4.23),
		NominalFlow: plant.Float(12),
	}
	r := ValidateSpec(s)
	if !r.Valid {
		t.Fatalf("expected valid, got %s", r.Summary)
	}
}

func TestValidateSpecErrors(t *testing.T) {
	s := &plant.Spec{
		NominalHead:  plant.Float(-1),
		ResidualFlow: plant.Float(-0.5),
		TurbineCount: -2,
	}
	r := ValidateSpec(s)
	if r.Valid {
		t.Fatal("expected invalid report")
	}
	// Missing name, negative head, negative residual, bad count.
	if len(r.Errors) != 4 {
		t.Errorf("expected 4 errors, got %d: %s", len(r.Errors), r.Summary)
	}
}

func TestValidateFeasibility(t *testing.T) {
	insufficient := &plant.Spec{Name: "Raon", NominalHead: plant.Float(4.23)}
	r := ValidateFeasibility(insufficient, false)
	if r.Valid {
		t.Fatal("expected infeasible")
	}
	if len(r.Errors) != 1 || len(r.Errors[0].Suggestions) == 0 {
		t.Error("feasibility error must carry suggestions")
	}

	withHist := ValidateFeasibility(insufficient, true)
	if !withHist.Valid {
		t.Error("head plus history must be feasible")
	}
}

func TestValidateFeasibilityWarnsOnUnderivableFlow(t *testing.T) {
	s := &plant.Spec{
		Name:         "NoFlow",
		NominalHead:  plant.Float(4.23),
		NominalPower: plant.Float(400000),
	}
	r := ValidateFeasibility(s, false)
	if !r.Valid {
		t.Fatal("head and power must be feasible")
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(r.Warnings))
	}
}

func TestValidateResolved(t *testing.T) {
	good := &plant.Plant{
		Name:         "Raon",
		NominalPower: 425752,
		NominalFlow:  12,
		NominalHead:  4.23,
		TurbineType:  "Kaplan",
		TurbineCount: 1,
		GeneratorEff: 0.95,
	}
	if r := ValidateResolved(good); !r.Valid || len(r.Warnings) != 0 {
		t.Errorf("expected clean report, got %s", r.Summary)
	}

	degraded := *good
	degraded.TurbineType = turbine.DummyType
	if r := ValidateResolved(&degraded); !r.Valid || len(r.Warnings) != 1 {
		t.Error("dummy type must warn but stay valid")
	}

	broken := *good
	broken.NominalFlow = 0
	if r := ValidateResolved(&broken); r.Valid {
		t.Error("unresolved flow must be an error")
	}
}

func TestReportMerge(t *testing.T) {
	a := NewReport()
	a.AddWarning(Result{Level: LevelSchema, Message: "w"})
	b := NewReport()
	b.AddError(Result{Level: LevelPhysical, Message: "e"})

	a.Merge(b)
	if a.Valid {
		t.Error("merging an invalid report must invalidate")
	}
	if len(a.Errors) != 1 || len(a.Warnings) != 1 {
		t.Errorf("unexpected merge result: %s", a.Summary)
	}
}
