package pipeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runofriver/hydroflow/pkg/estimate"
	"github.com/runofriver/hydroflow/pkg/plant"
	"github.com/runofriver/hydroflow/pkg/series"
	"github.com/runofriver/hydroflow/pkg/turbine"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRunEndToEnd(t *testing.T) {
	pl := &Pipeline{
		Spec: plant.Spec{
			Name:        "Raon",
			NominalHead: plant.Float(4.23),
			NominalFlow: plant.Float(12),
			TurbineType: "Kaplan",
		},
		Flow: series.FromValues("flow", start, time.Hour, 6, 12, 20),
	}

	out, err := pl.Run()
	if err != nil {
		t.Fatal(err)
	}
	if pl.Plant == nil || pl.Output == nil {
		t.Fatal("pipeline must retain resolved plant and output")
	}
	if out.Len() != 3 {
		t.Fatalf("expected 3 output samples, got %d", out.Len())
	}

	wantPower := estimate.NominalPowerAt(4.23, 12)
	if !approxEqual(pl.Plant.NominalPower, wantPower, 1e-9) {
		t.Errorf("unexpected nominal power %g", pl.Plant.NominalPower)
	}
	if pl.Plant.Coefficients == nil {
		t.Error("coefficients not cached on the plant record")
	}
	if out.Samples[1].Value != pl.Plant.NominalPower {
		t.Error("flow at nominal must clamp to exactly the nominal power")
	}
	if out.Samples[2].Value != pl.Plant.NominalPower {
		t.Error("flow above nominal must clamp to exactly the nominal power")
	}
	if out.Samples[0].Value >= pl.Plant.NominalPower {
		t.Error("half load must stay below nominal power")
	}
}

func TestRunInsufficientData(t *testing.T) {
	pl := &Pipeline{
		Spec: plant.Spec{Name: "Raon", NominalHead: plant.Float(4.23)},
		Flow: series.FromValues("flow", start, time.Hour, 6),
	}
	_, err := pl.Run()
	var insufficient *estimate.DataInsufficientError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected DataInsufficientError, got %v", err)
	}
	if pl.Output != nil {
		t.Error("no partial output may be retained after a failure")
	}
}

func TestRunUnknownTurbineType(t *testing.T) {
	pl := &Pipeline{
		Spec: plant.Spec{
			Name:        "Raon",
			NominalHead: plant.Float(4.23),
			NominalFlow: plant.Float(12),
			TurbineType: "Turgo",
		},
		Flow: series.FromValues("flow", start, time.Hour, 6),
	}
	_, err := pl.Run()
	var unknown *turbine.UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
}

func TestRunUnresolvableFlowFailsBeforeOutput(t *testing.T) {
	pl := &Pipeline{
		Spec: plant.Spec{
			Name:         "NoFlow",
			NominalHead:  plant.Float(4.23),
			NominalPower: plant.Float(400000),
		},
		Flow: series.FromValues("flow", start, time.Hour, 6),
	}
	if _, err := pl.Run(); err == nil {
		t.Fatal("expected error for unresolved nominal flow")
	}
}

func TestRunChartOverride(t *testing.T) {
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "chart.geojson")
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"Francis","geometry":{"type":"Polygon",
		 "coordinates":[[[0,0],[100,0],[100,100],[0,100],[0,0]]]}}]}`
	if err := os.WriteFile(chartPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	pl := &Pipeline{
		Spec: plant.Spec{
			Name:        "Raon",
			NominalHead: plant.Float(4.23),
			NominalFlow: plant.Float(12),
		},
		Flow:      series.FromValues("flow", start, time.Hour, 6),
		ChartPath: chartPath,
	}
	if _, err := pl.Run(); err != nil {
		t.Fatal(err)
	}
	if pl.Plant.TurbineType != "Francis" {
		t.Errorf("override chart not used: got %q", pl.Plant.TurbineType)
	}
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"plant.yaml": "name: Raon\nnominal_head_m: 4.23\nnominal_flow_m3s: 12\nturbine_type: Kaplan\n",
		"flow.csv":   "time,flow\n2024-01-01,6\n2024-01-02,12\n2024-01-03,20\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	pl, err := LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if pl.History != nil {
		t.Error("no history file, none must be loaded")
	}
	out, err := pl.Run()
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", out.Len())
	}
}

func TestLoadProjectWithHistory(t *testing.T) {
	dir := t.TempDir()
	hist := "time,flow\n"
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		hist += day.AddDate(0, 0, i).Format("2006-01-02") + ",2.0\n"
	}
	files := map[string]string{
		"plant.yaml":       "name: Raon\nnominal_head_m: 4.23\n",
		"flow.csv":         "time,flow\n2024-01-01,1.0\n",
		"flow_history.csv": hist,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	pl, err := LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if pl.History == nil {
		t.Fatal("history file not loaded")
	}
	if _, err := pl.Run(); err != nil {
		t.Fatal(err)
	}
	if pl.Plant.ResidualFlow <= 0 {
		t.Error("residual flow must be derived from history")
	}
}

func TestLoadProjectMissingFlow(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plant.yaml"), []byte("name: X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(dir); err == nil {
		t.Fatal("expected error for missing flow series")
	}
}
