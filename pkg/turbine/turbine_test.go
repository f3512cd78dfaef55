package turbine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runofriver/hydroflow/pkg/geo"
)

func TestDefaultEfficiencyTable(t *testing.T) {
	table, err := DefaultEfficiencyTable()
	if err != nil {
		t.Fatal(err)
	}
	for _, typ := range []string{"Kaplan", "Francis", "Crossflow", "Pelton", DummyType} {
		c, err := table.Lookup(typ)
		if err != nil {
			t.Fatalf("lookup %s: %v", typ, err)
		}
		// Full-load efficiency 1/(a1+a2+a3) must sit near the assumed
		// nominal turbine efficiency of 0.9.
		eta := 1 / (c.A1 + c.A2 + c.A3)
		if eta < 0.85 || eta > 0.95 {
			t.Errorf("%s: full-load efficiency %f out of range", typ, eta)
		}
	}
}

func TestLookupUnknownType(t *testing.T) {
	table, err := DefaultEfficiencyTable()
	if err != nil {
		t.Fatal(err)
	}
	_, err = table.Lookup("Turgo")
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTypeError, got %T", err)
	}
	if unknown.Type != "Turgo" {
		t.Errorf("unexpected type in error: %q", unknown.Type)
	}
	if len(unknown.Valid) == 0 || !strings.Contains(err.Error(), "Kaplan") {
		t.Error("error must enumerate valid types")
	}
}

func TestReadEfficiencyTableRejectsBadRows(t *testing.T) {
	_, err := ReadEfficiencyTable(strings.NewReader("turb_type,a1,a2,a3\nKaplan,x,1,1\n"))
	if err == nil {
		t.Error("expected error for non-numeric coefficient")
	}
	_, err = ReadEfficiencyTable(strings.NewReader("turb_type,a1,a2,a3\nKaplan,1,1,1\nKaplan,2,2,2\n"))
	if err == nil {
		t.Error("expected error for duplicate type")
	}
	_, err = ReadEfficiencyTable(strings.NewReader("turb_type,a1,a2,a3\n"))
	if err == nil {
		t.Error("expected error for empty table")
	}
}

func TestDefaultClassificationTable(t *testing.T) {
	table, err := DefaultClassificationTable()
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Regions) != 4 {
		t.Fatalf("expected 4 regions, got %d", len(table.Regions))
	}

	// A low-head, mid-flow plant is Kaplan territory.
	typ, ok := table.Classify(geo.Pt(12, 4.23))
	if !ok || typ != "Kaplan" {
		t.Errorf("expected Kaplan for (12, 4.23), got %q (ok=%v)", typ, ok)
	}

	// High head, low flow is Pelton territory.
	typ, ok = table.Classify(geo.Pt(2, 1000))
	if !ok || typ != "Pelton" {
		t.Errorf("expected Pelton for (2, 1000), got %q (ok=%v)", typ, ok)
	}

	// Negative flow lies outside every region.
	if _, ok := table.Classify(geo.Pt(-5, 4.23)); ok {
		t.Error("expected no match for negative flow")
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	table, err := DefaultClassificationTable()
	if err != nil {
		t.Fatal(err)
	}
	// (5, 8) lies in both the Kaplan and Crossflow regions; the table's
	// native order puts Kaplan first.
	typ, ok := table.Classify(geo.Pt(5, 8))
	if !ok || typ != "Kaplan" {
		t.Errorf("expected first match Kaplan, got %q (ok=%v)", typ, ok)
	}
}

func TestLoadClassificationTableFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.geojson")
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"Custom","geometry":{"type":"Polygon",
		 "coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadClassificationTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if typ, ok := table.Classify(geo.Pt(5, 5)); !ok || typ != "Custom" {
		t.Errorf("expected Custom, got %q", typ)
	}
}

func TestLoadClassificationTableMissingFile(t *testing.T) {
	_, err := LoadClassificationTable(filepath.Join(t.TempDir(), "absent.geojson"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if !strings.Contains(err.Error(), "absent.geojson") {
		t.Errorf("error must name the source: %v", err)
	}
}

func TestParseClassificationTableRejectsDegenerate(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"Line","geometry":{"type":"Polygon",
		 "coordinates":[[[0,0],[10,10],[0,0]]]}}]}`
	if _, err := parseClassificationTable([]byte(doc)); err == nil {
		t.Error("expected error for degenerate polygon")
	}
	if _, err := parseClassificationTable([]byte(`{"type":"FeatureCollection","features":[]}`)); err == nil {
		t.Error("expected error for empty collection")
	}
}
