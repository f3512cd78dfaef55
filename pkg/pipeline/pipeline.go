// Package pipeline sequences estimation, coefficient resolution and
// power computation for one plant.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/runofriver/hydroflow/pkg/estimate"
	"github.com/runofriver/hydroflow/pkg/plant"
	"github.com/runofriver/hydroflow/pkg/power"
	"github.com/runofriver/hydroflow/pkg/series"
	"github.com/runofriver/hydroflow/pkg/turbine"
)

// Pipeline holds everything needed to simulate one plant: the partial
// spec, the operating flow series, an optional multi-year history, and
// optional overrides for the bundled reference tables.
type Pipeline struct {
	Spec    plant.Spec
	Flow    series.Series
	History *series.Series

	// Paths overriding the bundled reference tables; empty means bundled.
	ChartPath           string
	EfficiencyTablePath string

	// Populated by Run.
	Plant  *plant.Plant
	Output *series.Series
}

// Estimate fills the missing plant parameters and resolves the
// efficiency coefficients onto the record, which is retained on the
// pipeline. It does not touch the operating flow series.
func (pl *Pipeline) Estimate() (plant.Plant, error) {
	chart, err := pl.chart()
	if err != nil {
		return plant.Plant{}, err
	}
	table, err := pl.efficiencyTable()
	if err != nil {
		return plant.Plant{}, err
	}

	resolved, err := estimate.Fill(pl.Spec, pl.History, chart)
	if err != nil {
		return plant.Plant{}, err
	}
	if err := resolved.ResolveCoefficients(table); err != nil {
		return plant.Plant{}, err
	}

	pl.Plant = &resolved
	return resolved, nil
}

// Run estimates the missing plant parameters, resolves the efficiency
// coefficients onto the record, and computes the power-output series.
// The result is returned and retained on the pipeline. Any failure
// aborts before a partial output is produced.
func (pl *Pipeline) Run() (series.Series, error) {
	resolved, err := pl.Estimate()
	if err != nil {
		return series.Series{}, err
	}

	out, err := power.Compute(resolved, pl.Flow)
	if err != nil {
		return series.Series{}, err
	}

	pl.Output = &out
	return out, nil
}

func (pl *Pipeline) chart() (*turbine.ClassificationTable, error) {
	if pl.ChartPath != "" {
		return turbine.LoadClassificationTable(pl.ChartPath)
	}
	return turbine.DefaultClassificationTable()
}

func (pl *Pipeline) efficiencyTable() (*turbine.EfficiencyTable, error) {
	if pl.EfficiencyTablePath != "" {
		return turbine.LoadEfficiencyTable(pl.EfficiencyTablePath)
	}
	return turbine.DefaultEfficiencyTable()
}

// LoadProject builds a pipeline from a project directory holding
// plant.yaml, flow.csv and optionally flow_history.csv.
func LoadProject(dir string) (*Pipeline, error) {
	spec, err := plant.LoadProject(dir)
	if err != nil {
		return nil, fmt.Errorf("loading plant spec: %w", err)
	}

	flow, err := series.LoadCSV(filepath.Join(dir, "flow.csv"), "flow")
	if err != nil {
		return nil, fmt.Errorf("loading flow series: %w", err)
	}

	pl := &Pipeline{Spec: *spec, Flow: flow}

	histPath := filepath.Join(dir, "flow_history.csv")
	if _, err := os.Stat(histPath); err == nil {
		hist, err := series.LoadCSV(histPath, "flow")
		if err != nil {
			return nil, fmt.Errorf("loading flow history: %w", err)
		}
		pl.History = &hist
	}

	return pl, nil
}
