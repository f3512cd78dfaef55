package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/runofriver/hydroflow/pkg/batch"
	"github.com/runofriver/hydroflow/pkg/pipeline"
	"github.com/runofriver/hydroflow/pkg/validation"
)

// loadAndValidate loads the project and runs schema plus feasibility
// validation on its plant spec.
func loadAndValidate(projectPath string, tables tableFlags) (*pipeline.Pipeline, *validation.Report, error) {
	pl, err := pipeline.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}
	pl.ChartPath = tables.chartPath
	pl.EfficiencyTablePath = tables.tablePath

	report := validation.ValidateSpec(&pl.Spec)
	report.Merge(validation.ValidateFeasibility(&pl.Spec, pl.History != nil))
	return pl, report, nil
}

func runValidate(projectPath string) error {
	pl, report, err := loadAndValidate(projectPath, tableFlags{})
	if err != nil {
		return err
	}

	if report.Valid {
		if resolved, err := pl.Estimate(); err == nil {
			report.Merge(validation.ValidateResolved(&resolved))
		}
	}

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runEstimate(projectPath string, tables tableFlags) error {
	pl, report, err := loadAndValidate(projectPath, tables)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("plant spec has validation errors")
	}

	resolved, err := pl.Estimate()
	if err != nil {
		return err
	}

	printPlantSummary(&resolved)

	if warnings := validation.ValidateResolved(&resolved); len(warnings.Warnings) > 0 {
		fmt.Println()
		printValidationReport(warnings)
	}
	return nil
}

func runRun(projectPath string, tables tableFlags, outPath string) error {
	pl, report, err := loadAndValidate(projectPath, tables)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("plant spec has validation errors")
	}

	out, err := pl.Run()
	if err != nil {
		return err
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		if err := out.WriteCSV(f); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		printPlantSummary(pl.Plant)
		fmt.Printf("\n%d samples written to %s\n", out.Len(), outPath)
		return nil
	}

	doc := map[string]any{
		"plant":        pl.Plant,
		"validation":   report,
		"power_output": out,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func runBatch(parentPath string, tables tableFlags, workers int) error {
	dirs, err := findProjects(parentPath)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no plant projects under %s", parentPath)
	}

	results := batch.Run(dirs, batch.Options{
		Workers:             workers,
		ChartPath:           tables.chartPath,
		EfficiencyTablePath: tables.tablePath,
		Progress:            true,
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", r.Dir, r.Err)
			continue
		}
		outPath := filepath.Join(r.Dir, "power.csv")
		f, err := os.Create(outPath)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", r.Dir, err)
			continue
		}
		writeErr := r.Output.WriteCSV(f)
		f.Close()
		if writeErr != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", r.Dir, writeErr)
			continue
		}
		fmt.Printf("OK    %s: %s, %d samples\n", r.Dir, r.Plant.TurbineType, r.Output.Len())
	}

	fmt.Printf("\n%d projects, %d failed\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d projects failed", failed, len(results))
	}
	return nil
}

// findProjects returns every direct subdirectory of parent containing a
// plant.yaml, in name order.
func findProjects(parent string) ([]string, error) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", parent, err)
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(parent, e.Name())
		if _, err := os.Stat(filepath.Join(dir, "plant.yaml")); err == nil {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
