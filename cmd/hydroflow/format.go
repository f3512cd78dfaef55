package main

import (
	"fmt"

	"github.com/runofriver/hydroflow/pkg/plant"
	"github.com/runofriver/hydroflow/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.SpecPath != "" && e.ActualValue != nil {
				fmt.Printf("    -> %s = %v\n", e.SpecPath, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.SpecPath != "" && w.ActualValue != nil {
				fmt.Printf("    -> %s = %v\n", w.SpecPath, w.ActualValue)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printPlantSummary(p *plant.Plant) {
	fmt.Printf("Plant %s\n", p.Name)
	fmt.Println("----------------")
	fmt.Printf("  Nominal water flow  : %.4g m³/s\n", p.NominalFlow)
	fmt.Printf("  Nominal head        : %.4g m\n", p.NominalHead)
	fmt.Printf("  Nominal power       : %s\n", formatPower(p.NominalPower))
	fmt.Printf("  Residual water flow : %.4g m³/s\n", p.ResidualFlow)
	fmt.Printf("  Turbine type        : %s (x%d)\n", p.TurbineType, p.TurbineCount)
	fmt.Printf("  Generator efficiency: %.1f %%\n", p.GeneratorEff*100)
	if p.Coefficients != nil {
		fmt.Printf("  Efficiency curve    : a1=%g a2=%g a3=%g\n",
			p.Coefficients.A1, p.Coefficients.A2, p.Coefficients.A3)
	}
}

func formatPower(w float64) string {
	switch {
	case w >= 1e9:
		return fmt.Sprintf("%.2f GW", w/1e9)
	case w >= 1e6:
		return fmt.Sprintf("%.2f MW", w/1e6)
	case w >= 1e3:
		return fmt.Sprintf("%.2f kW", w/1e3)
	default:
		return fmt.Sprintf("%.0f W", w)
	}
}
