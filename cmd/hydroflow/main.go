package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runofriver/hydroflow/internal/server"
)

// tableFlags are the reference-table overrides shared by every command
// that touches the pipeline.
type tableFlags struct {
	chartPath string
	tablePath string
}

func (f *tableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.chartPath, "chart", "", "GeoJSON turbine application chart overriding the bundled one")
	cmd.Flags().StringVar(&f.tablePath, "turbine-types", "", "CSV efficiency-coefficient table overriding the bundled one")
}

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "hydroflow",
		Short: "Run-of-the-river hydropower parameter estimation and power output",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(estimateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var tables tableFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   "run [project-path]",
		Short: "Estimate missing plant parameters and compute the power-output series",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRun(args[0], tables, outPath)
		},
	}
	tables.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the power series as CSV to this file instead of JSON to stdout")
	return cmd
}

func estimateCmd() *cobra.Command {
	var tables tableFlags

	cmd := &cobra.Command{
		Use:   "estimate [project-path]",
		Short: "Resolve missing plant parameters without computing power output",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runEstimate(args[0], tables)
		},
	}
	tables.register(cmd)
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a plant spec without running the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func batchCmd() *cobra.Command {
	var tables tableFlags
	var workers int

	cmd := &cobra.Command{
		Use:   "batch [parent-path]",
		Short: "Run every plant project under a directory in parallel",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBatch(args[0], tables, workers)
		},
	}
	tables.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "j", 4, "number of parallel workers")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local dev server exposing the project over a JSON API",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			srv := server.New(args[0], port)
			return srv.Start()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
