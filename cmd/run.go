package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/dataset"
	"github.com/inference-sim/lci-index/lci/trace"
)

var (
	runInputPath string
	runOutDir    string
	runDBPath    string
	runDemo      bool
)

// runCmd executes the full pipeline: load, score, aggregate, chain, write and record.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full LCI pipeline and write every result table",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		loaded, inputLabel := loadRunInput()
		res, err := runPipeline(cfg, loaded.Observations)
		if err != nil {
			logrus.Fatalf("Pipeline failed: %v", err)
		}
		logrus.Infof("Scored %d observations (%d dropped) into %d family rows and %d index points",
			len(loaded.Observations), loaded.Dropped, len(res.Families), len(res.Index))

		paths, err := writeOutputs(runOutDir, res)
		if err != nil {
			logrus.Fatalf("Failed to write results: %v", err)
		}
		for _, p := range paths {
			logrus.Infof("Wrote %s", p)
		}

		dbPath := runDBPath
		if dbPath == "" {
			dbPath = cfg.Store.DBPath
		}
		if dbPath != "" {
			id, err := recordRun(context.Background(), dbPath, inputLabel, cfg, loaded, res)
			if err != nil {
				logrus.Fatalf("Failed to record run: %v", err)
			}
			logrus.Infof("Recorded run %s in %s", id, dbPath)
		}

		if err := printSnapshot(os.Stdout, lci.LatestSnapshot(res.Families)); err != nil {
			logrus.Fatalf("Failed to print snapshot: %v", err)
		}
		if err := printChainSummary(os.Stdout, trace.Summarize(res.Trace)); err != nil {
			logrus.Fatalf("Failed to print chain summary: %v", err)
		}
	},
}

// loadRunInput reads the input CSV, falling back to the demo dataset when
// --demo is set or the input file does not exist.
func loadRunInput() (*dataset.LoadResult, string) {
	if !runDemo {
		loaded, err := dataset.LoadObservationsFile(runInputPath)
		if err == nil {
			return loaded, runInputPath
		}
		if !errors.Is(err, fs.ErrNotExist) {
			logrus.Fatalf("Failed to load observations: %v", err)
		}
		logrus.Warnf("Input %s not found; using the demo dataset", runInputPath)
	}
	return &dataset.LoadResult{Observations: dataset.DemoObservations()}, "demo"
}

func init() {
	runCmd.Flags().StringVar(&runInputPath, "input", "data/interim/merged_inputs.csv", "Merged observation CSV")
	runCmd.Flags().StringVar(&runOutDir, "out-dir", "results", "Directory for result tables")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "SQLite run history (overrides store.db_path; disabled when both are empty)")
	runCmd.Flags().BoolVar(&runDemo, "demo", false, "Use the built-in demo dataset instead of --input")

	rootCmd.AddCommand(runCmd)
}
