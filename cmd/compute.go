package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/dataset"
)

var (
	computeInputPath    string
	computeRowsPath     string
	computeFamiliesPath string
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Score observations and aggregate LCI per (date, family)",
	Long: "Read a merged observation CSV, compute QOU, all-in cost and LCI for every row, " +
		"and write the per-row table and the per-(date, family) median table.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		scorer, err := lci.NewScorer(cfg.Scoring())
		if err != nil {
			logrus.Fatalf("Invalid scoring config: %v", err)
		}

		loaded, err := dataset.LoadObservationsFile(computeInputPath)
		if err != nil {
			logrus.Fatalf("Failed to load observations: %v", err)
		}
		rows := scorer.ComputeRows(loaded.Observations)
		families := lci.AggregateByFamily(rows)
		logrus.Infof("Scored %d observations into %d family rows", len(rows), len(families))

		if err := dataset.WriteFile(computeRowsPath, func(w io.Writer) error { return dataset.WriteRows(w, rows) }); err != nil {
			logrus.Fatalf("Failed to write rows: %v", err)
		}
		if err := dataset.WriteFile(computeFamiliesPath, func(w io.Writer) error { return dataset.WriteFamilies(w, families) }); err != nil {
			logrus.Fatalf("Failed to write family table: %v", err)
		}
		if err := printSnapshot(os.Stdout, lci.LatestSnapshot(families)); err != nil {
			logrus.Fatalf("Failed to print snapshot: %v", err)
		}
	},
}

func init() {
	computeCmd.Flags().StringVar(&computeInputPath, "input", "data/interim/merged_inputs.csv", "Merged observation CSV")
	computeCmd.Flags().StringVar(&computeRowsPath, "rows", "results/lci_rows.csv", "Output path for per-row LCI")
	computeCmd.Flags().StringVar(&computeFamiliesPath, "families", "results/lci_by_family.csv", "Output path for per-family medians")

	rootCmd.AddCommand(computeCmd)
}
