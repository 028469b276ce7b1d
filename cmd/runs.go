package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/lci-index/lci/store"
)

var (
	runsDBPath string
	runsRunID  string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded pipeline runs, or show one run's index",
	Run: func(cmd *cobra.Command, args []string) {
		dbPath := runsDBPath
		if dbPath == "" {
			dbPath = loadConfig().Store.DBPath
		}
		if dbPath == "" {
			logrus.Fatalf("No run store configured: pass --db or set store.db_path")
		}
		s, err := store.Open(dbPath)
		if err != nil {
			logrus.Fatalf("Failed to open run store: %v", err)
		}
		defer func() { _ = s.Close() }()

		ctx := context.Background()
		if runsRunID == "" {
			runs, err := s.ListRuns(ctx)
			if err != nil {
				logrus.Fatalf("Failed to list runs: %v", err)
			}
			if err := printRuns(os.Stdout, runs); err != nil {
				logrus.Fatalf("Failed to print runs: %v", err)
			}
			return
		}

		families, err := s.LoadFamilies(ctx, runsRunID)
		if err != nil {
			logrus.Fatalf("Failed to load run: %v", err)
		}
		index, err := s.LoadIndex(ctx, runsRunID)
		if err != nil {
			logrus.Fatalf("Failed to load run: %v", err)
		}
		if err := printSnapshot(os.Stdout, families); err != nil {
			logrus.Fatalf("Failed to print families: %v", err)
		}
		if err := printIndex(os.Stdout, index); err != nil {
			logrus.Fatalf("Failed to print index: %v", err)
		}
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsDBPath, "db", "", "SQLite run history (defaults to store.db_path)")
	runsCmd.Flags().StringVar(&runsRunID, "run-id", "", "Show the family table and index of one run")

	rootCmd.AddCommand(runsCmd)
}
