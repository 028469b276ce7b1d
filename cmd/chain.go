package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/lci-index/lci/chain"
	"github.com/inference-sim/lci-index/lci/dataset"
	"github.com/inference-sim/lci-index/lci/trace"
)

var (
	chainFamiliesPath string
	chainOutPath      string
	chainTrace        bool
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Chain a family LCI table into the Fisher price index (IPD)",
	Run: func(cmd *cobra.Command, args []string) {
		families, err := dataset.ReadFamiliesFile(chainFamiliesPath)
		if err != nil {
			logrus.Fatalf("Failed to read family table: %v", err)
		}

		var opts []chain.Option
		var ct *trace.ChainTrace
		if chainTrace {
			ct = trace.NewChainTrace()
			opts = append(opts, chain.WithTrace(ct))
		}
		index := chain.Fisher(chain.FromFamilies(families), opts...)
		logrus.Infof("Chained %d family rows into %d index points", len(families), len(index))

		if err := dataset.WriteFile(chainOutPath, func(w io.Writer) error { return dataset.WriteIndex(w, index) }); err != nil {
			logrus.Fatalf("Failed to write index: %v", err)
		}
		if ct != nil {
			if err := printChainSummary(os.Stdout, trace.Summarize(ct)); err != nil {
				logrus.Fatalf("Failed to print chain summary: %v", err)
			}
		}
	},
}

func init() {
	chainCmd.Flags().StringVar(&chainFamiliesPath, "families", "results/lci_by_family.csv", "Family LCI table (date, family, LCI)")
	chainCmd.Flags().StringVar(&chainOutPath, "out", "results/ipd.csv", "Output path for the IPD series")
	chainCmd.Flags().BoolVar(&chainTrace, "trace", false, "Print a summary of link factors and carried-forward periods")

	rootCmd.AddCommand(chainCmd)
}
