package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/lci-index/lci/dataset"
	"github.com/inference-sim/lci-index/lci/latency"
)

var (
	sweepLCIBase  float64
	sweepPoints   int
	sweepMinUtil  float64
	sweepMaxUtil  float64
	sweepOutPath  string
	sweepQueueCfg latency.QueueConfig
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep utilization and report approximate p95 latency and penalized LCI",
	Long: "Evaluate the queueing latency proxy over a utilization grid and apply the latency " +
		"penalty to a base LCI. Queue flags override the config file's queue section.",
	Run: func(cmd *cobra.Command, args []string) {
		queue := loadConfig().Queue
		flags := cmd.Flags()
		if flags.Changed("servers") {
			queue.Servers = sweepQueueCfg.Servers
		}
		if flags.Changed("scv-arrival") {
			queue.SCVArrival = sweepQueueCfg.SCVArrival
		}
		if flags.Changed("scv-service") {
			queue.SCVService = sweepQueueCfg.SCVService
		}
		if flags.Changed("batch-size") {
			queue.BatchSize = sweepQueueCfg.BatchSize
		}
		if flags.Changed("batch-timeout-ms") {
			queue.BatchTimeoutMs = sweepQueueCfg.BatchTimeoutMs
		}
		if flags.Changed("service-rate-tps") {
			queue.ServiceRateTPS = sweepQueueCfg.ServiceRateTPS
		}
		if err := queue.Validate(); err != nil {
			logrus.Fatalf("Invalid queue configuration: %v", err)
		}
		if sweepPoints < 1 {
			logrus.Fatalf("--points must be >= 1, got %d", sweepPoints)
		}

		curve := latency.ConvexityCurve(latency.UniformGrid(sweepMinUtil, sweepMaxUtil, sweepPoints), queue, sweepLCIBase)

		write := func(w io.Writer) error { return dataset.WriteCurve(w, curve) }
		if sweepOutPath == "" {
			if err := write(os.Stdout); err != nil {
				logrus.Fatalf("Failed to write curve: %v", err)
			}
			return
		}
		if err := dataset.WriteFile(sweepOutPath, write); err != nil {
			logrus.Fatalf("Failed to write curve: %v", err)
		}
		logrus.Infof("Wrote %d curve points to %s", len(curve), sweepOutPath)
	},
}

func init() {
	def := latency.DefaultQueueConfig()
	sweepCmd.Flags().Float64Var(&sweepLCIBase, "lci-base", 1.0, "Base LCI to penalize")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 20, "Number of grid points")
	sweepCmd.Flags().Float64Var(&sweepMinUtil, "min-util", 0.05, "Lowest utilization in the grid")
	sweepCmd.Flags().Float64Var(&sweepMaxUtil, "max-util", 0.99, "Highest utilization in the grid (clamped to 0.999)")
	sweepCmd.Flags().StringVar(&sweepOutPath, "out", "", "Output CSV path (stdout when empty)")

	// Queue configuration
	sweepCmd.Flags().IntVar(&sweepQueueCfg.Servers, "servers", def.Servers, "Number of servers")
	sweepCmd.Flags().Float64Var(&sweepQueueCfg.SCVArrival, "scv-arrival", def.SCVArrival, "Squared coefficient of variation of arrivals")
	sweepCmd.Flags().Float64Var(&sweepQueueCfg.SCVService, "scv-service", def.SCVService, "Squared coefficient of variation of service times")
	sweepCmd.Flags().IntVar(&sweepQueueCfg.BatchSize, "batch-size", def.BatchSize, "Batch size")
	sweepCmd.Flags().Float64Var(&sweepQueueCfg.BatchTimeoutMs, "batch-timeout-ms", def.BatchTimeoutMs, "Batch timeout (ms)")
	sweepCmd.Flags().Float64Var(&sweepQueueCfg.ServiceRateTPS, "service-rate-tps", def.ServiceRateTPS, "Service rate (tokens/s)")

	rootCmd.AddCommand(sweepCmd)
}
