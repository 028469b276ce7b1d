package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/lci-index/lci/config"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional scoring/queue YAML; defaults apply when empty
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lci",
	Short: "Quality-adjusted inference cost index and chained price deflator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// loadConfig returns the YAML config at configPath, or the defaults when no path is set.
func loadConfig() *config.Config {
	if configPath == "" {
		return config.Default()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logrus.Infof("Loaded config %s (digest %s)", configPath, cfg.Digest())
	return cfg
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up global flags; subcommands register themselves in their own files
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to scoring/queue YAML config (defaults when empty)")
}
