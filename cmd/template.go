package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/lci-index/lci/dataset"
)

var templateDir string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write header-only CSV templates for data collection",
	Run: func(cmd *cobra.Command, args []string) {
		created, err := dataset.WriteTemplates(templateDir)
		if err != nil {
			logrus.Fatalf("Failed to write templates: %v", err)
		}
		if len(created) == 0 {
			logrus.Infof("All templates already exist under %s", templateDir)
		}
		for _, p := range created {
			fmt.Println(p)
		}
	},
}

func init() {
	templateCmd.Flags().StringVar(&templateDir, "dir", "data", "Data directory to create templates under")

	rootCmd.AddCommand(templateCmd)
}
