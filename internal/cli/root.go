// Package cli implements the waterworks command line: the API server and the
// operator account tools.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "waterworks",
	Short: "Water utility billing console",
	Long: `waterworks runs the billing backend for a municipal water utility:
customer registry, meter-reading bills, payments, receipts and reports.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
