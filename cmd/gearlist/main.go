package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "gearlist",
	Short: "Equipment checklist server and tools",
	Long: `gearlist keeps the equipment checklist in sync with the remote catalog,
exports checklists as PDF and manages their history.

Examples:
  gearlist serve
  gearlist refresh
  gearlist logs delete 42`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load configuration from this .env file")

	logsCmd.AddCommand(logsDeleteCmd, logsArchivedCmd)
	rootCmd.AddCommand(serveCmd, refreshCmd, logsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
