package main

import (
	"os"

	"packlist-go/pkg/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "packlist",
	Short: "Packing checklist API server",
	Long: `Packlist serves the packing checklist REST API.

Running without a subcommand is the same as "packlist serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.NewFromEnv().Critical("app: command failed", "err", err)
		os.Exit(1)
	}
}
