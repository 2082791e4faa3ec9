package main

import (
	"packlist-go/internal/app"
	"packlist-go/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(logger.NewFromEnv())
		if err != nil {
			return err
		}
		defer application.Close()

		return application.Migrate()
	},
}
