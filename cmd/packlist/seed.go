package main

import (
	"fmt"

	"packlist-go/internal/app"
	"packlist-go/pkg/logger"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the built-in default templates",
	Long:  `Insert the built-in default templates. Does nothing when default templates already exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(logger.NewFromEnv())
		if err != nil {
			return err
		}
		defer application.Close()

		created, err := application.SeedTemplates(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d default templates\n", created)
		return nil
	},
}
