package main

import (
	"fmt"

	"github.com/nasermirzaei89/skintalk"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := skintalk.NewApp(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	err = app.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to run app: %w", err)
	}

	return nil
}
