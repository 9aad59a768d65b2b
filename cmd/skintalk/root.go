package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skintalk",
	Short: "Skincare discussion board",
	Long: `Skincare discussion board with threaded comments.

The board is loaded from DATA_SOURCE (embedded, file or sqlite) at
start-up. Submissions live in memory for the lifetime of the process.`,
	SilenceUsage: true,
}
