package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/nasermirzaei89/skintalk"
	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/nasermirzaei89/skintalk/seed"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import a JSON snapshot into the SQLite database",
	Long: `Replace the content of the database at DB_DSN with a {discussion, comments}
JSON document. Without --file the bundled dataset is imported.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "path of the JSON document to import")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	var source discuss.SnapshotSource = seed.Embedded()
	if seedFile != "" {
		source = &seed.File{Path: seedFile}
	}

	err := skintalk.ImportSeed(cmd.Context(), source)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	if seedFile == "" {
		color.Green("Imported bundled dataset")
	} else {
		color.Green("Imported %s", seedFile)
	}

	return nil
}
