package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/nasermirzaei89/skintalk"
	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the board loaded from DATA_SOURCE as a comment tree",
	Args:  cobra.NoArgs,
	RunE:  runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, _ []string) error {
	source, db, err := skintalk.NewSnapshotSource(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create snapshot source: %w", err)
	}

	if db != nil {
		defer func() { _ = db.Close() }()
	}

	svc := discuss.NewService(discuss.NewBoard(discuss.PlaceholderUser), source)

	err = svc.Reload(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	return printTree(cmd.OutOrStdout(), svc.ListDiscussions(cmd.Context()))
}

var (
	titleColor  = color.New(color.Bold)
	authorColor = color.New(color.FgCyan)
	faintColor  = color.New(color.Faint)
)

func printTree(w io.Writer, discussions []*discuss.Discussion) error {
	if len(discussions) == 0 {
		_, err := fmt.Fprintln(w, "No discussions found.")

		return err
	}

	for _, discussion := range discussions {
		_, err := fmt.Fprintf(
			w,
			"%s %s\n",
			titleColor.Sprintf("#%d %s", discussion.ID, discussion.Title),
			faintColor.Sprintf("[%s] %d upvotes, %d comments", discussion.Category.Label, discussion.UpvoteCount, discussion.CommentCount),
		)
		if err != nil {
			return err
		}

		err = discuss.Walk(discussion.Comments, func(path discuss.CommentPath, comment *discuss.Comment) error {
			_, err := fmt.Fprintf(
				w,
				"%s%s %s %s\n",
				strings.Repeat("  ", len(path)),
				authorColor.Sprint(comment.User.NickName),
				faintColor.Sprintf("(%s, %s)", path.String(), formatDate(comment.CreatedAt)),
				firstLine(comment.Content),
			)

			return err
		})
		if err != nil {
			return fmt.Errorf("failed to print comments: %w", err)
		}
	}

	return nil
}

// formatDate renders times the way the board shows them, e.g. "9:5 - 2024.03.2".
func formatDate(t time.Time) string {
	return fmt.Sprintf("%d:%d - %d.%02d.%d", t.Hour(), t.Minute(), t.Year(), int(t.Month()), t.Day())
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")

	return line
}
