package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Manage bookmarked questions",
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <questionId>",
	Short: "Bookmark a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		a.Bookmarks.Add(cmd.Context(), args[0])
		fmt.Println("Bookmarked", args[0])
		return nil
	},
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:   "rm <questionId>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		a.Bookmarks.Remove(cmd.Context(), args[0])
		fmt.Println("Removed", args[0])
		return nil
	},
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarked questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		marks := a.Bookmarks.List(cmd.Context())
		if len(marks) == 0 {
			fmt.Println("No bookmarks.")
			return nil
		}
		for _, bm := range marks {
			fmt.Printf("%-16s saved %s\n", bm.QuestionID, bm.SavedAt)
		}
		return nil
	},
}

func init() {
	bookmarkCmd.AddCommand(bookmarkAddCmd)
	bookmarkCmd.AddCommand(bookmarkRemoveCmd)
	bookmarkCmd.AddCommand(bookmarkListCmd)
}
