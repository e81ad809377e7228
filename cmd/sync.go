package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/app"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize progress with the remote service",
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload local progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildSyncApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Sync.Push(cmd.Context()); err != nil {
			return fmt.Errorf("push progress: %w", err)
		}
		fmt.Println("Progress pushed.")
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch remote progress and merge it with local state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildSyncApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		merged, err := a.Sync.Pull(cmd.Context())
		if err != nil {
			return fmt.Errorf("pull progress: %w", err)
		}
		if merged {
			fmt.Println("Remote progress merged.")
		} else {
			fmt.Println("No remote progress yet; local state pushed.")
		}
		return nil
	},
}

func buildSyncApp(cmd *cobra.Command) (*app.App, error) {
	a, err := buildApp(cmd)
	if err != nil {
		return nil, err
	}
	if a.Sync == nil {
		a.Close()
		return nil, fmt.Errorf("sync not configured: set QUIZBANK_SYNC_URL")
	}
	if !a.Sync.Authenticated() {
		a.Close()
		return nil, fmt.Errorf("not signed in: set QUIZBANK_SYNC_TOKEN")
	}
	return a, nil
}

func init() {
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
}
