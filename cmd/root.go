package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/app"
	"github.com/abhisek/quizbank/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizbank",
	Short: "Quiz mastery tracking and progress sync",
	Long:  "Quizbank — tracks per-topic mastery, streaks and retry queues over a question bank, and syncs progress across devices.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZBANK_DB env var)")
	rootCmd.PersistentFlags().String("registry", "", "Path to chapter registry JSON (overrides QUIZBANK_REGISTRY env var)")
	rootCmd.PersistentFlags().String("questions", "", "Path to question pool JSON (overrides QUIZBANK_QUESTIONS env var)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZBANK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// buildApp wires the full application from the command's flags and env.
func buildApp(cmd *cobra.Command) (*app.App, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	registryPath, _ := cmd.Flags().GetString("registry")
	if registryPath == "" {
		registryPath = os.Getenv("QUIZBANK_REGISTRY")
	}
	if registryPath == "" {
		return nil, fmt.Errorf("no registry configured: use --registry or QUIZBANK_REGISTRY")
	}

	questionsPath, _ := cmd.Flags().GetString("questions")
	if questionsPath == "" {
		questionsPath = os.Getenv("QUIZBANK_QUESTIONS")
	}

	return app.New(app.Options{
		DBPath:        dbPath,
		RegistryPath:  registryPath,
		QuestionsPath: questionsPath,
	})
}
