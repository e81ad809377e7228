package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/catalog"
)

var pickCmd = &cobra.Command{
	Use:   "pick <topic>",
	Short: "Select a question set for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		topicID := args[0]
		size, _ := cmd.Flags().GetInt("size")
		retry, _ := cmd.Flags().GetBool("retry")

		if a.Registry.ChapterForTopic(topicID) == nil {
			return fmt.Errorf("unknown topic %q", topicID)
		}
		if len(a.Questions) == 0 {
			return fmt.Errorf("no question pool loaded: use --questions or QUIZBANK_QUESTIONS")
		}

		var pool []catalog.Question
		for _, q := range a.Questions {
			if q.Topic == topicID {
				pool = append(pool, q)
			}
		}
		if len(pool) == 0 {
			return fmt.Errorf("no questions for topic %q", topicID)
		}

		if retry {
			session, ids := a.Retries.StartRetrySession(ctx, "topic:"+topicID, size)
			if len(ids) == 0 {
				fmt.Println("Nothing to retry.")
				return nil
			}
			fmt.Printf("Retry session %d (%d question(s)):\n", session, len(ids))
			for _, id := range ids {
				fmt.Println(" ", id)
			}
			return nil
		}

		a.Retries.InitSession(ctx, "topic:"+topicID)
		set := a.Mastery.SelectQuestions(ctx, pool, topicID, size)
		fmt.Printf("Selected %d question(s) for %s:\n", len(set), a.Registry.TopicLabel(topicID))
		for _, q := range set {
			fmt.Printf("  %-16s [%s/%s] %s\n", q.ID, q.Difficulty, q.Type, q.Text)
		}
		if pending := a.Retries.PendingCount(ctx, "topic:"+topicID); pending > 0 {
			fmt.Printf("%d question(s) waiting in the retry queue.\n", pending)
		}
		return nil
	},
}

func init() {
	pickCmd.Flags().Int("size", 10, "Number of questions in the set")
	pickCmd.Flags().Bool("retry", false, "Start a retry session from previously missed questions")
}
