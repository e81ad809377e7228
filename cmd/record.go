package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/mastery"
)

var recordCmd = &cobra.Command{
	Use:   "record <topic> <questionId>=<correct|wrong> ...",
	Short: "Record a completed question set",
	Long: `Record the graded results of a question set against a topic, e.g.

  quizbank record ecg-basics q101=correct q102=wrong q103=correct`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		topicID := args[0]
		if a.Registry.ChapterForTopic(topicID) == nil {
			return fmt.Errorf("unknown topic %q", topicID)
		}

		results, err := parseResults(args[1:])
		if err != nil {
			return err
		}

		summary := a.Mastery.RecordSetResult(ctx, topicID, results)
		a.Retries.UpdateAfterSession(ctx, "topic:"+topicID, results)

		printSummary(summary)

		if a.Sync != nil {
			// Best effort; a failed push never blocks recording.
			_ = a.Sync.Push(ctx)
		}
		return nil
	},
}

func parseResults(args []string) ([]mastery.AnswerResult, error) {
	results := make([]mastery.AnswerResult, 0, len(args))
	for _, arg := range args {
		id, verdict, ok := strings.Cut(arg, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("malformed result %q: want <questionId>=<correct|wrong>", arg)
		}
		switch verdict {
		case "correct", "right", "1":
			results = append(results, mastery.AnswerResult{QuestionID: id, Correct: true})
		case "wrong", "incorrect", "0":
			results = append(results, mastery.AnswerResult{QuestionID: id, Correct: false})
		default:
			return nil, fmt.Errorf("malformed result %q: verdict must be correct or wrong", arg)
		}
	}
	return results, nil
}

func printSummary(s *mastery.SetSummary) {
	fmt.Printf("Set complete: %d/%d correct (%d%%), +%d point(s)\n",
		s.CorrectCount, s.TotalCount, s.Accuracy, s.PointsEarned)

	level := lipgloss.NewStyle().
		Foreground(mastery.MasteryColor(s.NewLevel)).
		Render(fmt.Sprintf("L%d %s", s.NewLevel, s.LevelName))
	fmt.Printf("Topic: %s, %d pts", level, s.NewPoints)
	if s.LeveledUp {
		fmt.Print("  LEVEL UP!")
	}
	if s.TopicAtCap {
		fmt.Printf("  (capped at %d for chapter credit)", s.TopicCap)
	}
	fmt.Println()

	if s.ChapterID != "" {
		chLevel := lipgloss.NewStyle().
			Foreground(mastery.MasteryColor(s.NewChapterLevel)).
			Render(fmt.Sprintf("L%d %s", s.NewChapterLevel, s.ChapterLevelName))
		fmt.Printf("Chapter %s: %s, %d pts", s.ChapterLabel, chLevel, s.ChapterPoints)
		if s.ChapterLeveledUp {
			fmt.Print("  CHAPTER LEVEL UP!")
		}
		fmt.Println()
	}

	if s.Streak > 0 {
		fmt.Printf("Streak: %d day(s)\n", s.Streak)
	}
}

