package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/mastery"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show overall mastery statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		stats := a.Mastery.GetOverallStats(ctx)

		bold := lipgloss.NewStyle().Bold(true)
		fmt.Println(bold.Render("Overall progress"))
		fmt.Printf("  Chapters practiced:  %d (%d mastered)\n", stats.ChaptersPracticed, stats.ChaptersMastered)
		fmt.Printf("  Questions answered:  %d (%d correct, %d%%)\n",
			stats.TotalQuestionsAnswered, stats.TotalCorrect, stats.Accuracy)
		fmt.Printf("  Sets completed:      %d\n", stats.TotalSetsCompleted)
		fmt.Printf("  Average level:       %.1f\n", stats.AverageLevel)
		if stats.Streak > 0 {
			fmt.Printf("  Streak:              %d day(s), last practiced %s\n", stats.Streak, stats.LastPracticedDate)
		}

		printChapterScores("Needs work", stats.WeakestChapters)
		printChapterScores("Strongest", stats.StrongestChapters)
		return nil
	},
}

func printChapterScores(heading string, scores []mastery.ChapterScore) {
	if len(scores) == 0 {
		return
	}
	fmt.Printf("\n%s\n", heading)
	for _, cs := range scores {
		level := lipgloss.NewStyle().
			Foreground(mastery.MasteryColor(cs.Level)).
			Render(fmt.Sprintf("L%d %s", cs.Level, mastery.LevelName(cs.Level)))
		fmt.Printf("  %-30s %s (%d pts)\n", cs.Label, level, cs.Points)
	}
}
