package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/mastery"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List chapters and topics with mastery levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		chapterID, _ := cmd.Flags().GetString("chapter")

		for i := range a.Registry.Chapters {
			ch := &a.Registry.Chapters[i]
			if chapterID != "" && ch.ID != chapterID {
				continue
			}
			cm := a.Mastery.GetChapterMasteryFor(ctx, ch)
			chapterLevel := lipgloss.NewStyle().
				Foreground(mastery.MasteryColor(cm.ChapterLevel)).
				Render(fmt.Sprintf("L%d %s", cm.ChapterLevel, cm.ChapterLevelName))
			fmt.Printf("%s %s — %s, %d pts (cap %d/topic, %d of %d topics available)\n",
				ch.Emoji, ch.Label, chapterLevel, cm.ChapterPoints, cm.TopicCap, cm.AvailableCount, cm.TotalCount)

			for _, t := range ch.Topics {
				if !t.Available() {
					fmt.Printf("    %-32s (coming soon)\n", t.Label)
					continue
				}
				tm := a.Mastery.GetTopicMastery(ctx, t.ID)
				level := lipgloss.NewStyle().
					Foreground(mastery.MasteryColor(tm.Level)).
					Render(fmt.Sprintf("L%d", tm.Level))
				line := fmt.Sprintf("    %-32s %s  %d pts", t.Label, level, tm.Points)
				if tm.SetsCompleted > 0 {
					line += fmt.Sprintf("  (%d sets, %d%% accuracy)", tm.SetsCompleted, tm.Accuracy)
				}
				fmt.Println(line)
			}
		}

		if chapterID != "" && a.Registry.FindChapter(chapterID) == nil {
			return fmt.Errorf("unknown chapter %q", chapterID)
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().String("chapter", "", "Show a single chapter by id")
}
