package mastery

import (
	"github.com/abhisek/quizbank/internal/catalog"
)

// chapterMaxPoints is the shared point budget every chapter's topics divide.
const chapterMaxPoints = 80

// TopicCap returns the per-topic contribution cap for a chapter:
// ceil(80 / availableTopicCount). A chapter with no available topics gets
// the full budget as its cap.
func TopicCap(ch *catalog.Chapter) int {
	available := len(ch.AvailableTopics())
	if available == 0 {
		return chapterMaxPoints
	}
	return (chapterMaxPoints + available - 1) / available
}

// chapterPoints sums each available topic's points clamped to the cap, so no
// single topic can dominate the chapter score.
func (l *Ledger) chapterPoints(ch *catalog.Chapter) int {
	cap := TopicCap(ch)
	total := 0
	for _, t := range ch.AvailableTopics() {
		raw := 0
		if tp, ok := l.Topics[t.ID]; ok {
			raw = tp.Points
		}
		total += min(raw, cap)
	}
	return total
}
