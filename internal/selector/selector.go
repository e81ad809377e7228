// Package selector builds non-repeating question sets, prioritizing unseen
// material first, then previously missed questions, then review of mastered
// ones.
package selector

import (
	"math/rand"
	"time"

	"github.com/abhisek/quizbank/internal/catalog"
)

// HistoryFunc reports a learner's standing on one question: whether it has
// been seen, and whether the most recent attempt was correct.
type HistoryFunc func(questionID string) (seen bool, lastCorrect bool)

// Selector picks question sets using an injectable random source.
type Selector struct {
	rng *rand.Rand
}

// New creates a Selector. A nil rng gets a time-seeded source.
func New(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng}
}

// Select partitions pool into unseen, seen-wrong and seen-correct questions,
// shuffles each partition, then fills the set in that priority order. The
// final set is shuffled once more so position reveals nothing about priority.
// No question appears twice; when the pool is smaller than setSize the whole
// pool is returned.
func (s *Selector) Select(pool []catalog.Question, history HistoryFunc, setSize int) []catalog.Question {
	var unseen, seenWrong, seenCorrect []catalog.Question
	for _, q := range pool {
		seen, lastCorrect := history(q.ID)
		switch {
		case !seen:
			unseen = append(unseen, q)
		case !lastCorrect:
			seenWrong = append(seenWrong, q)
		default:
			seenCorrect = append(seenCorrect, q)
		}
	}

	s.shuffle(unseen)
	s.shuffle(seenWrong)
	s.shuffle(seenCorrect)

	selected := make([]catalog.Question, 0, setSize)
	for _, p := range [][]catalog.Question{unseen, seenWrong, seenCorrect} {
		for _, q := range p {
			if len(selected) >= setSize {
				break
			}
			selected = append(selected, q)
		}
	}

	s.shuffle(selected)
	return selected
}

func (s *Selector) shuffle(qs []catalog.Question) {
	s.rng.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}
