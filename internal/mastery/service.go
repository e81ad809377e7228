package mastery

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abhisek/quizbank/internal/catalog"
	"github.com/abhisek/quizbank/internal/selector"
	"github.com/abhisek/quizbank/internal/store"
)

// Service is the mastery ledger: it converts completed question sets into
// durable per-topic progress and answers every progress read the UI needs.
// Storage faults degrade to empty defaults and are logged; no operation here
// can fail the quiz flow.
type Service struct {
	records  store.Records
	registry *catalog.Registry
	logger   *log.Logger
	now      func() time.Time
	sel      *selector.Selector

	ledger *Ledger
	streak *StreakState
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand overrides the question-selection random source, for tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.sel = selector.New(rng) }
}

// NewService creates the ledger service with injected store and catalog.
func NewService(records store.Records, registry *catalog.Registry, logger *log.Logger, opts ...Option) *Service {
	s := &Service{
		records:  records,
		registry: registry,
		logger:   logger,
		now:      time.Now,
		sel:      selector.New(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ensureLoaded reads the persisted ledger and streak once. Unreadable or
// malformed records degrade to empty defaults so a storage fault can never
// block quiz-taking.
func (s *Service) ensureLoaded(ctx context.Context) {
	if s.ledger != nil {
		return
	}
	s.ledger = NewLedger()
	s.streak = &StreakState{}

	raw, err := s.records.Get(ctx, store.KeyMastery)
	if err != nil {
		s.logger.Error("load mastery ledger, starting empty", "err", err)
	} else if raw != nil {
		if err := json.Unmarshal(raw, s.ledger); err != nil {
			s.logger.Error("corrupt mastery ledger, starting empty", "err", err)
			s.ledger = NewLedger()
		}
	}

	raw, err = s.records.Get(ctx, store.KeyStreak)
	if err != nil {
		s.logger.Error("load streak, starting empty", "err", err)
	} else if raw != nil {
		var st StreakState
		if err := json.Unmarshal(raw, &st); err != nil {
			s.logger.Error("corrupt streak record, starting empty", "err", err)
		} else {
			s.streak = &st
		}
	}
}

func (s *Service) saveLedger(ctx context.Context) {
	raw, err := json.Marshal(s.ledger)
	if err != nil {
		s.logger.Error("marshal mastery ledger", "err", err)
		return
	}
	if err := s.records.Put(ctx, store.KeyMastery, raw); err != nil {
		s.logger.Error("save mastery ledger", "err", err)
	}
}

func (s *Service) saveStreak(ctx context.Context) {
	raw, err := json.Marshal(s.streak)
	if err != nil {
		s.logger.Error("marshal streak", "err", err)
		return
	}
	if err := s.records.Put(ctx, store.KeyStreak, raw); err != nil {
		s.logger.Error("save streak", "err", err)
	}
}

// RecordSetResult records one completed question set for a topic: counters
// and per-question history update, points accumulate by accuracy bucket, the
// level is rederived, the streak ticks once, and the updated ledger is
// persisted before returning. Chapter state is computed before and after so
// the summary carries the chapter-visible delta (zero once the topic is at
// its cap, even though raw topic points still grew).
func (s *Service) RecordSetResult(ctx context.Context, topicID string, results []AnswerResult) *SetSummary {
	s.ensureLoaded(ctx)

	topic := s.ledger.Topic(topicID)
	oldLevel := topic.Level

	correctCount := 0
	totalCount := len(results)
	for _, r := range results {
		topic.TotalQuestionsAnswered++
		if r.Correct {
			topic.TotalCorrect++
			correctCount++
		}

		lastResult := ResultIncorrect
		if r.Correct {
			lastResult = ResultCorrect
		}
		qh, ok := topic.QuestionHistory[r.QuestionID]
		if !ok {
			qh = &QuestionRecord{}
			topic.QuestionHistory[r.QuestionID] = qh
		}
		qh.Seen = true
		qh.LastResult = lastResult
		qh.TimesSeen++
		if r.Correct {
			qh.TimesCorrect++
		}
	}

	pointsEarned := SetPoints(correctCount, totalCount)

	// Chapter state before earning points.
	chapter := s.registry.ChapterForTopic(topicID)
	oldChapterPoints := 0
	if chapter != nil {
		oldChapterPoints = s.ledger.chapterPoints(chapter)
	}
	oldChapterLevel := Level(oldChapterPoints)

	// Points only go up.
	topic.Points += pointsEarned
	topic.Level = Level(topic.Points)
	topic.SetsCompleted++
	topic.LastPracticed = DateString(s.now())

	s.saveLedger(ctx)

	// Chapter state after earning points.
	topicCap := chapterMaxPoints
	newChapterPoints := topic.Points
	if chapter != nil {
		topicCap = TopicCap(chapter)
		newChapterPoints = s.ledger.chapterPoints(chapter)
	}
	newChapterLevel := Level(newChapterPoints)
	cappedTopicPoints := min(topic.Points, topicCap)

	streak := s.streak.Tick(s.now())
	s.saveStreak(ctx)

	summary := &SetSummary{
		CorrectCount: correctCount,
		TotalCount:   totalCount,
		Accuracy:     roundPct(correctCount, totalCount),
		PointsEarned: pointsEarned,
		NewPoints:    topic.Points,
		OldLevel:     oldLevel,
		NewLevel:     topic.Level,
		LeveledUp:    topic.Level > oldLevel,
		LevelName:    LevelName(topic.Level),
		Streak:       streak,
		PointsToNext: PointsToNext(topic.Points),

		TopicCap:             topicCap,
		CappedTopicPoints:    cappedTopicPoints,
		TopicAtCap:           cappedTopicPoints >= topicCap,
		ChapterPoints:        newChapterPoints,
		OldChapterLevel:      oldChapterLevel,
		NewChapterLevel:      newChapterLevel,
		ChapterLeveledUp:     newChapterLevel > oldChapterLevel,
		ChapterLevelName:     LevelName(newChapterLevel),
		ChapterPointsToNext:  PointsToNext(newChapterPoints),
		EffectiveChapterGain: newChapterPoints - oldChapterPoints,
	}
	if chapter != nil {
		summary.ChapterID = chapter.ID
		summary.ChapterLabel = chapter.Label
	}
	return summary
}

// SelectQuestions builds a non-repeating session set from the topic's pool,
// prioritizing unseen questions, then previously missed ones.
func (s *Service) SelectQuestions(ctx context.Context, pool []catalog.Question, topicID string, setSize int) []catalog.Question {
	s.ensureLoaded(ctx)

	history := map[string]*QuestionRecord{}
	if tp, ok := s.ledger.Topics[topicID]; ok {
		history = tp.QuestionHistory
	}
	return s.sel.Select(pool, func(questionID string) (bool, bool) {
		qh, ok := history[questionID]
		if !ok || !qh.Seen {
			return false, false
		}
		return true, qh.LastResult == ResultCorrect
	}, setSize)
}

// GetTopicMastery returns the read model for one topic. Unknown topics get
// the zero-progress model.
func (s *Service) GetTopicMastery(ctx context.Context, topicID string) TopicMastery {
	s.ensureLoaded(ctx)

	tp, ok := s.ledger.Topics[topicID]
	if !ok {
		return TopicMastery{
			LevelName:    LevelName(0),
			PointsToNext: Thresholds[1],
		}
	}
	return TopicMastery{
		Points:                 tp.Points,
		Level:                  tp.Level,
		LevelName:              LevelName(tp.Level),
		TotalQuestionsAnswered: tp.TotalQuestionsAnswered,
		TotalCorrect:           tp.TotalCorrect,
		Accuracy:               roundPct(tp.TotalCorrect, tp.TotalQuestionsAnswered),
		SetsCompleted:          tp.SetsCompleted,
		LastPracticed:          tp.LastPracticed,
		PointsToNext:           PointsToNext(tp.Points),
	}
}

// GetChapterMastery returns the capped aggregate read model for a chapter id.
func (s *Service) GetChapterMastery(ctx context.Context, chapterID string) ChapterMastery {
	return s.GetChapterMasteryFor(ctx, s.registry.FindChapter(chapterID))
}

// GetChapterMasteryFor is GetChapterMastery for an already-resolved chapter.
// A nil chapter returns the zero model with the default cap.
func (s *Service) GetChapterMasteryFor(ctx context.Context, ch *catalog.Chapter) ChapterMastery {
	s.ensureLoaded(ctx)

	if ch == nil {
		return ChapterMastery{
			ChapterLevelName: LevelName(0),
			TopicCap:         chapterMaxPoints,
			PointsToNext:     Thresholds[1],
		}
	}

	available := ch.AvailableTopics()
	cap := TopicCap(ch)
	points := 0
	breakdown := make([]TopicBreakdown, 0, len(available))
	for _, t := range available {
		raw := 0
		if tp, ok := s.ledger.Topics[t.ID]; ok {
			raw = tp.Points
		}
		capped := min(raw, cap)
		points += capped
		breakdown = append(breakdown, TopicBreakdown{
			TopicID:      t.ID,
			Label:        t.Label,
			RawPoints:    raw,
			CappedPoints: capped,
			AtCap:        raw >= cap,
		})
	}

	level := Level(points)
	return ChapterMastery{
		ChapterLevel:     level,
		ChapterLevelName: LevelName(level),
		ChapterPoints:    points,
		TopicCap:         cap,
		PointsToNext:     PointsToNext(points),
		TopicBreakdown:   breakdown,
		AvailableCount:   len(available),
		TotalCount:       len(ch.Topics),
	}
}

// GetOverallStats aggregates every chapter plus the streak for the dashboard.
func (s *Service) GetOverallStats(ctx context.Context) OverallStats {
	s.ensureLoaded(ctx)

	stats := OverallStats{}
	for _, tp := range s.ledger.Topics {
		stats.TotalQuestionsAnswered += tp.TotalQuestionsAnswered
		stats.TotalCorrect += tp.TotalCorrect
		stats.TotalSetsCompleted += tp.SetsCompleted
	}
	stats.Accuracy = roundPct(stats.TotalCorrect, stats.TotalQuestionsAnswered)

	levelSum := 0
	var scores []ChapterScore
	for i := range s.registry.Chapters {
		ch := &s.registry.Chapters[i]
		if len(ch.AvailableTopics()) == 0 {
			continue
		}
		cm := s.GetChapterMasteryFor(ctx, ch)
		levelSum += cm.ChapterLevel
		stats.ChaptersPracticed++
		if cm.ChapterLevel >= MaxLevel {
			stats.ChaptersMastered++
		}
		scores = append(scores, ChapterScore{ID: ch.ID, Label: ch.Label, Level: cm.ChapterLevel, Points: cm.ChapterPoints})
	}

	if stats.ChaptersPracticed > 0 {
		stats.AverageLevel = math.Round(float64(levelSum)/float64(stats.ChaptersPracticed)*10) / 10
	}

	weakest := make([]ChapterScore, len(scores))
	strongest := make([]ChapterScore, len(scores))
	copy(weakest, scores)
	copy(strongest, scores)
	sort.SliceStable(weakest, func(i, j int) bool { return weakest[i].Points < weakest[j].Points })
	sort.SliceStable(strongest, func(i, j int) bool { return strongest[i].Points > strongest[j].Points })
	stats.WeakestChapters = topN(weakest, 3)
	stats.StrongestChapters = topN(strongest, 3)

	stats.Streak = s.streak.CurrentStreak
	stats.LastPracticedDate = s.streak.LastPracticedDate
	return stats
}

// GetChaptersInProgress counts chapters where at least one topic has a
// completed set.
func (s *Service) GetChaptersInProgress(ctx context.Context) int {
	s.ensureLoaded(ctx)

	started := 0
	for _, ch := range s.registry.Chapters {
		for _, t := range ch.Topics {
			if tp, ok := s.ledger.Topics[t.ID]; ok && tp.SetsCompleted > 0 {
				started++
				break
			}
		}
	}
	return started
}

// TopicCapFor returns the per-topic cap for a chapter id, or the default cap
// for unknown chapters.
func (s *Service) TopicCapFor(chapterID string) int {
	ch := s.registry.FindChapter(chapterID)
	if ch == nil {
		return chapterMaxPoints
	}
	return TopicCap(ch)
}

// LedgerSnapshot returns a deep copy of the current ledger for merging.
func (s *Service) LedgerSnapshot(ctx context.Context) *Ledger {
	s.ensureLoaded(ctx)
	return s.ledger.Clone()
}

// StreakSnapshot returns the current streak state for merging.
func (s *Service) StreakSnapshot(ctx context.Context) StreakState {
	s.ensureLoaded(ctx)
	return *s.streak
}

// ReplaceLedger installs a merged ledger and persists it. Callers must only
// pass ledgers produced by the merge protocol, which never decreases values.
func (s *Service) ReplaceLedger(ctx context.Context, l *Ledger) {
	s.ensureLoaded(ctx)
	s.ledger = l
	s.saveLedger(ctx)
}

// ReplaceStreak installs a merged streak state and persists it.
func (s *Service) ReplaceStreak(ctx context.Context, st StreakState) {
	s.ensureLoaded(ctx)
	s.streak = &st
	s.saveStreak(ctx)
}

// ResetAll wipes the ledger and streak, locally and in the store.
func (s *Service) ResetAll(ctx context.Context) {
	s.ledger = NewLedger()
	s.streak = &StreakState{}
	if err := s.records.Delete(ctx, store.KeyMastery); err != nil {
		s.logger.Error("reset mastery ledger", "err", err)
	}
	if err := s.records.Delete(ctx, store.KeyStreak); err != nil {
		s.logger.Error("reset streak", "err", err)
	}
}

func roundPct(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func topN(scores []ChapterScore, n int) []ChapterScore {
	if len(scores) > n {
		return scores[:n]
	}
	return scores
}
