package mastery

import (
	"encoding/json"
	"fmt"
)

// Result values for a question's most recent attempt.
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
)

// CurrentVersion is the ledger schema version marker.
const CurrentVersion = 2

// QuestionRecord tracks a learner's history with a single question.
type QuestionRecord struct {
	Seen         bool   `json:"seen"`
	LastResult   string `json:"lastResult"`
	TimesSeen    int    `json:"timesSeen"`
	TimesCorrect int    `json:"timesCorrect"`
}

// TopicProgress is the per-topic progress record. Points, answer counters and
// setsCompleted only ever increase; level is always derived from points.
type TopicProgress struct {
	Points                 int                        `json:"points"`
	Level                  int                        `json:"level"`
	TotalQuestionsAnswered int                        `json:"totalQuestionsAnswered"`
	TotalCorrect           int                        `json:"totalCorrect"`
	SetsCompleted          int                        `json:"setsCompleted"`
	QuestionHistory        map[string]*QuestionRecord `json:"questionHistory"`
	LastPracticed          string                     `json:"lastPracticed,omitempty"` // YYYY-MM-DD, empty = never
}

func newTopicProgress() *TopicProgress {
	return &TopicProgress{QuestionHistory: make(map[string]*QuestionRecord)}
}

// StreakState is the daily-practice streak. Single instance per learner.
type StreakState struct {
	CurrentStreak     int    `json:"currentStreak"`
	LastPracticedDate string `json:"lastPracticedDate,omitempty"` // YYYY-MM-DD, empty = never
}

// Ledger holds all topics' progress plus the schema version marker.
//
// The wire/storage shape is a flat JSON object mapping topic id to progress
// record, with the version stored under the reserved "_version" key.
type Ledger struct {
	Version int
	Topics  map[string]*TopicProgress
}

// NewLedger returns an empty ledger at the current schema version.
func NewLedger() *Ledger {
	return &Ledger{Version: CurrentVersion, Topics: make(map[string]*TopicProgress)}
}

// Topic returns the progress record for topicID, creating it lazily.
func (l *Ledger) Topic(topicID string) *TopicProgress {
	if tp, ok := l.Topics[topicID]; ok {
		return tp
	}
	tp := newTopicProgress()
	l.Topics[topicID] = tp
	return tp
}

// MarshalJSON flattens the ledger into the stored object shape.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Topics)+1)
	out["_version"] = l.Version
	for id, tp := range l.Topics {
		out[id] = tp
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the stored object shape back into the ledger.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Version = 1
	l.Topics = make(map[string]*TopicProgress, len(raw))
	for key, val := range raw {
		if key == "_version" {
			if err := json.Unmarshal(val, &l.Version); err != nil {
				return fmt.Errorf("ledger version: %w", err)
			}
			continue
		}
		tp := newTopicProgress()
		if err := json.Unmarshal(val, tp); err != nil {
			return fmt.Errorf("topic %q: %w", key, err)
		}
		if tp.QuestionHistory == nil {
			tp.QuestionHistory = make(map[string]*QuestionRecord)
		}
		l.Topics[key] = tp
	}
	return nil
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{Version: l.Version, Topics: make(map[string]*TopicProgress, len(l.Topics))}
	for id, tp := range l.Topics {
		cp := *tp
		cp.QuestionHistory = make(map[string]*QuestionRecord, len(tp.QuestionHistory))
		for qid, qr := range tp.QuestionHistory {
			qcp := *qr
			cp.QuestionHistory[qid] = &qcp
		}
		out.Topics[id] = &cp
	}
	return out
}

// AnswerResult is one per-question outcome within a completed set.
type AnswerResult struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
}

// SetSummary is returned by RecordSetResult with every delta the UI needs.
type SetSummary struct {
	CorrectCount int    `json:"correctCount"`
	TotalCount   int    `json:"totalCount"`
	Accuracy     int    `json:"accuracy"` // percent, rounded
	PointsEarned int    `json:"pointsEarned"`
	NewPoints    int    `json:"newPoints"`
	OldLevel     int    `json:"oldLevel"`
	NewLevel     int    `json:"newLevel"`
	LeveledUp    bool   `json:"leveledUp"`
	LevelName    string `json:"levelName"`
	Streak       int    `json:"streak"`
	PointsToNext int    `json:"pointsToNext"`

	ChapterID            string `json:"chapterId,omitempty"`
	ChapterLabel         string `json:"chapterLabel,omitempty"`
	TopicCap             int    `json:"topicCap"`
	CappedTopicPoints    int    `json:"cappedTopicPoints"`
	TopicAtCap           bool   `json:"topicAtCap"`
	ChapterPoints        int    `json:"chapterPoints"`
	OldChapterLevel      int    `json:"oldChapterLevel"`
	NewChapterLevel      int    `json:"newChapterLevel"`
	ChapterLeveledUp     bool   `json:"chapterLeveledUp"`
	ChapterLevelName     string `json:"chapterLevelName"`
	ChapterPointsToNext  int    `json:"chapterPointsToNext"`
	EffectiveChapterGain int    `json:"effectiveChapterGain"`
}

// TopicMastery is the read model for a single topic.
type TopicMastery struct {
	Points                 int    `json:"points"`
	Level                  int    `json:"level"`
	LevelName              string `json:"levelName"`
	TotalQuestionsAnswered int    `json:"totalQuestionsAnswered"`
	TotalCorrect           int    `json:"totalCorrect"`
	Accuracy               int    `json:"accuracy"`
	SetsCompleted          int    `json:"setsCompleted"`
	LastPracticed          string `json:"lastPracticed,omitempty"`
	PointsToNext           int    `json:"pointsToNext"`
}

// TopicBreakdown is one topic's contribution within a chapter read model.
type TopicBreakdown struct {
	TopicID      string `json:"topicId"`
	Label        string `json:"label"`
	RawPoints    int    `json:"rawPoints"`
	CappedPoints int    `json:"cappedPoints"`
	AtCap        bool   `json:"atCap"`
}

// ChapterMastery is the read model for a chapter's capped aggregate.
type ChapterMastery struct {
	ChapterLevel     int              `json:"chapterLevel"`
	ChapterLevelName string           `json:"chapterLevelName"`
	ChapterPoints    int              `json:"chapterPoints"`
	TopicCap         int              `json:"topicCap"`
	PointsToNext     int              `json:"pointsToNext"`
	TopicBreakdown   []TopicBreakdown `json:"topicBreakdown"`
	AvailableCount   int              `json:"availableCount"`
	TotalCount       int              `json:"totalCount"`
}

// ChapterScore ranks a chapter for the overall stats read model.
type ChapterScore struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Level  int    `json:"level"`
	Points int    `json:"points"`
}

// OverallStats aggregates every chapter and the streak into one dashboard
// read model.
type OverallStats struct {
	ChaptersPracticed      int            `json:"chaptersPracticed"`
	ChaptersMastered       int            `json:"chaptersMastered"`
	TotalQuestionsAnswered int            `json:"totalQuestionsAnswered"`
	TotalCorrect           int            `json:"totalCorrect"`
	Accuracy               int            `json:"accuracy"`
	TotalSetsCompleted     int            `json:"totalSetsCompleted"`
	AverageLevel           float64        `json:"averageLevel"`
	Streak                 int            `json:"streak"`
	LastPracticedDate      string         `json:"lastPracticedDate,omitempty"`
	WeakestChapters        []ChapterScore `json:"weakestChapters"`
	StrongestChapters      []ChapterScore `json:"strongestChapters"`
}
