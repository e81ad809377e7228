// Package bookmarks keeps the learner's saved-question set, unique by
// question id.
package bookmarks

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abhisek/quizbank/internal/store"
)

// Bookmark is one saved question. SavedAt is an RFC 3339 timestamp.
type Bookmark struct {
	QuestionID string `json:"questionId"`
	SavedAt    string `json:"savedAt"`
}

// Service manages bookmarks over the record store. Storage faults degrade to
// an empty set and are logged.
type Service struct {
	records store.Records
	logger  *log.Logger
	now     func() time.Time

	marks map[string]Bookmark
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates the bookmark service.
func NewService(records store.Records, logger *log.Logger, opts ...Option) *Service {
	s := &Service{records: records, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ensureLoaded(ctx context.Context) {
	if s.marks != nil {
		return
	}
	s.marks = make(map[string]Bookmark)
	raw, err := s.records.Get(ctx, store.KeyBookmarks)
	if err != nil {
		s.logger.Error("load bookmarks, starting empty", "err", err)
		return
	}
	if raw == nil {
		return
	}
	var list []Bookmark
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Error("corrupt bookmarks, starting empty", "err", err)
		return
	}
	for _, bm := range list {
		if _, ok := s.marks[bm.QuestionID]; !ok {
			s.marks[bm.QuestionID] = bm
		}
	}
}

func (s *Service) save(ctx context.Context) {
	raw, err := json.Marshal(s.list())
	if err != nil {
		s.logger.Error("marshal bookmarks", "err", err)
		return
	}
	if err := s.records.Put(ctx, store.KeyBookmarks, raw); err != nil {
		s.logger.Error("save bookmarks", "err", err)
	}
}

func (s *Service) list() []Bookmark {
	out := make([]Bookmark, 0, len(s.marks))
	for _, bm := range s.marks {
		out = append(out, bm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

// Add saves a question. Adding an already-saved question keeps the original
// timestamp.
func (s *Service) Add(ctx context.Context, questionID string) {
	s.ensureLoaded(ctx)
	if _, ok := s.marks[questionID]; ok {
		return
	}
	s.marks[questionID] = Bookmark{
		QuestionID: questionID,
		SavedAt:    s.now().UTC().Format(time.RFC3339),
	}
	s.save(ctx)
}

// Remove deletes a saved question. Removing an unsaved question is a no-op.
func (s *Service) Remove(ctx context.Context, questionID string) {
	s.ensureLoaded(ctx)
	if _, ok := s.marks[questionID]; !ok {
		return
	}
	delete(s.marks, questionID)
	s.save(ctx)
}

// Contains reports whether a question is bookmarked.
func (s *Service) Contains(ctx context.Context, questionID string) bool {
	s.ensureLoaded(ctx)
	_, ok := s.marks[questionID]
	return ok
}

// List returns all bookmarks ordered by question id.
func (s *Service) List(ctx context.Context) []Bookmark {
	s.ensureLoaded(ctx)
	return s.list()
}

// Replace installs a merged bookmark list and persists it.
func (s *Service) Replace(ctx context.Context, list []Bookmark) {
	s.ensureLoaded(ctx)
	s.marks = make(map[string]Bookmark, len(list))
	for _, bm := range list {
		if _, ok := s.marks[bm.QuestionID]; !ok {
			s.marks[bm.QuestionID] = bm
		}
	}
	s.save(ctx)
}

// Reset wipes all bookmarks.
func (s *Service) Reset(ctx context.Context) {
	s.marks = make(map[string]Bookmark)
	if err := s.records.Delete(ctx, store.KeyBookmarks); err != nil {
		s.logger.Error("reset bookmarks", "err", err)
	}
}
