// Package retryqueue tracks questions a learner missed, per practice scope,
// so later sessions can re-serve them after a one-session delay.
package retryqueue

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/store"
)

// maxAttempts retires a question after this many failed retries.
const maxAttempts = 3

// retryFillRatio caps how much of a set retries may occupy.
const retryFillRatio = 0.4

// Entry is one flagged question within a scope's queue.
type Entry struct {
	QuestionID        string `json:"questionId"`
	WrongInSession    int    `json:"wrongInSession"`
	Attempts          int    `json:"attempts"`
	EligibleAtSession int    `json:"eligibleAtSession"`
}

// Scope is one practice scope's retry state. Scope keys are free-form
// ("topic:<id>", "quick10", ...); the queue does not interpret them.
type Scope struct {
	SessionCounter int     `json:"sessionCounter"`
	Queue          []Entry `json:"queue"`
}

// Queues maps scope key to retry state. This is the persisted shape.
type Queues map[string]*Scope

// Service manages retry queues over the record store. Storage faults degrade
// to an empty queue and are logged.
type Service struct {
	records store.Records
	logger  *log.Logger
	rng     *rand.Rand

	queues Queues
}

// Option configures a Service.
type Option func(*Service)

// WithRand overrides the shuffle source, for tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// NewService creates the retry-queue service.
func NewService(records store.Records, logger *log.Logger, opts ...Option) *Service {
	s := &Service{
		records: records,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ensureLoaded(ctx context.Context) {
	if s.queues != nil {
		return
	}
	s.queues = make(Queues)
	raw, err := s.records.Get(ctx, store.KeyRetryQueue)
	if err != nil {
		s.logger.Error("load retry queue, starting empty", "err", err)
		return
	}
	if raw == nil {
		return
	}
	if err := json.Unmarshal(raw, &s.queues); err != nil {
		s.logger.Error("corrupt retry queue, starting empty", "err", err)
		s.queues = make(Queues)
	}
}

func (s *Service) save(ctx context.Context) {
	raw, err := json.Marshal(s.queues)
	if err != nil {
		s.logger.Error("marshal retry queue", "err", err)
		return
	}
	if err := s.records.Put(ctx, store.KeyRetryQueue, raw); err != nil {
		s.logger.Error("save retry queue", "err", err)
	}
}

func (s *Service) scope(scopeKey string) *Scope {
	sc, ok := s.queues[scopeKey]
	if !ok {
		sc = &Scope{SessionCounter: 1}
		s.queues[scopeKey] = sc
	}
	return sc
}

// InitSession ensures a scope exists before its first session.
func (s *Service) InitSession(ctx context.Context, scopeKey string) {
	if scopeKey == "" {
		return
	}
	s.ensureLoaded(ctx)
	if _, ok := s.queues[scopeKey]; !ok {
		s.scope(scopeKey)
		s.save(ctx)
	}
}

// UpdateAfterSession reconciles the scope's queue with a finished session's
// first-attempt results: a correct answer removes the question from the
// queue, a wrong answer adds it (or bumps its attempts, retiring it after
// three failed retries) and delays its eligibility by one session.
func (s *Service) UpdateAfterSession(ctx context.Context, scopeKey string, results []mastery.AnswerResult) {
	if scopeKey == "" {
		return
	}
	s.ensureLoaded(ctx)
	sc := s.scope(scopeKey)
	session := sc.SessionCounter

	for _, r := range results {
		idx := -1
		for i := range sc.Queue {
			if sc.Queue[i].QuestionID == r.QuestionID {
				idx = i
				break
			}
		}

		if r.Correct {
			// Mastered on retry.
			if idx != -1 {
				sc.Queue = append(sc.Queue[:idx], sc.Queue[idx+1:]...)
			}
			continue
		}

		if idx != -1 {
			e := &sc.Queue[idx]
			e.Attempts++
			if e.Attempts > maxAttempts {
				// Retired after three failed retries.
				sc.Queue = append(sc.Queue[:idx], sc.Queue[idx+1:]...)
			} else {
				e.WrongInSession = session
				e.EligibleAtSession = session + 1
			}
			continue
		}

		sc.Queue = append(sc.Queue, Entry{
			QuestionID:        r.QuestionID,
			WrongInSession:    session,
			Attempts:          1,
			EligibleAtSession: session + 1,
		})
	}

	s.save(ctx)
}

// StartRetrySession advances the scope's session counter and returns the
// question ids due for retry, shuffled and capped at 40% of setSize (at
// least one).
func (s *Service) StartRetrySession(ctx context.Context, scopeKey string, setSize int) (session int, retryIDs []string) {
	s.ensureLoaded(ctx)
	sc := s.scope(scopeKey)
	sc.SessionCounter++
	s.save(ctx)

	for _, e := range sc.Queue {
		if e.EligibleAtSession <= sc.SessionCounter {
			retryIDs = append(retryIDs, e.QuestionID)
		}
	}
	s.rng.Shuffle(len(retryIDs), func(i, j int) {
		retryIDs[i], retryIDs[j] = retryIDs[j], retryIDs[i]
	})

	maxRetry := int(float64(setSize) * retryFillRatio)
	if maxRetry < 1 {
		maxRetry = 1
	}
	if len(retryIDs) > maxRetry {
		retryIDs = retryIDs[:maxRetry]
	}
	return sc.SessionCounter, retryIDs
}

// PendingCount reports how many questions would be eligible if another
// session started now.
func (s *Service) PendingCount(ctx context.Context, scopeKey string) int {
	s.ensureLoaded(ctx)
	sc, ok := s.queues[scopeKey]
	if !ok {
		return 0
	}
	next := sc.SessionCounter + 1
	count := 0
	for _, e := range sc.Queue {
		if e.EligibleAtSession <= next {
			count++
		}
	}
	return count
}

// Snapshot returns a deep copy of all scopes for merging.
func (s *Service) Snapshot(ctx context.Context) Queues {
	s.ensureLoaded(ctx)
	out := make(Queues, len(s.queues))
	for k, sc := range s.queues {
		cp := &Scope{SessionCounter: sc.SessionCounter, Queue: append([]Entry(nil), sc.Queue...)}
		out[k] = cp
	}
	return out
}

// Replace installs merged queues and persists them.
func (s *Service) Replace(ctx context.Context, q Queues) {
	s.ensureLoaded(ctx)
	if q == nil {
		q = make(Queues)
	}
	s.queues = q
	s.save(ctx)
}

// Reset wipes all retry state.
func (s *Service) Reset(ctx context.Context) {
	s.queues = make(Queues)
	if err := s.records.Delete(ctx, store.KeyRetryQueue); err != nil {
		s.logger.Error("reset retry queue", "err", err)
	}
}
