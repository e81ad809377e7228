// Package syncer reconciles local progress with the remote progress service.
// The merge rules are monotonic (values never decrease), commutative and
// idempotent, so either replica can initiate a sync at any time.
package syncer

import (
	"github.com/abhisek/quizbank/internal/bookmarks"
	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/retryqueue"
)

// MergeLedgers combines two mastery ledgers. Topics present on one side pass
// through; topics on both sides take the max of every counter, the later
// practice date, a level rederived from merged points, and a union of their
// question histories.
func MergeLedgers(local, remote *mastery.Ledger) *mastery.Ledger {
	merged := mastery.NewLedger()
	merged.Version = max(local.Version, remote.Version)

	for id, tp := range local.Topics {
		if _, ok := remote.Topics[id]; !ok {
			merged.Topics[id] = cloneTopic(tp)
		}
	}
	for id, tp := range remote.Topics {
		if _, ok := local.Topics[id]; !ok {
			merged.Topics[id] = cloneTopic(tp)
		}
	}
	for id, l := range local.Topics {
		r, ok := remote.Topics[id]
		if !ok {
			continue
		}
		merged.Topics[id] = mergeTopic(l, r)
	}
	return merged
}

func mergeTopic(l, r *mastery.TopicProgress) *mastery.TopicProgress {
	out := &mastery.TopicProgress{
		Points:                 max(l.Points, r.Points),
		TotalQuestionsAnswered: max(l.TotalQuestionsAnswered, r.TotalQuestionsAnswered),
		TotalCorrect:           max(l.TotalCorrect, r.TotalCorrect),
		SetsCompleted:          max(l.SetsCompleted, r.SetsCompleted),
		QuestionHistory:        mergeHistories(l.QuestionHistory, r.QuestionHistory),
		LastPracticed:          laterDate(l.LastPracticed, r.LastPracticed),
	}
	// Never trust a stored level from either side.
	out.Level = mastery.Level(out.Points)
	return out
}

func mergeHistories(local, remote map[string]*mastery.QuestionRecord) map[string]*mastery.QuestionRecord {
	merged := make(map[string]*mastery.QuestionRecord, len(local)+len(remote))
	for qid, l := range local {
		r, ok := remote[qid]
		if !ok {
			cp := *l
			merged[qid] = &cp
			continue
		}
		// lastResult follows whichever side saw the question more;
		// a tie favors local.
		lastResult := r.LastResult
		if l.TimesSeen >= r.TimesSeen {
			lastResult = l.LastResult
		}
		merged[qid] = &mastery.QuestionRecord{
			Seen:         l.Seen || r.Seen,
			LastResult:   lastResult,
			TimesSeen:    max(l.TimesSeen, r.TimesSeen),
			TimesCorrect: max(l.TimesCorrect, r.TimesCorrect),
		}
	}
	for qid, r := range remote {
		if _, ok := local[qid]; !ok {
			cp := *r
			merged[qid] = &cp
		}
	}
	return merged
}

// MergeStreaks takes the longer streak and the later practice date.
func MergeStreaks(local, remote mastery.StreakState) mastery.StreakState {
	return mastery.StreakState{
		CurrentStreak:     max(local.CurrentStreak, remote.CurrentStreak),
		LastPracticedDate: laterDate(local.LastPracticedDate, remote.LastPracticedDate),
	}
}

// MergeQueues combines retry queues per scope: the session counter takes the
// max and, per question id, the entry with more attempts wins.
func MergeQueues(local, remote retryqueue.Queues) retryqueue.Queues {
	merged := make(retryqueue.Queues, len(local)+len(remote))
	for key, l := range local {
		r, ok := remote[key]
		if !ok {
			merged[key] = cloneScope(l)
			continue
		}
		merged[key] = mergeScope(l, r)
	}
	for key, r := range remote {
		if _, ok := local[key]; !ok {
			merged[key] = cloneScope(r)
		}
	}
	return merged
}

func mergeScope(l, r *retryqueue.Scope) *retryqueue.Scope {
	byID := make(map[string]retryqueue.Entry, len(l.Queue)+len(r.Queue))
	var order []string
	for _, e := range l.Queue {
		byID[e.QuestionID] = e
		order = append(order, e.QuestionID)
	}
	for _, e := range r.Queue {
		existing, ok := byID[e.QuestionID]
		if !ok {
			byID[e.QuestionID] = e
			order = append(order, e.QuestionID)
			continue
		}
		if e.Attempts > existing.Attempts {
			byID[e.QuestionID] = e
		}
	}

	out := &retryqueue.Scope{SessionCounter: max(l.SessionCounter, r.SessionCounter)}
	for _, qid := range order {
		out.Queue = append(out.Queue, byID[qid])
	}
	return out
}

// MergeBookmarks unions two bookmark lists by question id, keeping the
// earliest savedAt on conflict.
func MergeBookmarks(local, remote []bookmarks.Bookmark) []bookmarks.Bookmark {
	byID := make(map[string]bookmarks.Bookmark, len(local)+len(remote))
	var order []string
	for _, bm := range local {
		if _, ok := byID[bm.QuestionID]; !ok {
			byID[bm.QuestionID] = bm
			order = append(order, bm.QuestionID)
		}
	}
	for _, bm := range remote {
		existing, ok := byID[bm.QuestionID]
		if !ok {
			byID[bm.QuestionID] = bm
			order = append(order, bm.QuestionID)
			continue
		}
		if bm.SavedAt != "" && (existing.SavedAt == "" || bm.SavedAt < existing.SavedAt) {
			byID[bm.QuestionID] = bm
		}
	}

	out := make([]bookmarks.Bookmark, 0, len(order))
	for _, qid := range order {
		out = append(out, byID[qid])
	}
	return out
}

func cloneTopic(tp *mastery.TopicProgress) *mastery.TopicProgress {
	cp := *tp
	cp.QuestionHistory = make(map[string]*mastery.QuestionRecord, len(tp.QuestionHistory))
	for qid, qr := range tp.QuestionHistory {
		qcp := *qr
		cp.QuestionHistory[qid] = &qcp
	}
	return &cp
}

func cloneScope(sc *retryqueue.Scope) *retryqueue.Scope {
	return &retryqueue.Scope{
		SessionCounter: sc.SessionCounter,
		Queue:          append([]retryqueue.Entry(nil), sc.Queue...),
	}
}

// laterDate returns the later of two ISO calendar dates; empty means absent.
func laterDate(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a > b {
		return a
	}
	return b
}
