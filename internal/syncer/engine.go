package syncer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/abhisek/quizbank/internal/bookmarks"
	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/retryqueue"
	"github.com/abhisek/quizbank/internal/store"
)

// Engine merges local progress with the remote service and pushes the union
// back. Both operations are best-effort: failures are logged as warnings and
// never reach the learner.
type Engine struct {
	client    Client
	token     TokenFunc
	masterySv *mastery.Service
	retries   *retryqueue.Service
	marks     *bookmarks.Service
	records   store.Records
	logger    *log.Logger
}

// NewEngine wires the synchronization engine.
func NewEngine(client Client, token TokenFunc, masterySv *mastery.Service, retries *retryqueue.Service, marks *bookmarks.Service, records store.Records, logger *log.Logger) *Engine {
	return &Engine{
		client:    client,
		token:     token,
		masterySv: masterySv,
		retries:   retries,
		marks:     marks,
		records:   records,
		logger:    logger,
	}
}

// Authenticated reports whether a sync can happen at all.
func (e *Engine) Authenticated() bool {
	return e.token() != ""
}

// Push uploads the full local state as a replace-style upsert. A no-op when
// unauthenticated. The returned error is for the caller's logging only; it
// is never fatal to the quiz flow.
func (e *Engine) Push(ctx context.Context) error {
	if !e.Authenticated() {
		return nil
	}

	payload := Payload{
		MasteryData: e.masterySv.LedgerSnapshot(ctx),
		StreakData:  e.masterySv.StreakSnapshot(ctx),
		RetryQueue:  e.retries.Snapshot(ctx),
		Bookmarks:   e.marks.List(ctx),
		DeviceID:    e.deviceID(ctx),
	}

	updatedAt, err := e.client.Upload(ctx, payload)
	if err != nil {
		e.logger.Warn("progress sync failed", "err", err)
		return err
	}
	e.logger.Info("progress synced", "updated_at", updatedAt)
	return nil
}

// Pull fetches the remote snapshot and merges it into local state, then
// re-pushes the union so the remote converges too. Returns whether a merge
// happened. A no-op (false) when unauthenticated; a remote without a
// snapshot yet gets the local state pushed up instead.
func (e *Engine) Pull(ctx context.Context) (bool, error) {
	if !e.Authenticated() {
		return false, nil
	}

	snap, err := e.client.Fetch(ctx)
	if err != nil {
		e.logger.Warn("progress pull failed", "err", err)
		return false, err
	}

	if snap == nil {
		// Nothing remote yet; seed it with local state.
		return false, e.Push(ctx)
	}

	e.merge(ctx, snap)

	// Push the union back so the server holds the combined data. Push
	// failures are already logged; the merge itself succeeded.
	_ = e.Push(ctx)
	return true, nil
}

func (e *Engine) merge(ctx context.Context, snap *RemoteSnapshot) {
	remoteLedger := snap.MasteryData
	if remoteLedger == nil {
		remoteLedger = mastery.NewLedger()
	}
	e.masterySv.ReplaceLedger(ctx, MergeLedgers(e.masterySv.LedgerSnapshot(ctx), remoteLedger))
	e.masterySv.ReplaceStreak(ctx, MergeStreaks(e.masterySv.StreakSnapshot(ctx), snap.StreakData))
	e.retries.Replace(ctx, MergeQueues(e.retries.Snapshot(ctx), snap.RetryQueue))
	e.marks.Replace(ctx, MergeBookmarks(e.marks.List(ctx), snap.Bookmarks))
}

// deviceID returns this install's stable identifier, minting and persisting
// one on first use. A storage fault falls back to an ephemeral id.
func (e *Engine) deviceID(ctx context.Context) string {
	raw, err := e.records.Get(ctx, store.KeyDeviceID)
	if err == nil && len(raw) > 0 {
		return string(raw)
	}
	if err != nil {
		e.logger.Warn("load device id", "err", err)
	}

	id := uuid.NewString()
	if err := e.records.Put(ctx, store.KeyDeviceID, []byte(id)); err != nil {
		e.logger.Warn(fmt.Sprintf("persist device id %s", id), "err", err)
	}
	return id
}
