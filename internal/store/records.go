package store

import "context"

// Well-known record keys. Each key holds one independently serialized JSON
// document.
const (
	KeyMastery    = "mastery"
	KeyStreak     = "streak"
	KeyRetryQueue = "retry_queue"
	KeyBookmarks  = "bookmarks"
	KeyDeviceID   = "device_id"
)

// Records is the record access surface the domain services depend on.
// *Store implements it; tests substitute in-memory doubles.
type Records interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

var _ Records = (*Store)(nil)
