package store

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestGetAbsentKey(t *testing.T) {
	s := openTestStore(t)
	data, err := s.Get(context.Background(), "nothing-here")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Errorf("Get absent key = %q, want nil", data)
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, KeyMastery, []byte(`{"_version":2}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, KeyMastery)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"_version":2}` {
		t.Errorf("Get = %q, want %q", got, `{"_version":2}`)
	}
}

func TestPutReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, KeyStreak, []byte(`{"currentStreak":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, KeyStreak, []byte(`{"currentStreak":2}`)); err != nil {
		t.Fatalf("Put again: %v", err)
	}
	got, err := s.Get(ctx, KeyStreak)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"currentStreak":2}` {
		t.Errorf("Get = %q, want replaced value", got)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, KeyBookmarks, []byte(`[]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, KeyBookmarks); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := s.Get(ctx, KeyBookmarks)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get after delete = %q, want nil", got)
	}

	// Deleting an absent key is fine.
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}
