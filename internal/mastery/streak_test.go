package mastery

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStreakFirstPractice(t *testing.T) {
	st := &StreakState{}
	if got := st.Tick(day("2026-03-01")); got != 1 {
		t.Errorf("first tick = %d, want 1", got)
	}
	if st.LastPracticedDate != "2026-03-01" {
		t.Errorf("LastPracticedDate = %q", st.LastPracticedDate)
	}
}

func TestStreakConsecutiveDaysExtend(t *testing.T) {
	st := &StreakState{}
	st.Tick(day("2026-03-01"))
	st.Tick(day("2026-03-02"))
	if got := st.Tick(day("2026-03-03")); got != 3 {
		t.Errorf("streak after three consecutive days = %d, want 3", got)
	}
}

func TestStreakSameDayNoChange(t *testing.T) {
	st := &StreakState{CurrentStreak: 4, LastPracticedDate: "2026-03-03"}
	if got := st.Tick(day("2026-03-03")); got != 4 {
		t.Errorf("same-day tick = %d, want 4", got)
	}
	// Idempotent within the day.
	if got := st.Tick(day("2026-03-03")); got != 4 {
		t.Errorf("repeated same-day tick = %d, want 4", got)
	}
}

func TestStreakGapResets(t *testing.T) {
	st := &StreakState{CurrentStreak: 9, LastPracticedDate: "2026-03-01"}
	if got := st.Tick(day("2026-03-03")); got != 1 {
		t.Errorf("tick after one-day gap = %d, want reset to 1", got)
	}
}
