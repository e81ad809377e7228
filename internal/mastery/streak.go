package mastery

import "time"

// DateLayout is the calendar-date form used everywhere progress is stamped.
const DateLayout = "2006-01-02"

// DateString formats t as a UTC calendar date.
func DateString(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Tick applies the daily streak transition for the given moment and returns
// the resulting streak length. Three transitions: already practiced today
// leaves the streak unchanged, practiced yesterday extends it, anything else
// (first use or a gap) resets it to 1. Idempotent within one calendar day.
func (s *StreakState) Tick(now time.Time) int {
	today := DateString(now)
	if s.LastPracticedDate == today {
		return s.CurrentStreak
	}

	yesterday := DateString(now.AddDate(0, 0, -1))
	if s.LastPracticedDate == yesterday {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}
	s.LastPracticedDate = today
	return s.CurrentStreak
}
