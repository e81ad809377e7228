package mastery

import "testing"

func TestLevelThresholds(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{5, 1},
		{6, 2},
		{12, 3},
		{19, 3},
		{20, 4},
		{30, 5},
		{40, 6},
		{50, 7},
		{60, 8},
		{70, 9},
		{79, 9},
		{80, 10},
		{500, 10},
	}
	for _, tt := range tests {
		if got := Level(tt.points); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

func TestLevelMonotonicAndBounded(t *testing.T) {
	prev := 0
	for points := 0; points <= 200; points++ {
		level := Level(points)
		if level < prev {
			t.Fatalf("Level(%d) = %d dropped below Level(%d) = %d", points, level, points-1, prev)
		}
		if level < 0 || level > MaxLevel {
			t.Fatalf("Level(%d) = %d out of range", points, level)
		}
		prev = level
	}
}

func TestPointsToNext(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 2},
		{1, 1},
		{2, 4},
		{19, 1},
		{79, 1},
		{80, 0},
		{120, 0},
	}
	for _, tt := range tests {
		if got := PointsToNext(tt.points); got != tt.want {
			t.Errorf("PointsToNext(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

func TestLevelName(t *testing.T) {
	if got := LevelName(0); got != "Starting" {
		t.Errorf("LevelName(0) = %q", got)
	}
	if got := LevelName(10); got != "Complete Mastery" {
		t.Errorf("LevelName(10) = %q", got)
	}
	if got := LevelName(11); got != "Unknown" {
		t.Errorf("LevelName(11) = %q", got)
	}
	if got := LevelName(-1); got != "Unknown" {
		t.Errorf("LevelName(-1) = %q", got)
	}
}
