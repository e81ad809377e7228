package mastery

import "testing"

func TestMasteryHexBands(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{0, "#ef4444"},
		{2, "#ef4444"},
		{3, "#f59e0b"},
		{5, "#f59e0b"},
		{6, "#059669"},
		{8, "#059669"},
		{9, "#a855f7"},
		{10, "#a855f7"},
	}
	for _, tt := range tests {
		if got := MasteryHex(tt.level); got != tt.want {
			t.Errorf("MasteryHex(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestMasteryColorClass(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "mastery-red"},
		{4, "mastery-yellow"},
		{7, "mastery-green"},
		{10, "mastery-gold"},
	}
	for _, tt := range tests {
		if got := MasteryColorClass(tt.level); got != tt.want {
			t.Errorf("MasteryColorClass(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
