package mastery

import "testing"

func TestSetPoints(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    int
	}{
		{"90 percent", 9, 10, 3},
		{"80 percent", 8, 10, 2},
		{"70 percent", 7, 10, 1},
		{"60 percent", 6, 10, 0},
		{"perfect", 20, 20, 3},
		{"17 of 20", 17, 20, 2},
		{"14 of 20", 14, 20, 1},
		{"zero correct", 0, 10, 0},
		{"empty set", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SetPoints(tt.correct, tt.total); got != tt.want {
				t.Errorf("SetPoints(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
			}
		})
	}
}
