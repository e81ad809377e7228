package mastery

// Thresholds maps level index to the points required to reach it.
var Thresholds = []int{0, 2, 6, 12, 20, 30, 40, 50, 60, 70, 80}

// Names maps level index to its display name.
var Names = []string{
	"Starting",         // 0
	"Beginner",         // 1
	"Familiar",         // 2
	"Developing",       // 3
	"Competent",        // 4
	"Proficient",       // 5
	"Advanced",         // 6
	"Expert",           // 7
	"Master",           // 8
	"Elite",            // 9
	"Complete Mastery", // 10
}

// MaxLevel is the highest attainable level index.
const MaxLevel = 10

// Level returns the largest level whose threshold is at or below points.
// Total over all non-negative inputs and monotonic in points.
func Level(points int) int {
	for i := len(Thresholds) - 1; i >= 0; i-- {
		if points >= Thresholds[i] {
			return i
		}
	}
	return 0
}

// LevelName returns the display name for a level, guarding out-of-range input.
func LevelName(level int) string {
	if level < 0 || level >= len(Names) {
		return "Unknown"
	}
	return Names[level]
}

// PointsToNext returns how many points remain until the next level,
// or 0 at the maximum level.
func PointsToNext(points int) int {
	level := Level(points)
	if level >= MaxLevel {
		return 0
	}
	return Thresholds[level+1] - points
}
