package mastery

// SetPoints awards points for one completed question set by accuracy bucket:
// >=90% earns 3, >=80% earns 2, >=70% earns 1, anything lower earns 0.
// An empty set earns 0.
func SetPoints(correctCount, totalCount int) int {
	if totalCount == 0 {
		return 0
	}
	pct := float64(correctCount) / float64(totalCount) * 100
	switch {
	case pct >= 90:
		return 3
	case pct >= 80:
		return 2
	case pct >= 70:
		return 1
	default:
		return 0
	}
}
