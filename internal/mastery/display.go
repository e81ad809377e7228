package mastery

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Mastery color bands, matching the quiz dashboard palette.
var (
	bandRed    = "#ef4444" // levels 0-2
	bandYellow = "#f59e0b" // levels 3-5
	bandGreen  = "#059669" // levels 6-8
	bandGold   = "#a855f7" // levels 9-10
)

// MasteryHex returns the dashboard hex color for a mastery level.
func MasteryHex(level int) string {
	switch {
	case level >= 9:
		return bandGold
	case level >= 6:
		return bandGreen
	case level >= 3:
		return bandYellow
	default:
		return bandRed
	}
}

// MasteryColor returns the terminal color for a mastery level.
func MasteryColor(level int) color.Color {
	return lipgloss.Color(MasteryHex(level))
}

// MasteryColorClass returns the CSS class the web dashboard uses for a level.
func MasteryColorClass(level int) string {
	switch {
	case level >= 9:
		return "mastery-gold"
	case level >= 6:
		return "mastery-green"
	case level >= 3:
		return "mastery-yellow"
	default:
		return "mastery-red"
	}
}
