package render

import (
	"fmt"
	"math"
	"strings"
)

// barWidth leaves room in the data column for the trailing percentage.
const barWidth = 22

// bar renders a usage bar like "██████░░░░ 57.3%". The percent is
// clamped and the filled cell count rounded to nearest.
func bar(percent float64, cs charset) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(math.Round(percent / 100.0 * barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	return strings.Repeat(cs.barFill, filled) +
		strings.Repeat(cs.barEmpty, barWidth-filled) +
		fmt.Sprintf(" %.1f%%", percent)
}
