package formatter

import (
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderLoadBar draws a day's hours against the cap, e.g. [██████░░] 6h/8h.
// Existing hours are dimmed and planned hours are colored by how full the
// day ends up.
func RenderLoadBar(existing, planned, capHours float64, width int) string {
	if width < 2 {
		width = 2
	}
	if capHours <= 0 {
		capHours = 8
	}

	cells := func(h float64) int {
		n := int(h / capHours * float64(width))
		if n < 0 {
			return 0
		}
		return n
	}
	old := min(cells(existing), width)
	added := min(cells(existing+planned)-old, width-old)
	if planned > 0 && added == 0 && old < width {
		added = 1
	}
	empty := width - old - added

	total := existing + planned
	bar := StyleDim.Render(strings.Repeat(filledBlock, old)) +
		LoadStyle(total, capHours).Render(strings.Repeat(filledBlock, added)) +
		strings.Repeat(emptyBlock, empty)
	return "[" + bar + "] " + FormatHours(total) + "/" + FormatHours(capHours)
}
