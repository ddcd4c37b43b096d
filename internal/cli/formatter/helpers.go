package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDay describes d relative to today: "Today", "In 3d", "2w ago".
func RelativeDay(d, today domain.Date) string {
	days := today.DaysUntil(d)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DayLabel renders a date as "Mon 03 Mar 2025".
func DayLabel(d domain.Date) string {
	if d.IsZero() {
		return "--"
	}
	return d.Time().Format("Mon 02 Jan 2006")
}

// OptionalDate renders a date pointer, dimming the missing case.
func OptionalDate(d *domain.Date) string {
	if d == nil || d.IsZero() {
		return Dim("--")
	}
	return d.String()
}

// FormatHours renders hours with at most two decimals: "8h", "1.5h", "2.33h".
func FormatHours(h float64) string {
	return strconv.FormatFloat(domain.RoundHours(h), 'f', -1, 64) + "h"
}

func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectPaused:
		return StyleYellow.Render("○ Paused")
	case domain.ProjectDone:
		return StyleDim.Render("✔ Done")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

func ActivityStatusPill(status domain.ActivityStatus) string {
	switch status {
	case domain.ActivityPending:
		return StyleBlue.Render("○ Pending")
	case domain.ActivityInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.ActivityCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ActivityCancelled:
		return StyleDim.Render("⊘ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
