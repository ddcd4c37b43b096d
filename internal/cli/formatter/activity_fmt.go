package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/obra/internal/domain"
)

// FormatActivityList renders activities as a table. projectCodes maps
// project IDs to short codes; unknown IDs are truncated.
func FormatActivityList(activities []*domain.Activity, projectCodes map[string]string) string {
	headers := []string{"ID", "PROJECT", "DATE", "HOURS", "TITLE", "RESPONSIBLE", "PRIORITY", "STATUS"}
	rows := make([][]string, 0, len(activities))

	var total float64
	for _, a := range activities {
		project, ok := projectCodes[a.ProjectID]
		if !ok {
			project = TruncID(a.ProjectID)
		}
		date := Dim("--")
		if d, ok := a.ScheduledDate(); ok {
			date = d.String()
		}
		if !a.IsTerminal() {
			total += a.EstimatedHours
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			project,
			date,
			FormatHours(a.EstimatedHours),
			a.Title,
			a.Responsible,
			PriorityBadge(a.Priority),
			ActivityStatusPill(a.Status),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows, 3))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("%d activities, %s open", len(activities), FormatHours(total))))
	return RenderBox("Activities", b.String())
}

// FormatActivity renders one activity as a short detail card.
func FormatActivity(a *domain.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", StyleBold.Render(a.Title), ActivityStatusPill(a.Status))
	field := func(label, value string) {
		fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render(fmt.Sprintf("%-11s", label)), value)
	}
	field("ID", a.ID)
	field("RESPONSIBLE", a.Responsible)
	field("TYPE", a.Type)
	field("PRIORITY", PriorityBadge(a.Priority))
	field("START", OptionalDate(a.StartDate))
	field("DUE", OptionalDate(a.DueDate))
	field("HOURS", FormatHours(a.EstimatedHours))
	if a.Notes != "" {
		field("NOTES", a.Notes)
	}
	return strings.TrimRight(b.String(), "\n")
}
