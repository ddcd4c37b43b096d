package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/obra/internal/catalog"
	"github.com/alexanderramin/obra/internal/domain"
)

// FormatCatalog lists disciplines with their template counts and hours.
func FormatCatalog(c *catalog.Catalog) string {
	headers := []string{"DISCIPLINE", "TEMPLATES", "HOURS", "DESCRIPTION"}
	rows := make([][]string, 0, len(c.Disciplines))
	for _, d := range c.Disciplines {
		var hours float64
		for _, t := range d.Templates {
			hours += t.EstimatedHours
		}
		rows = append(rows, []string{
			Bold(d.Name),
			fmt.Sprintf("%d", len(d.Templates)),
			FormatHours(hours),
			Dim(d.Description),
		})
	}
	return RenderBox("Templates", RenderTable(headers, rows, 1, 2))
}

// FormatDiscipline lists a discipline's templates in distribution order.
func FormatDiscipline(d *catalog.Discipline) string {
	headers := []string{"#", "ID", "TITLE", "HOURS", "TYPE", "PRIORITY", "RECURRENCE"}
	rows := make([][]string, 0, len(d.Templates))
	for i, t := range d.Templates {
		recurrence := Dim("--")
		if strings.EqualFold(t.Recurrence, string(domain.RecurrenceWeekly)) {
			recurrence = "weekly " + strings.Join(t.WeeklyDays, ",")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Dim(t.ID),
			t.Title,
			FormatHours(t.EstimatedHours),
			t.Type,
			PriorityBadge(domain.Priority(t.Priority)),
			recurrence,
		})
	}
	return RenderBox(d.Name, RenderTable(headers, rows, 0, 3))
}
