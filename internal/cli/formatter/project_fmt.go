package formatter

import (
	"strings"

	"github.com/alexanderramin/obra/internal/domain"
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project, today domain.Date) string {
	headers := []string{"ID", "NAME", "ADDRESS", "STATUS", "TARGET"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		address := p.Address
		if strings.TrimSpace(address) == "" {
			address = Dim("--")
		}
		target := Dim("--")
		if p.TargetDate != nil {
			target = p.TargetDate.String() + " " + Dim("("+RelativeDay(*p.TargetDate, today)+")")
		}
		rows = append(rows, []string{
			p.DisplayID(),
			Bold(p.Name),
			address,
			ProjectStatusPill(p.Status),
			target,
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}
