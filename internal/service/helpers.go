package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/scheduler"
)

func dayLoads(load *scheduler.Load, res scheduler.Result) []contract.DayLoad {
	totals := res.DailyTotals()
	days := make([]contract.DayLoad, 0, len(totals))
	for d, added := range totals {
		days = append(days, contract.DayLoad{
			Date:          d,
			ExistingHours: domain.RoundHours(load.Hours(d)),
			NewHours:      domain.RoundHours(added),
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

// templateNotes maps template IDs to the note stored on created activities.
func templateNotes(plan domain.Plan) map[string]string {
	out := make(map[string]string)
	for _, t := range plan.Activities() {
		out[t.ID] = fmt.Sprintf("template %s (%s)", t.ID, t.Title)
	}
	return out
}

func splitErrors(err error) []string {
	var out []string
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func previewFields(p *contract.PlanPreview) map[string]any {
	if p == nil {
		return nil
	}
	return map[string]any{
		"mode":        string(p.Mode),
		"responsible": p.Responsible,
		"parts":       len(p.Parts),
		"total_hours": p.TotalHours,
		"incomplete":  p.Incomplete,
	}
}

func nonNilParts(parts []domain.ScheduledPart) []domain.ScheduledPart {
	if parts == nil {
		return []domain.ScheduledPart{}
	}
	return parts
}
