package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/obra/internal/contract"
)

const dailyCap = 8.0

// FormatPreview renders the parts of a plan and the resulting per-day load.
func FormatPreview(p *contract.PlanPreview) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s  %s\n", Bold(p.Responsible), Dim(string(p.Mode)), Dim("from "+p.StartDate.String()))
	if len(p.RecurrenceDates) > 0 {
		dates := make([]string, len(p.RecurrenceDates))
		for i, d := range p.RecurrenceDates {
			dates[i] = d.String()
		}
		fmt.Fprintf(&b, "%s %s\n", Dim("recurs on"), strings.Join(dates, ", "))
	}
	b.WriteString("\n")

	if p.Empty() {
		b.WriteString(Dim("Nothing to schedule.") + "\n")
	} else {
		rows := make([][]string, 0, len(p.Parts))
		for _, part := range p.Parts {
			rows = append(rows, []string{
				DayLabel(part.Date),
				FormatHours(part.Hours),
				part.DisplayTitle(),
				PriorityBadge(part.Priority),
				Dim(part.OriginRecurrenceDate.String()),
			})
		}
		b.WriteString(RenderTable([]string{"DATE", "HOURS", "ACTIVITY", "PRIORITY", "ORIGIN"}, rows, 1))
		b.WriteString("\n")

		b.WriteString(Header("Daily load") + "\n")
		for _, d := range p.Days {
			fmt.Fprintf(&b, "%s  %s\n", DayLabel(d.Date), RenderLoadBar(d.ExistingHours, d.NewHours, dailyCap, 16))
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s over %d parts\n", Dim("total"), Bold(FormatHours(p.TotalHours)), len(p.Parts))
	}

	for _, w := range p.Warnings {
		b.WriteString(StyleYellow.Render("! "+w) + "\n")
	}
	return RenderBox("Plan preview", strings.TrimRight(b.String(), "\n"))
}

// FormatCommitResult summarises what a commit created and what failed.
func FormatCommitResult(r *contract.CommitResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d activities (%s)\n",
		StyleGreen.Render("✔ created"), len(r.Created), FormatHours(createdHours(r)))
	if len(r.Failed) > 0 {
		fmt.Fprintf(&b, "%s %d parts\n", StyleRed.Render("✖ failed"), len(r.Failed))
		for _, f := range r.Failed {
			fmt.Fprintf(&b, "  %s %s %s: %s\n",
				f.Part.Date, FormatHours(f.Part.Hours), f.Part.DisplayTitle(), StyleRed.Render(f.Error))
		}
	}
	if r.Partial() {
		b.WriteString(StyleYellow.Render("! the plan was only partly saved; created activities were kept") + "\n")
	}
	for _, w := range r.Warnings {
		b.WriteString(StyleYellow.Render("! "+w) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func createdHours(r *contract.CommitResult) float64 {
	var h float64
	for _, a := range r.Created {
		h += a.EstimatedHours
	}
	return h
}
