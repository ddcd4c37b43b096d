package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// ActivityTemplate is a candidate activity for planning: a title and an
// estimated duration that the distributor spreads across days.
type ActivityTemplate struct {
	ID             string
	Title          string
	EstimatedHours float64
	Type           string
	Priority       Priority
	Recurrence     Recurrence
	WeeklyDays     []time.Weekday
}

// Schedulable reports whether the template carries any hours to place.
func (t ActivityTemplate) Schedulable() bool {
	return t.EstimatedHours > 0
}

// ScheduledPart is one day's share of a template's hours.
type ScheduledPart struct {
	SourceActivityID     string
	OriginRecurrenceDate Date
	Date                 Date
	Hours                float64
	IsPartial            bool
	PartIndex            int
	PartCount            int

	Title    string
	Type     string
	Priority Priority
}

// DisplayTitle is the part's title annotated with its position when the
// source activity was split.
func (p ScheduledPart) DisplayTitle() string {
	if !p.IsPartial {
		return p.Title
	}
	return PartTitle(p.Title, p.PartIndex, p.PartCount)
}

// PartTitle annotates title with "(Part i/N)" when n > 1.
func PartTitle(title string, i, n int) string {
	if n <= 1 {
		return title
	}
	return fmt.Sprintf("%s (Part %d/%d)", title, i, n)
}

// RoundHours rounds h to two decimal places. Use it only when presenting or
// persisting hours, never while accumulating.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday accepts full English weekday names or their three-letter
// forms, case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", s)
	}
	return wd, nil
}

// ParseWeekdays parses a comma-separated list of weekdays, dropping
// duplicates and returning them in Sunday-first order.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		wd, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		seen[wd] = true
	}
	out := make([]time.Weekday, 0, len(seen))
	for wd := range seen {
		out = append(out, wd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
