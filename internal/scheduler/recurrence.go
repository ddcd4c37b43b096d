package scheduler

import (
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

// ExpandWeekly returns the dates in [start, start+7*weeks) whose weekday is
// in days, ascending.
func ExpandWeekly(start domain.Date, days []time.Weekday, weeks int) []domain.Date {
	if start.IsZero() || len(days) == 0 || weeks <= 0 {
		return nil
	}
	want := make(map[time.Weekday]bool, len(days))
	for _, wd := range days {
		want[wd] = true
	}

	var out []domain.Date
	for i := 0; i < 7*weeks; i++ {
		d := start.AddDays(i)
		if want[d.Weekday()] {
			out = append(out, d)
		}
	}
	return out
}

// NextWorkday returns d if it is a weekday, otherwise the following Monday.
func NextWorkday(d domain.Date) domain.Date {
	for d.IsWeekend() {
		d = d.AddDays(1)
	}
	return d
}
