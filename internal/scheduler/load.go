package scheduler

import "github.com/alexanderramin/obra/internal/domain"

// Load is a per-day ledger of hours already committed for one responsible
// person. A nil *Load is an empty ledger.
type Load struct {
	hours map[domain.Date]float64
}

// NewLoad builds a ledger from existing activities. Activities without a
// date or with non-positive hours contribute nothing.
func NewLoad(existing []domain.ExistingActivity) *Load {
	l := &Load{hours: make(map[domain.Date]float64, len(existing))}
	for _, e := range existing {
		if e.Date.IsZero() || e.EstimatedHours <= 0 {
			continue
		}
		l.hours[e.Date] += e.EstimatedHours
	}
	return l
}

// Hours returns the hours committed on d.
func (l *Load) Hours(d domain.Date) float64 {
	if l == nil {
		return 0
	}
	return l.hours[d]
}

// Add commits h more hours on d.
func (l *Load) Add(d domain.Date, h float64) {
	if l.hours == nil {
		l.hours = make(map[domain.Date]float64)
	}
	l.hours[d] += h
}

// Clone returns an independent copy; cloning nil yields an empty ledger.
func (l *Load) Clone() *Load {
	c := &Load{hours: make(map[domain.Date]float64)}
	if l == nil {
		return c
	}
	for d, h := range l.hours {
		c.hours[d] = h
	}
	return c
}
