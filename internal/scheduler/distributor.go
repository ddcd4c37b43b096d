package scheduler

import (
	"math"

	"github.com/alexanderramin/obra/internal/domain"
)

const (
	// DailyCapHours is the most hours one responsible person may carry on a
	// single day.
	DailyCapHours = 8.0

	// MaxDayAdvances bounds how far past its start date a run may look for
	// capacity (five years).
	MaxDayAdvances = 1825

	// epsilon absorbs floating residue so it never becomes a part.
	epsilon = 1e-9
)

// Options tunes a distribution run.
type Options struct {
	DailyCapHours  float64
	MaxDayAdvances int
}

// DefaultOptions returns the 8-hour cap and the five-year horizon.
func DefaultOptions() Options {
	return Options{DailyCapHours: DailyCapHours, MaxDayAdvances: MaxDayAdvances}
}

// Remainder is the part of an activity the run could not place before
// reaching the day-advance ceiling.
type Remainder struct {
	SourceActivityID     string
	OriginRecurrenceDate domain.Date
	Hours                float64
}

// Result is the outcome of a distribution run.
type Result struct {
	Parts []domain.ScheduledPart
	// Incomplete is set when the day-advance ceiling was hit with hours left
	// over. Parts then holds what was placed and Unscheduled the rest.
	Incomplete  bool
	Unscheduled []Remainder
	// Skipped lists template IDs with no positive duration.
	Skipped []string
}

// pending tracks the unplaced hours of one template within one run.
type pending struct {
	tmpl      domain.ActivityTemplate
	remaining float64
	parts     []int // indexes into the run's part slice
}

// DistributeSingleStart spreads templates over weekdays from start, in input
// order, keeping every day at or under the daily cap once the hours in load
// are counted. load is not modified.
func DistributeSingleStart(load *Load, start domain.Date, templates []domain.ActivityTemplate) Result {
	return DistributeSingleStartWithOptions(load, start, templates, DefaultOptions())
}

func DistributeSingleStartWithOptions(load *Load, start domain.Date, templates []domain.ActivityTemplate, opts Options) Result {
	var res Result
	if start.IsZero() || len(templates) == 0 {
		return res
	}
	opts = opts.normalized()
	res.Skipped = skippedIDs(templates)

	ledger := load.Clone()
	run(ledger, start, templates, opts, &res)
	return res
}

// DistributeWeeklyRecurrence re-schedules the full template set from each
// recurrence date in the order given. The ledger is shared across instances,
// so a later instance sees earlier instances' parts as committed load.
// Duplicate dates are scheduled once.
func DistributeWeeklyRecurrence(load *Load, dates []domain.Date, templates []domain.ActivityTemplate) Result {
	return DistributeWeeklyRecurrenceWithOptions(load, dates, templates, DefaultOptions())
}

func DistributeWeeklyRecurrenceWithOptions(load *Load, dates []domain.Date, templates []domain.ActivityTemplate, opts Options) Result {
	var res Result
	if len(dates) == 0 || len(templates) == 0 {
		return res
	}
	opts = opts.normalized()
	res.Skipped = skippedIDs(templates)

	ledger := load.Clone()
	seen := make(map[domain.Date]bool, len(dates))
	for _, origin := range dates {
		if origin.IsZero() || seen[origin] {
			continue
		}
		seen[origin] = true
		run(ledger, origin, templates, opts, &res)
	}
	return res
}

// run places one recurrence instance starting at origin and appends its
// parts to res.
func run(ledger *Load, origin domain.Date, templates []domain.ActivityTemplate, opts Options, res *Result) {
	active := make([]*pending, 0, len(templates))
	for _, t := range templates {
		if !t.Schedulable() {
			continue
		}
		active = append(active, &pending{tmpl: t, remaining: t.EstimatedHours})
	}
	if len(active) == 0 {
		return
	}
	all := append([]*pending(nil), active...)

	var parts []domain.ScheduledPart
	day := origin
	for advances := 0; ; advances++ {
		if !day.IsWeekend() {
			active = fillDay(ledger, day, origin, active, opts.DailyCapHours, &parts)
		}
		if len(active) == 0 {
			break
		}
		if advances >= opts.MaxDayAdvances {
			res.Incomplete = true
			for _, p := range active {
				res.Unscheduled = append(res.Unscheduled, Remainder{
					SourceActivityID:     p.tmpl.ID,
					OriginRecurrenceDate: origin,
					Hours:                p.remaining,
				})
			}
			break
		}
		day = day.AddDays(1)
	}

	numberParts(parts, all)
	res.Parts = append(res.Parts, parts...)
}

// fillDay allocates as much of each active template as fits on day, in
// order, and returns the templates that still have hours left.
func fillDay(ledger *Load, day, origin domain.Date, active []*pending, capHours float64, parts *[]domain.ScheduledPart) []*pending {
	available := math.Max(0, capHours-ledger.Hours(day))
	if available <= epsilon {
		return active
	}

	still := active[:0]
	for _, p := range active {
		if available > epsilon {
			alloc := math.Min(p.remaining, available)
			p.remaining -= alloc
			available -= alloc
			ledger.Add(day, alloc)

			p.parts = append(p.parts, len(*parts))
			*parts = append(*parts, domain.ScheduledPart{
				SourceActivityID:     p.tmpl.ID,
				OriginRecurrenceDate: origin,
				Date:                 day,
				Hours:                alloc,
				Title:                p.tmpl.Title,
				Type:                 p.tmpl.Type,
				Priority:             p.tmpl.Priority,
			})
		}
		if p.remaining > epsilon {
			still = append(still, p)
		}
	}
	return still
}

// numberParts sets the 1-based position of each part within its template's
// run. A template is partial when it took more than one day or could not
// be fully placed.
func numberParts(parts []domain.ScheduledPart, all []*pending) {
	for _, p := range all {
		n := len(p.parts)
		partial := n > 1 || p.remaining > epsilon
		for i, idx := range p.parts {
			parts[idx].PartIndex = i + 1
			parts[idx].PartCount = n
			parts[idx].IsPartial = partial
		}
	}
}

func skippedIDs(templates []domain.ActivityTemplate) []string {
	var out []string
	for _, t := range templates {
		if !t.Schedulable() {
			out = append(out, t.ID)
		}
	}
	return out
}

func (o Options) normalized() Options {
	if o.DailyCapHours <= 0 {
		o.DailyCapHours = DailyCapHours
	}
	if o.MaxDayAdvances <= 0 {
		o.MaxDayAdvances = MaxDayAdvances
	}
	return o
}

// TotalHours sums the hours of every part.
func (r Result) TotalHours() float64 {
	var total float64
	for _, p := range r.Parts {
		total += p.Hours
	}
	return total
}

// DailyTotals sums part hours per day.
func (r Result) DailyTotals() map[domain.Date]float64 {
	out := make(map[domain.Date]float64)
	for _, p := range r.Parts {
		out[p.Date] += p.Hours
	}
	return out
}
