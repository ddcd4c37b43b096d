package scheduler

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type partKey struct {
	source string
	origin domain.Date
}

func randomScenario(rng *rand.Rand) (*Load, domain.Date, []domain.ActivityTemplate) {
	start := domain.MustParseDate("2025-01-01").AddDays(rng.Intn(365))

	var existing []domain.ExistingActivity
	for i := 0; i < rng.Intn(15); i++ {
		existing = append(existing, domain.ExistingActivity{
			Date:           start.AddDays(rng.Intn(21)),
			EstimatedHours: float64(rng.Intn(40)) / 4, // 0–9.75h in quarter hours
		})
	}

	templates := make([]domain.ActivityTemplate, rng.Intn(6)+1)
	for i := range templates {
		templates[i] = domain.ActivityTemplate{
			ID:             fmt.Sprintf("t-%d", i),
			Title:          fmt.Sprintf("Task %d", i),
			EstimatedHours: rng.Float64()*20 + 0.01,
		}
	}
	return NewLoad(existing), start, templates
}

// assertInvariants checks the distributor's guarantees on one result.
func assertInvariants(t *testing.T, trial int, load *Load, templates []domain.ActivityTemplate, res Result, origins int) {
	t.Helper()

	// Invariant 1: every part has positive hours and never lands on a weekend.
	for _, p := range res.Parts {
		assert.Greater(t, p.Hours, 0.0, "trial %d: part hours must be positive", trial)
		assert.LessOrEqual(t, p.Hours, DailyCapHours+1e-6, "trial %d: part exceeds a full day", trial)
		assert.False(t, p.Date.IsWeekend(), "trial %d: part on weekend %s", trial, p.Date)
		assert.False(t, p.Date.Before(p.OriginRecurrenceDate), "trial %d: part before its origin", trial)
	}

	// Invariant 2: existing + new never exceeds the cap on days the run touched.
	for d, added := range res.DailyTotals() {
		total := load.Hours(d) + added
		assert.LessOrEqual(t, total, DailyCapHours+1e-6, "trial %d: day %s carries %.4fh", trial, d, total)
	}

	// Invariant 3: hours are conserved per (source, origin) and dates strictly increase.
	sums := make(map[partKey]float64)
	last := make(map[partKey]domain.Date)
	for _, p := range res.Parts {
		k := partKey{p.SourceActivityID, p.OriginRecurrenceDate}
		if prev, ok := last[k]; ok {
			assert.True(t, p.Date.After(prev), "trial %d: %v dates not strictly increasing", trial, k)
		}
		last[k] = p.Date
		sums[k] += p.Hours
	}
	want := make(map[string]float64)
	for _, tm := range templates {
		want[tm.ID] = tm.EstimatedHours
	}
	assert.Len(t, sums, len(templates)*origins, "trial %d: every template appears once per origin", trial)
	for k, got := range sums {
		assert.InDelta(t, want[k.source], got, 1e-6, "trial %d: hours of %v not conserved", trial, k)
	}
}

func TestDistributeSingleStart_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		load, start, templates := randomScenario(rng)

		res := DistributeSingleStart(load, start, templates)

		require.False(t, res.Incomplete, "trial %d: horizon should never run out here", trial)
		assertInvariants(t, trial, load, templates, res, 1)
		for _, p := range res.Parts {
			assert.Equal(t, start, p.OriginRecurrenceDate)
		}
	}
}

func TestDistributeWeeklyRecurrence_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	allDays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}

	for trial := 0; trial < 100; trial++ {
		load, start, templates := randomScenario(rng)
		days := allDays[:rng.Intn(len(allDays))+1]
		dates := ExpandWeekly(start, days, rng.Intn(4)+1)

		res := DistributeWeeklyRecurrence(load, dates, templates)

		require.False(t, res.Incomplete)
		assertInvariants(t, trial, load, templates, res, len(dates))
	}
}

func TestDistributeSingleStart_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 50; trial++ {
		load, start, templates := randomScenario(rng)

		first := DistributeSingleStart(load, start, templates)
		second := DistributeSingleStart(load, start, templates)

		assert.Equal(t, first, second, "trial %d: identical inputs must give identical output", trial)
	}
}

func TestDistributeSingleStart_ManySmallSplitsConserveHours(t *testing.T) {
	// Thirds of an hour do not add up exactly in binary floating point.
	templates := make([]domain.ActivityTemplate, 30)
	for i := range templates {
		templates[i] = domain.ActivityTemplate{ID: fmt.Sprintf("t-%d", i), Title: "x", EstimatedHours: 10.0 / 3}
	}

	res := DistributeSingleStart(nil, monday, templates)

	assertInvariants(t, 0, nil, templates, res, 1)
	assert.InDelta(t, 100.0, res.TotalHours(), 1e-6)
}
