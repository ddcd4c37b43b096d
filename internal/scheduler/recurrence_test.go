package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestExpandWeekly_MondayWednesdayFourWeeks(t *testing.T) {
	dates := ExpandWeekly(monday, []time.Weekday{time.Wednesday, time.Monday}, 4)

	want := []string{
		"2025-06-02", "2025-06-04",
		"2025-06-09", "2025-06-11",
		"2025-06-16", "2025-06-18",
		"2025-06-23", "2025-06-25",
	}
	got := make([]string, len(dates))
	for i, d := range dates {
		got[i] = d.String()
	}
	assert.Equal(t, want, got)
}

func TestExpandWeekly_StartMidWeek(t *testing.T) {
	// Starting on Wednesday, the first Monday is the following week.
	dates := ExpandWeekly(wednesday, []time.Weekday{time.Monday}, 1)
	assert.Equal(t, []domain.Date{nextMon}, dates)
}

func TestExpandWeekly_Degenerate(t *testing.T) {
	assert.Empty(t, ExpandWeekly(monday, nil, 4))
	assert.Empty(t, ExpandWeekly(monday, []time.Weekday{time.Monday}, 0))
	assert.Empty(t, ExpandWeekly(domain.Date{}, []time.Weekday{time.Monday}, 2))
}

func TestNextWorkday(t *testing.T) {
	assert.Equal(t, friday, NextWorkday(friday))
	assert.Equal(t, nextMon, NextWorkday(friday.AddDays(1)))
	assert.Equal(t, nextMon, NextWorkday(friday.AddDays(2)))
}
