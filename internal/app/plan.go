package app

import (
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

// DayLoad is one day of a preview: hours already committed and hours the
// plan would add.
type DayLoad struct {
	Date          domain.Date
	ExistingHours float64
	NewHours      float64
}

func (d DayLoad) Total() float64 {
	return d.ExistingHours + d.NewHours
}

// UnscheduledHours is what a recurrence instance of a template could not
// place before the search horizon ran out.
type UnscheduledHours struct {
	SourceActivityID     string
	OriginRecurrenceDate domain.Date
	Hours                float64
}

type PlanPreview struct {
	GeneratedAt     time.Time
	Mode            domain.PlanMode
	ProjectID       string
	Responsible     string
	StartDate       domain.Date
	RecurrenceDates []domain.Date
	Parts           []domain.ScheduledPart
	Days            []DayLoad
	TotalHours      float64
	Incomplete      bool
	Unscheduled     []UnscheduledHours
	// LoadUnavailable is set when existing activities could not be read and
	// the distribution assumed an empty calendar.
	LoadUnavailable bool
	Skipped         []string
	Warnings        []string
}

// Empty reports whether the preview schedules nothing.
func (p *PlanPreview) Empty() bool {
	return len(p.Parts) == 0
}

type PartFailure struct {
	Part  domain.ScheduledPart
	Error string
}

// CommitResult reports each part of a committed plan. Parts are persisted
// independently, so Created and Failed can both be non-empty.
type CommitResult struct {
	Preview *PlanPreview
	Created []*domain.Activity
	Failed  []PartFailure
	// Warnings repeats the preview warnings of the distribution that was
	// actually committed.
	Warnings []string
}

func (r *CommitResult) Partial() bool {
	return len(r.Created) > 0 && len(r.Failed) > 0
}

type PlanErrorCode string

const (
	PlanErrInvalid  PlanErrorCode = "INVALID_PLAN"
	PlanErrNotFound PlanErrorCode = "NOT_FOUND"
	PlanErrInternal PlanErrorCode = "INTERNAL_ERROR"
)

type PlanError struct {
	Code    PlanErrorCode
	Message string
}

func (e *PlanError) Error() string {
	return string(e.Code) + ": " + e.Message
}
