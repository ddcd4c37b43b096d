package domain

import (
	"fmt"
	"time"
)

// Activity is a persisted unit of work on a construction project, assigned
// to one responsible person.
type Activity struct {
	ID             string
	ProjectID      string
	Title          string
	Responsible    string
	Type           string
	Priority       Priority
	Status         ActivityStatus
	StartDate      *Date
	DueDate        *Date
	EstimatedHours float64
	Notes          string
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScheduledDate is the day the activity's hours count against: the due
// date, or the start date when there is no due date.
func (a *Activity) ScheduledDate() (Date, bool) {
	if a.DueDate != nil && !a.DueDate.IsZero() {
		return *a.DueDate, true
	}
	if a.StartDate != nil && !a.StartDate.IsZero() {
		return *a.StartDate, true
	}
	return Date{}, false
}

func (a *Activity) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// Validate checks the fields every stored activity must carry.
func (a *Activity) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	if a.Responsible == "" {
		return fmt.Errorf("responsible is required")
	}
	if a.EstimatedHours < 0 {
		return fmt.Errorf("estimated hours must not be negative")
	}
	if a.Status != "" && !ValidActivityStatuses[a.Status] {
		return fmt.Errorf("unknown status %q", a.Status)
	}
	if a.Priority != "" && !ValidPriorities[a.Priority] {
		return fmt.Errorf("unknown priority %q", a.Priority)
	}
	if a.StartDate != nil && a.DueDate != nil && a.DueDate.Before(*a.StartDate) {
		return fmt.Errorf("due date %s is before start date %s", a.DueDate, a.StartDate)
	}
	return nil
}

// Start moves a pending activity to in-progress. Starting an activity that
// is already in progress is a no-op.
func (a *Activity) Start(now time.Time) error {
	switch a.Status {
	case ActivityInProgress:
		return nil
	case ActivityCompleted, ActivityCancelled:
		return fmt.Errorf("cannot start activity: status is %s", a.Status)
	}
	a.Status = ActivityInProgress
	a.UpdatedAt = now
	return nil
}

// Complete marks the activity as completed. CompletedAt is kept if the
// activity was already completed.
func (a *Activity) Complete(now time.Time) error {
	if a.Status == ActivityCancelled {
		return fmt.Errorf("cannot complete activity: it was cancelled")
	}
	if a.Status == ActivityCompleted && a.CompletedAt != nil {
		return nil
	}
	a.Status = ActivityCompleted
	a.CompletedAt = &now
	a.UpdatedAt = now
	return nil
}

func (a *Activity) Cancel(now time.Time) error {
	if a.Status == ActivityCompleted {
		return fmt.Errorf("cannot cancel activity: it is already completed")
	}
	a.Status = ActivityCancelled
	a.UpdatedAt = now
	return nil
}

// Reopen returns a terminal activity to pending.
func (a *Activity) Reopen(now time.Time) error {
	if !a.Status.IsTerminal() {
		return fmt.Errorf("cannot reopen activity: status is %s", a.Status)
	}
	a.Status = ActivityPending
	a.CompletedAt = nil
	a.UpdatedAt = now
	return nil
}

// ExistingActivity is the slice of an activity the distributor needs:
// which day it occupies and how many hours it commits there.
type ExistingActivity struct {
	Date           Date
	EstimatedHours float64
}

// ExistingLoad projects non-terminal activities onto their scheduled dates.
// Activities without any date occupy no day and are dropped.
func ExistingLoad(activities []*Activity) []ExistingActivity {
	out := make([]ExistingActivity, 0, len(activities))
	for _, a := range activities {
		if a.IsTerminal() {
			continue
		}
		d, ok := a.ScheduledDate()
		if !ok {
			continue
		}
		out = append(out, ExistingActivity{Date: d, EstimatedHours: a.EstimatedHours})
	}
	return out
}
