package domain

import (
	"errors"
	"fmt"
	"time"
)

// DefaultRecurrenceWeeks is the window a weekly pattern is expanded over
// when the plan does not say otherwise.
const DefaultRecurrenceWeeks = 4

type PlanMode string

const (
	PlanSingle PlanMode = "single"
	PlanBatch  PlanMode = "batch"
)

// PlanHeader carries the fields shared by every plan mode.
type PlanHeader struct {
	ProjectID   string
	Responsible string
	StartDate   Date
}

func (h PlanHeader) Header() PlanHeader { return h }

// WeeklyRule repeats a plan on the given weekdays for Weeks weeks starting
// at the plan's start date.
type WeeklyRule struct {
	Days  []time.Weekday
	Weeks int
}

// EffectiveWeeks returns Weeks, or DefaultRecurrenceWeeks when unset.
func (r WeeklyRule) EffectiveWeeks() int {
	if r.Weeks <= 0 {
		return DefaultRecurrenceWeeks
	}
	return r.Weeks
}

// Plan is a request to lay out activities for one responsible person.
// It is implemented only by SingleActivityPlan and BatchTemplatePlan.
type Plan interface {
	Header() PlanHeader
	Mode() PlanMode
	// Activities returns the templates to distribute, in priority order.
	Activities() []ActivityTemplate
	// Weekly returns the recurrence rule, or nil for a one-off plan.
	Weekly() *WeeklyRule
	Validate() error
	isPlan()
}

// SingleActivityPlan schedules one activity, optionally repeating weekly
// when the activity's own recurrence says so.
type SingleActivityPlan struct {
	PlanHeader
	Activity    ActivityTemplate
	WindowWeeks int
}

func (SingleActivityPlan) Mode() PlanMode { return PlanSingle }
func (SingleActivityPlan) isPlan()        {}

func (p SingleActivityPlan) Activities() []ActivityTemplate {
	return []ActivityTemplate{p.Activity}
}

func (p SingleActivityPlan) Weekly() *WeeklyRule {
	if p.Activity.Recurrence != RecurrenceWeekly {
		return nil
	}
	return &WeeklyRule{Days: p.Activity.WeeklyDays, Weeks: p.WindowWeeks}
}

func (p SingleActivityPlan) Validate() error {
	var errs []error
	errs = append(errs, p.PlanHeader.validate()...)
	errs = append(errs, validateTemplate(0, p.Activity)...)
	if p.Activity.EstimatedHours <= 0 {
		errs = append(errs, fmt.Errorf("activity 1 (%s): estimated hours must be positive", p.Activity.Title))
	}
	if rule := p.Weekly(); rule != nil && len(rule.Days) == 0 {
		errs = append(errs, fmt.Errorf("weekly recurrence needs at least one weekday"))
	}
	return errors.Join(errs...)
}

// BatchTemplatePlan schedules a set of templates together. All templates
// share the plan's recurrence. Templates without hours are skipped by the
// distributor rather than rejected, so the rest of the batch still lands.
type BatchTemplatePlan struct {
	PlanHeader
	Templates  []ActivityTemplate
	Recurrence *WeeklyRule
}

func (BatchTemplatePlan) Mode() PlanMode { return PlanBatch }
func (BatchTemplatePlan) isPlan()        {}

func (p BatchTemplatePlan) Activities() []ActivityTemplate {
	return p.Templates
}

func (p BatchTemplatePlan) Weekly() *WeeklyRule {
	return p.Recurrence
}

func (p BatchTemplatePlan) Validate() error {
	var errs []error
	errs = append(errs, p.PlanHeader.validate()...)
	if len(p.Templates) == 0 {
		errs = append(errs, fmt.Errorf("at least one activity template is required"))
	}
	seen := make(map[string]int, len(p.Templates))
	for i, t := range p.Templates {
		errs = append(errs, validateTemplate(i, t)...)
		if first, dup := seen[t.ID]; dup {
			errs = append(errs, fmt.Errorf("activity %d (%s): template id %q already used by activity %d", i+1, t.Title, t.ID, first+1))
			continue
		}
		seen[t.ID] = i
	}
	if p.Recurrence != nil && len(p.Recurrence.Days) == 0 {
		errs = append(errs, fmt.Errorf("weekly recurrence needs at least one weekday"))
	}
	return errors.Join(errs...)
}

func (h PlanHeader) validate() []error {
	var errs []error
	if h.Responsible == "" {
		errs = append(errs, fmt.Errorf("responsible is required"))
	}
	if h.StartDate.IsZero() {
		errs = append(errs, fmt.Errorf("start date is required"))
	}
	return errs
}

func validateTemplate(i int, t ActivityTemplate) []error {
	var errs []error
	if t.Title == "" {
		errs = append(errs, fmt.Errorf("activity %d: title is required", i+1))
	}
	if t.Priority != "" && !ValidPriorities[t.Priority] {
		errs = append(errs, fmt.Errorf("activity %d (%s): unknown priority %q", i+1, t.Title, t.Priority))
	}
	return errs
}
