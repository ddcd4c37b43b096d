package domain

type ActivityStatus string

const (
	ActivityPending    ActivityStatus = "Pending"
	ActivityInProgress ActivityStatus = "InProgress"
	ActivityCompleted  ActivityStatus = "Completed"
	ActivityCancelled  ActivityStatus = "Cancelled"
)

// TerminalStatuses are the statuses that no longer count toward a
// responsible person's daily load.
var TerminalStatuses = []ActivityStatus{ActivityCompleted, ActivityCancelled}

// ValidActivityStatuses is the canonical set of accepted status strings.
var ValidActivityStatuses = map[ActivityStatus]bool{
	ActivityPending:    true,
	ActivityInProgress: true,
	ActivityCompleted:  true,
	ActivityCancelled:  true,
}

func (s ActivityStatus) IsTerminal() bool {
	return s == ActivityCompleted || s == ActivityCancelled
}

type Recurrence string

const (
	RecurrenceNone   Recurrence = "None"
	RecurrenceWeekly Recurrence = "Weekly"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[Priority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityUrgent: true,
}

// ValidActivityTypes lists the activity types used on construction sites.
// Types are carried through scheduling untouched; this set only backs
// input validation on the CLI and API.
var ValidActivityTypes = map[string]bool{
	"inspection": true, "execution": true, "design": true,
	"documentation": true, "meeting": true, "purchase": true,
	"review": true, "survey": true, "other": true,
}

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectDone     ProjectStatus = "done"
	ProjectArchived ProjectStatus = "archived"
)
