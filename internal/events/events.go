package events

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

const TypeActivityCreated = "activity.created"

// ActivityCreated is published once for every activity a committed plan
// creates.
type ActivityCreated struct {
	Type        string      `json:"type"`
	ActivityID  string      `json:"activity_id"`
	ProjectID   string      `json:"project_id,omitempty"`
	Responsible string      `json:"responsible"`
	Date        domain.Date `json:"date"`
	Hours       float64     `json:"hours"`
	Title       string      `json:"title"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

// NewActivityCreated builds the event for a freshly created activity.
func NewActivityCreated(a *domain.Activity, now time.Time) ActivityCreated {
	ev := ActivityCreated{
		Type:        TypeActivityCreated,
		ActivityID:  a.ID,
		ProjectID:   a.ProjectID,
		Responsible: a.Responsible,
		Hours:       a.EstimatedHours,
		Title:       a.Title,
		OccurredAt:  now.UTC(),
	}
	if d, ok := a.ScheduledDate(); ok {
		ev.Date = d
	}
	return ev
}

type Publisher interface {
	PublishActivityCreated(ctx context.Context, ev ActivityCreated) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishActivityCreated(context.Context, ActivityCreated) error { return nil }
func (NoopPublisher) Close() error                                                  { return nil }

// MemoryPublisher keeps events in memory. Err, when set, is returned instead.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []ActivityCreated
	Err    error
}

func (p *MemoryPublisher) PublishActivityCreated(_ context.Context, ev ActivityCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *MemoryPublisher) Events() []ActivityCreated {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ActivityCreated(nil), p.events...)
}

func (p *MemoryPublisher) Close() error { return nil }
