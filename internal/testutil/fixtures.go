package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithTargetDate(d domain.Date) ProjectOption {
	return func(p *domain.Project) {
		p.TargetDate = &d
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithAddress(addr string) ProjectOption {
	return func(p *domain.Project) {
		p.Address = addr
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		StartDate: domain.DateOf(now).AddDays(-30),
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Activity options
type ActivityOption func(*domain.Activity)

func WithProject(id string) ActivityOption {
	return func(a *domain.Activity) {
		a.ProjectID = id
	}
}

func WithStatus(s domain.ActivityStatus) ActivityOption {
	return func(a *domain.Activity) {
		a.Status = s
	}
}

func WithHours(h float64) ActivityOption {
	return func(a *domain.Activity) {
		a.EstimatedHours = h
	}
}

// WithDueDate sets the due date from a YYYY-MM-DD string.
func WithDueDate(s string) ActivityOption {
	return func(a *domain.Activity) {
		d := domain.MustParseDate(s)
		a.DueDate = &d
	}
}

// WithStartDate sets the start date from a YYYY-MM-DD string.
func WithStartDate(s string) ActivityOption {
	return func(a *domain.Activity) {
		d := domain.MustParseDate(s)
		a.StartDate = &d
	}
}

func WithPriority(p domain.Priority) ActivityOption {
	return func(a *domain.Activity) {
		a.Priority = p
	}
}

func WithActivityType(t string) ActivityOption {
	return func(a *domain.Activity) {
		a.Type = t
	}
}

// NewTestActivity returns a pending, undated activity of 1h.
func NewTestActivity(responsible, title string, opts ...ActivityOption) *domain.Activity {
	now := time.Now().UTC().Truncate(time.Second)
	a := &domain.Activity{
		ID:             uuid.New().String(),
		Title:          title,
		Responsible:    responsible,
		Type:           "execution",
		Priority:       domain.PriorityMedium,
		Status:         domain.ActivityPending,
		EstimatedHours: 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
