package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
)

// ErrInvalid marks errors caused by the caller's input rather than by the
// store.
var ErrInvalid = errors.New("invalid input")

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts a project ID or its short code.
	Resolve(ctx context.Context, idOrShortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type ActivityService interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context, f repository.ActivityFilter) ([]*domain.Activity, error)
	ListNonTerminalByResponsible(ctx context.Context, responsible string) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	Start(ctx context.Context, id string) (*domain.Activity, error)
	Complete(ctx context.Context, id string) (*domain.Activity, error)
	Cancel(ctx context.Context, id string) (*domain.Activity, error)
	Reopen(ctx context.Context, id string) (*domain.Activity, error)
	Delete(ctx context.Context, id string) error
}

type PlanningService interface {
	contract.PreviewPlanUseCase
	contract.CommitPlanUseCase

	// DistributeSingleStart spreads templates from start over the
	// responsible person's free weekday hours.
	DistributeSingleStart(ctx context.Context, responsible string, start domain.Date, templates []domain.ActivityTemplate) []domain.ScheduledPart
	// DistributeWeeklyRecurrence schedules the full template set once per
	// recurrence date, in the order given.
	DistributeWeeklyRecurrence(ctx context.Context, responsible string, dates []domain.Date, templates []domain.ActivityTemplate) []domain.ScheduledPart
}
