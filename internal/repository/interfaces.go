package repository

import (
	"context"

	"github.com/alexanderramin/obra/internal/domain"
)

// ActivityFilter narrows List. Zero fields do not filter. From and To bound
// the scheduled date (due date, else start date) inclusively; undated
// activities are dropped when either bound is set.
type ActivityFilter struct {
	ProjectID       string
	Responsible     string
	Statuses        []domain.ActivityStatus
	ExcludeStatuses []domain.ActivityStatus
	From            *domain.Date
	To              *domain.Date
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context, f ActivityFilter) ([]*domain.Activity, error)
	// ListNonTerminalByResponsible returns every activity of responsible
	// that is neither completed nor cancelled.
	ListNonTerminalByResponsible(ctx context.Context, responsible string) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) (int, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
