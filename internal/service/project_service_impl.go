package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewProjectService builds the project use cases. When uow is nil, deleting
// a project relies on the store's foreign-key cascade to drop its activities.
func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		projects: projects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "project-create", startedAt, err, map[string]any{"short_id": p.ShortID})
	}()

	p.ShortID = domain.NormalizeShortID(p.ShortID)
	p.Name = strings.TrimSpace(p.Name)
	if err = p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.StartDate.IsZero() {
		p.StartDate = domain.Today()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) Resolve(ctx context.Context, idOrShortID string) (*domain.Project, error) {
	p, err := s.projects.GetByShortID(ctx, strings.ToUpper(idOrShortID))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.projects.GetByID(ctx, idOrShortID)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.ShortID = domain.NormalizeShortID(p.ShortID)
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Archive(ctx context.Context, id string) error {
	return s.projects.Archive(ctx, id)
}

func (s *projectService) Unarchive(ctx context.Context, id string) error {
	return s.projects.Unarchive(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) (err error) {
	startedAt := time.Now()
	removed := 0
	defer func() {
		observe(ctx, s.observer, "project-delete", startedAt, err, map[string]any{
			"project_id":         id,
			"activities_removed": removed,
		})
	}()

	if !force {
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsArchived() {
			return fmt.Errorf("%w: project must be archived before deletion (use --force to override)", ErrInvalid)
		}
	}

	if s.uow == nil {
		return s.projects.Delete(ctx, id)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLiteActivityRepo(tx).DeleteByProject(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting project activities: %w", err)
		}
		if err := repository.NewSQLiteProjectRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		removed = n
		return nil
	})
}
