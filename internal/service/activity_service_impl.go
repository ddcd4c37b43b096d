package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/google/uuid"
)

type activityService struct {
	activities repository.ActivityRepo
	projects   repository.ProjectRepo
	observer   UseCaseObserver
	now        func() time.Time
}

func NewActivityService(activities repository.ActivityRepo, projects repository.ProjectRepo, observers ...UseCaseObserver) ActivityService {
	return &activityService{
		activities: activities,
		projects:   projects,
		observer:   useCaseObserverOrNoop(observers),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *activityService) Create(ctx context.Context, a *domain.Activity) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "activity-create", startedAt, err, map[string]any{
			"project_id":  a.ProjectID,
			"responsible": a.Responsible,
		})
	}()

	a.Title = strings.TrimSpace(a.Title)
	a.Responsible = strings.TrimSpace(a.Responsible)
	if a.Priority == "" {
		a.Priority = domain.PriorityMedium
	}
	if a.Status == "" {
		a.Status = domain.ActivityPending
	}
	if a.Type == "" {
		a.Type = "other"
	}
	if err = a.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if a.ProjectID == "" {
		return fmt.Errorf("%w: project is required", ErrInvalid)
	}
	if _, err = s.projects.GetByID(ctx, a.ProjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: project %s not found", ErrInvalid, a.ProjectID)
		}
		return err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := s.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.activities.Create(ctx, a)
}

func (s *activityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

func (s *activityService) List(ctx context.Context, f repository.ActivityFilter) ([]*domain.Activity, error) {
	return s.activities.List(ctx, f)
}

func (s *activityService) ListNonTerminalByResponsible(ctx context.Context, responsible string) ([]*domain.Activity, error) {
	return s.activities.ListNonTerminalByResponsible(ctx, responsible)
}

func (s *activityService) Update(ctx context.Context, a *domain.Activity) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	a.UpdatedAt = s.now()
	return s.activities.Update(ctx, a)
}

func (s *activityService) Start(ctx context.Context, id string) (*domain.Activity, error) {
	return s.transition(ctx, "activity-start", id, (*domain.Activity).Start)
}

func (s *activityService) Complete(ctx context.Context, id string) (*domain.Activity, error) {
	return s.transition(ctx, "activity-complete", id, (*domain.Activity).Complete)
}

func (s *activityService) Cancel(ctx context.Context, id string) (*domain.Activity, error) {
	return s.transition(ctx, "activity-cancel", id, (*domain.Activity).Cancel)
}

func (s *activityService) Reopen(ctx context.Context, id string) (*domain.Activity, error) {
	return s.transition(ctx, "activity-reopen", id, (*domain.Activity).Reopen)
}

func (s *activityService) Delete(ctx context.Context, id string) error {
	return s.activities.Delete(ctx, id)
}

// transition loads the activity, applies a status change and persists it.
func (s *activityService) transition(ctx context.Context, name, id string, apply func(*domain.Activity, time.Time) error) (a *domain.Activity, err error) {
	startedAt := time.Now()
	defer func() {
		fields := map[string]any{"activity_id": id}
		if a != nil {
			fields["status"] = string(a.Status)
		}
		observe(ctx, s.observer, name, startedAt, err, fields)
	}()

	a, err = s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = apply(a, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err = s.activities.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
