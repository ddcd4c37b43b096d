package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/scheduler"
	"github.com/alexanderramin/obra/internal/testutil"
)

func setupRepos(t *testing.T) (*sql.DB, repository.ProjectRepo, repository.ActivityRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return database, repository.NewSQLiteProjectRepo(database), repository.NewSQLiteActivityRepo(database)
}

// failingActivityRepo wraps a real repo and injects errors into load
// lookups or into the Nth Create call.
type failingActivityRepo struct {
	repository.ActivityRepo
	listErr      error
	failCreateOn int
	createErr    error

	mu      sync.Mutex
	creates int
}

func (r *failingActivityRepo) ListNonTerminalByResponsible(ctx context.Context, responsible string) ([]*domain.Activity, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.ActivityRepo.ListNonTerminalByResponsible(ctx, responsible)
}

func (r *failingActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	r.mu.Lock()
	r.creates++
	n := r.creates
	r.mu.Unlock()
	if n == r.failCreateOn {
		return r.createErr
	}
	return r.ActivityRepo.Create(ctx, a)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, ev UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, ev := range o.events {
		out[i] = ev.Name
	}
	return out
}

func schedulerOptions(capHours float64, advances int) scheduler.Options {
	return scheduler.Options{DailyCapHours: capHours, MaxDayAdvances: advances}
}
