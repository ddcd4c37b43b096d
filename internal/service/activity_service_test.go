package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityService_Create_AppliesDefaults(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()
	svc := NewActivityService(activities, projects)

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))

	due := domain.MustParseDate("2025-03-04")
	a := &domain.Activity{
		ProjectID:      proj.ID,
		Title:          "  Inspect scaffolding ",
		Responsible:    "ana",
		DueDate:        &due,
		EstimatedHours: 2,
	}
	require.NoError(t, svc.Create(ctx, a))

	got, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Inspect scaffolding", got.Title)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	assert.Equal(t, domain.ActivityPending, got.Status)
	assert.Equal(t, "other", got.Type)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due, *got.DueDate)
}

func TestActivityService_Create_Rejects(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()
	svc := NewActivityService(activities, projects)

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))

	tests := []struct {
		name string
		a    *domain.Activity
	}{
		{"missing title", &domain.Activity{ProjectID: proj.ID, Responsible: "ana", EstimatedHours: 1}},
		{"missing responsible", &domain.Activity{ProjectID: proj.ID, Title: "x", EstimatedHours: 1}},
		{"negative hours", &domain.Activity{ProjectID: proj.ID, Title: "x", Responsible: "ana", EstimatedHours: -1}},
		{"missing project", &domain.Activity{Title: "x", Responsible: "ana", EstimatedHours: 1}},
		{"unknown project", &domain.Activity{ProjectID: "nope", Title: "x", Responsible: "ana", EstimatedHours: 1}},
		{"bad priority", &domain.Activity{ProjectID: proj.ID, Title: "x", Responsible: "ana", Priority: "Critical"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, svc.Create(ctx, tc.a))
		})
	}
}

func TestActivityService_Transitions(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewActivityService(activities, projects, obs)

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))
	a := testutil.NewTestActivity("ana", "Pour slab", testutil.WithProject(proj.ID))
	require.NoError(t, activities.Create(ctx, a))

	started, err := svc.Start(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityInProgress, started.Status)

	done, err := svc.Complete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	_, err = svc.Cancel(ctx, a.ID)
	assert.Error(t, err, "a completed activity cannot be cancelled")

	reopened, err := svc.Reopen(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityPending, reopened.Status)

	stored, err := activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityPending, stored.Status)
	assert.Nil(t, stored.CompletedAt)

	assert.Equal(t, []string{"activity-start", "activity-complete", "activity-cancel", "activity-reopen"}, obs.names())
	assert.False(t, obs.events[2].Success)
}

func TestActivityService_Transition_NotFound(t *testing.T) {
	_, projects, activities := setupRepos(t)
	svc := NewActivityService(activities, projects)

	_, err := svc.Complete(context.Background(), "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestActivityService_ListNonTerminalByResponsible(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()
	svc := NewActivityService(activities, projects)

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))
	for _, a := range []*domain.Activity{
		testutil.NewTestActivity("ana", "open", testutil.WithProject(proj.ID)),
		testutil.NewTestActivity("ana", "running", testutil.WithProject(proj.ID), testutil.WithStatus(domain.ActivityInProgress)),
		testutil.NewTestActivity("ana", "done", testutil.WithProject(proj.ID), testutil.WithStatus(domain.ActivityCompleted)),
		testutil.NewTestActivity("ana", "dropped", testutil.WithProject(proj.ID), testutil.WithStatus(domain.ActivityCancelled)),
		testutil.NewTestActivity("bruno", "other", testutil.WithProject(proj.ID)),
	} {
		require.NoError(t, activities.Create(ctx, a))
	}

	got, err := svc.ListNonTerminalByResponsible(ctx, "ana")
	require.NoError(t, err)
	titles := make([]string, 0, len(got))
	for _, a := range got {
		titles = append(titles, a.Title)
	}
	assert.ElementsMatch(t, []string{"open", "running"}, titles)
}
