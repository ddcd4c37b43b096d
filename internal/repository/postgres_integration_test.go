//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresProjectRepo_Lifecycle(t *testing.T) {
	pool := testutil.SetupPostgres(t)
	repo := NewPostgresProjectRepo(pool)
	ctx := context.Background()

	target := domain.MustParseDate("2026-03-31")
	p := testutil.NewTestProject("Aurora", testutil.WithShortID("AUR01"), testutil.WithTargetDate(target))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByShortID(ctx, "aur01")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.StartDate, got.StartDate)
	require.NotNil(t, got.TargetDate)
	assert.Equal(t, target, *got.TargetDate)

	require.NoError(t, repo.Archive(ctx, p.ID))
	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, repo.Unarchive(ctx, p.ID))
	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresActivityRepo_ListNonTerminalByResponsible(t *testing.T) {
	pool := testutil.SetupPostgres(t)
	repo := NewPostgresActivityRepo(pool)
	ctx := context.Background()

	seed := []*domain.Activity{
		testutil.NewTestActivity("ana", "pending", testutil.WithDueDate("2025-06-02"), testutil.WithHours(4)),
		testutil.NewTestActivity("ana", "started", testutil.WithStartDate("2025-06-03"), testutil.WithStatus(domain.ActivityInProgress)),
		testutil.NewTestActivity("ana", "done", testutil.WithDueDate("2025-06-02"), testutil.WithStatus(domain.ActivityCompleted)),
		testutil.NewTestActivity("bruno", "other", testutil.WithDueDate("2025-06-02")),
	}
	for _, a := range seed {
		require.NoError(t, repo.Create(ctx, a))
	}

	got, err := repo.ListNonTerminalByResponsible(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pending", got[0].Title)
	assert.Equal(t, 4.0, got[0].EstimatedHours)
	require.NotNil(t, got[0].DueDate)
	assert.Equal(t, domain.MustParseDate("2025-06-02"), *got[0].DueDate)
	assert.Equal(t, "started", got[1].Title)
}

func TestPostgresActivityRepo_UpdateAndDelete(t *testing.T) {
	pool := testutil.SetupPostgres(t)
	repo := NewPostgresActivityRepo(pool)
	ctx := context.Background()

	a := testutil.NewTestActivity("ana", "Survey", testutil.WithDueDate("2025-06-02"))
	require.NoError(t, repo.Create(ctx, a))

	a.Notes = "north facade"
	a.Status = domain.ActivityInProgress
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "north facade", got.Notes)
	assert.Equal(t, domain.ActivityInProgress, got.Status)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrNotFound)
}
