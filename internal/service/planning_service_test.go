package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/events"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-03-03 is a Monday.
var (
	monday    = domain.MustParseDate("2025-03-03")
	tuesday   = domain.MustParseDate("2025-03-04")
	wednesday = domain.MustParseDate("2025-03-05")
	quietLog  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func singlePlan(projectID string, hours float64) domain.SingleActivityPlan {
	return domain.SingleActivityPlan{
		PlanHeader: domain.PlanHeader{ProjectID: projectID, Responsible: "ana", StartDate: monday},
		Activity: domain.ActivityTemplate{
			ID:             "formwork",
			Title:          "Formwork",
			EstimatedHours: hours,
			Type:           "execution",
			Priority:       domain.PriorityHigh,
		},
	}
}

func newPlanning(activities repository.ActivityRepo, projects repository.ProjectRepo, pub events.Publisher, opts ...PlanningOption) PlanningService {
	opts = append([]PlanningOption{WithPlanningLogger(quietLog)}, opts...)
	return NewPlanningService(activities, projects, pub, opts...)
}

func TestPlanningService_Preview_RespectsExistingLoad(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))
	for _, a := range []*domain.Activity{
		testutil.NewTestActivity("ana", "Site visit", testutil.WithProject(proj.ID), testutil.WithDueDate("2025-03-03"), testutil.WithHours(4)),
		testutil.NewTestActivity("ana", "Closed", testutil.WithProject(proj.ID), testutil.WithDueDate("2025-03-03"),
			testutil.WithHours(8), testutil.WithStatus(domain.ActivityCompleted)),
		testutil.NewTestActivity("bruno", "Someone else", testutil.WithProject(proj.ID), testutil.WithDueDate("2025-03-03"), testutil.WithHours(8)),
	} {
		require.NoError(t, activities.Create(ctx, a))
	}

	svc := newPlanning(activities, projects, nil)
	preview, err := svc.Preview(ctx, singlePlan(proj.ID, 20))
	require.NoError(t, err)

	assert.False(t, preview.LoadUnavailable)
	assert.False(t, preview.Incomplete)
	assert.Empty(t, preview.Warnings)
	assert.Equal(t, domain.PlanSingle, preview.Mode)
	assert.InDelta(t, 20.0, preview.TotalHours, 1e-9)

	require.Len(t, preview.Parts, 3)
	assert.Equal(t, monday, preview.Parts[0].Date)
	assert.InDelta(t, 4.0, preview.Parts[0].Hours, 1e-9)
	assert.Equal(t, "Formwork (Part 1/3)", preview.Parts[0].DisplayTitle())
	assert.Equal(t, tuesday, preview.Parts[1].Date)
	assert.InDelta(t, 8.0, preview.Parts[1].Hours, 1e-9)
	assert.Equal(t, wednesday, preview.Parts[2].Date)
	assert.InDelta(t, 8.0, preview.Parts[2].Hours, 1e-9)

	require.Len(t, preview.Days, 3)
	assert.Equal(t, contract.DayLoad{Date: monday, ExistingHours: 4, NewHours: 4}, preview.Days[0])
	assert.InDelta(t, 8.0, preview.Days[0].Total(), 1e-9)
	assert.Equal(t, contract.DayLoad{Date: tuesday, ExistingHours: 0, NewHours: 8}, preview.Days[1])
}

func TestPlanningService_Preview_WeeklyBatch(t *testing.T) {
	_, projects, activities := setupRepos(t)

	plan := domain.BatchTemplatePlan{
		PlanHeader: domain.PlanHeader{Responsible: "ana", StartDate: monday},
		Templates: []domain.ActivityTemplate{
			{ID: "a", Title: "Rebar", EstimatedHours: 6},
			{ID: "b", Title: "Checklist", EstimatedHours: 4},
		},
		Recurrence: &domain.WeeklyRule{Days: []time.Weekday{time.Monday, time.Wednesday}, Weeks: 1},
	}

	svc := newPlanning(activities, projects, nil)
	preview, err := svc.Preview(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, []domain.Date{monday, wednesday}, preview.RecurrenceDates)
	assert.InDelta(t, 20.0, preview.TotalHours, 1e-9)
	assert.Len(t, preview.Parts, 6)
	for _, d := range preview.Days {
		assert.LessOrEqual(t, d.Total(), 8.0+1e-9, "day %s over cap", d.Date)
	}
}

func TestPlanningService_Preview_WeeklyUsesDefaultWindow(t *testing.T) {
	_, projects, activities := setupRepos(t)

	plan := domain.BatchTemplatePlan{
		PlanHeader: domain.PlanHeader{Responsible: "ana", StartDate: monday},
		Templates:  []domain.ActivityTemplate{{ID: "walk", Title: "Safety walk", EstimatedHours: 1}},
		Recurrence: &domain.WeeklyRule{Days: []time.Weekday{time.Friday}},
	}

	svc := newPlanning(activities, projects, nil, WithDefaultRecurrenceWeeks(2))
	preview, err := svc.Preview(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, []domain.Date{
		domain.MustParseDate("2025-03-07"),
		domain.MustParseDate("2025-03-14"),
	}, preview.RecurrenceDates)
	assert.Len(t, preview.Parts, 2)
}

func TestPlanningService_Preview_InvalidPlanIsEmpty(t *testing.T) {
	_, projects, activities := setupRepos(t)
	svc := newPlanning(activities, projects, nil)

	plan := domain.SingleActivityPlan{
		PlanHeader: domain.PlanHeader{StartDate: monday},
		Activity:   domain.ActivityTemplate{ID: "x", Title: "", EstimatedHours: 0},
	}
	preview, err := svc.Preview(context.Background(), plan)
	require.NoError(t, err)
	assert.True(t, preview.Empty())
	assert.NotEmpty(t, preview.Warnings)
	assert.Contains(t, preview.Warnings, "responsible is required")
}

func TestPlanningService_Preview_LoadLookupFailureDegrades(t *testing.T) {
	_, projects, activities := setupRepos(t)
	failing := &failingActivityRepo{ActivityRepo: activities, listErr: errors.New("db gone")}

	svc := newPlanning(failing, projects, nil)
	preview, err := svc.Preview(context.Background(), singlePlan("", 10))
	require.NoError(t, err)

	assert.True(t, preview.LoadUnavailable)
	require.Len(t, preview.Parts, 2)
	assert.InDelta(t, 8.0, preview.Parts[0].Hours, 1e-9)
	assert.InDelta(t, 2.0, preview.Parts[1].Hours, 1e-9)
	require.NotEmpty(t, preview.Warnings)
}

func TestPlanningService_Preview_SkipsZeroHourTemplates(t *testing.T) {
	_, projects, activities := setupRepos(t)
	svc := newPlanning(activities, projects, nil)

	plan := domain.BatchTemplatePlan{
		PlanHeader: domain.PlanHeader{Responsible: "ana", StartDate: monday},
		Templates: []domain.ActivityTemplate{
			{ID: "a", Title: "Formwork", EstimatedHours: 4},
			{ID: "z", Title: "Placeholder", EstimatedHours: 0},
		},
	}
	preview, err := svc.Preview(context.Background(), plan)
	require.NoError(t, err)

	require.Len(t, preview.Parts, 1)
	assert.Equal(t, "a", preview.Parts[0].SourceActivityID)
	assert.Equal(t, monday, preview.Parts[0].Date)
	assert.InDelta(t, 4.0, preview.Parts[0].Hours, 1e-9)
	assert.Equal(t, []string{"z"}, preview.Skipped)
	assert.Equal(t, []string{"template z has no hours and was skipped"}, preview.Warnings)
}

func TestPlanningService_Preview_ReportsIncomplete(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))
	// Monday to Friday of the first week are fully booked.
	for i := 0; i < 5; i++ {
		day := monday.AddDays(i).String()
		a := testutil.NewTestActivity("ana", "Booked", testutil.WithProject(proj.ID), testutil.WithDueDate(day), testutil.WithHours(8))
		require.NoError(t, activities.Create(ctx, a))
	}

	svc := newPlanning(activities, projects, nil, WithSchedulerOptions(schedulerOptions(8, 4)))
	preview, err := svc.Preview(ctx, singlePlan(proj.ID, 3))
	require.NoError(t, err)

	assert.True(t, preview.Incomplete)
	assert.Empty(t, preview.Parts)
	require.Len(t, preview.Unscheduled, 1)
	assert.Equal(t, "formwork", preview.Unscheduled[0].SourceActivityID)
	assert.InDelta(t, 3.0, preview.Unscheduled[0].Hours, 1e-9)
	assert.NotEmpty(t, preview.Warnings)
}

func TestPlanningService_Commit_CreatesActivitiesAndEvents(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))

	pub := &events.MemoryPublisher{}
	obs := &recordingObserver{}
	svc := newPlanning(activities, projects, pub, WithPlanningObserver(obs))

	var calls [][2]int
	res, err := svc.Commit(ctx, singlePlan(proj.ID, 12), func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	require.NoError(t, err)

	require.Len(t, res.Created, 2)
	assert.Empty(t, res.Failed)
	assert.False(t, res.Partial())
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)

	first := res.Created[0]
	assert.Equal(t, "Formwork (Part 1/2)", first.Title)
	assert.Equal(t, "ana", first.Responsible)
	assert.Equal(t, proj.ID, first.ProjectID)
	assert.Equal(t, domain.PriorityHigh, first.Priority)
	assert.Equal(t, "execution", first.Type)
	assert.Equal(t, domain.ActivityPending, first.Status)
	assert.InDelta(t, 8.0, first.EstimatedHours, 1e-9)
	require.NotNil(t, first.StartDate)
	require.NotNil(t, first.DueDate)
	assert.Equal(t, monday, *first.StartDate)
	assert.Equal(t, monday, *first.DueDate)
	assert.Contains(t, first.Notes, "formwork")
	assert.Contains(t, first.Notes, "recurrence 2025-03-03")

	stored, err := activities.ListNonTerminalByResponsible(ctx, "ana")
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	evs := pub.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.TypeActivityCreated, evs[0].Type)
	assert.Equal(t, first.ID, evs[0].ActivityID)
	assert.Equal(t, monday, evs[0].Date)

	assert.Equal(t, []string{"plan-commit"}, obs.names())
	assert.Equal(t, 2, obs.events[0].Fields["created"])
}

func TestPlanningService_Commit_SecondPlanSeesFirst(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))
	svc := newPlanning(activities, projects, nil)

	_, err := svc.Commit(ctx, singlePlan(proj.ID, 6), nil)
	require.NoError(t, err)

	preview, err := svc.Preview(ctx, singlePlan(proj.ID, 4))
	require.NoError(t, err)
	require.Len(t, preview.Parts, 2)
	assert.Equal(t, monday, preview.Parts[0].Date)
	assert.InDelta(t, 2.0, preview.Parts[0].Hours, 1e-9)
	assert.Equal(t, tuesday, preview.Parts[1].Date)
}

func TestPlanningService_Commit_RejectsInvalidPlan(t *testing.T) {
	_, projects, activities := setupRepos(t)
	svc := newPlanning(activities, projects, nil)

	plan := singlePlan("p", 0)
	_, err := svc.Commit(context.Background(), plan, nil)

	var planErr *contract.PlanError
	require.True(t, errors.As(err, &planErr))
	assert.Equal(t, contract.PlanErrInvalid, planErr.Code)
}

func TestPlanningService_Commit_SkipsZeroHourTemplates(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))
	svc := newPlanning(activities, projects, nil)

	plan := domain.BatchTemplatePlan{
		PlanHeader: domain.PlanHeader{ProjectID: proj.ID, Responsible: "ana", StartDate: monday},
		Templates: []domain.ActivityTemplate{
			{ID: "z", Title: "Placeholder", EstimatedHours: 0},
			{ID: "a", Title: "Formwork", EstimatedHours: 10},
			{ID: "n", Title: "Negative", EstimatedHours: -2},
		},
	}
	res, err := svc.Commit(ctx, plan, nil)
	require.NoError(t, err)

	require.Len(t, res.Created, 2)
	assert.Empty(t, res.Failed)
	assert.Equal(t, "Formwork (Part 1/2)", res.Created[0].Title)
	assert.Equal(t, "Formwork (Part 2/2)", res.Created[1].Title)
	assert.Equal(t, []string{"z", "n"}, res.Preview.Skipped)
	assert.Len(t, res.Warnings, 2)
}

func TestPlanningService_Commit_RejectsDuplicateTemplateIDs(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))
	svc := newPlanning(activities, projects, nil)

	plan := domain.BatchTemplatePlan{
		PlanHeader: domain.PlanHeader{ProjectID: proj.ID, Responsible: "ana", StartDate: monday},
		Templates: []domain.ActivityTemplate{
			{ID: "t1", Title: "Formwork", EstimatedHours: 4},
			{ID: "t1", Title: "Rebar", EstimatedHours: 4},
		},
	}
	_, err := svc.Commit(ctx, plan, nil)

	var planErr *contract.PlanError
	require.True(t, errors.As(err, &planErr))
	assert.Equal(t, contract.PlanErrInvalid, planErr.Code)
	assert.Contains(t, planErr.Message, `template id "t1" already used`)

	stored, err := activities.ListNonTerminalByResponsible(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestPlanningService_Commit_CarriesLoadWarning(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))
	failing := &failingActivityRepo{ActivityRepo: activities, listErr: errors.New("db gone")}
	svc := newPlanning(failing, projects, nil)

	res, err := svc.Commit(ctx, singlePlan(proj.ID, 4), nil)
	require.NoError(t, err)

	require.Len(t, res.Created, 1)
	assert.True(t, res.Preview.LoadUnavailable)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "could not be read")
}

func TestPlanningService_Commit_RequiresProject(t *testing.T) {
	_, projects, activities := setupRepos(t)
	svc := newPlanning(activities, projects, nil)

	tests := []struct {
		name      string
		projectID string
		code      contract.PlanErrorCode
	}{
		{"missing", "", contract.PlanErrInvalid},
		{"unknown", "does-not-exist", contract.PlanErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Commit(context.Background(), singlePlan(tc.projectID, 4), nil)
			var planErr *contract.PlanError
			require.True(t, errors.As(err, &planErr))
			assert.Equal(t, tc.code, planErr.Code)
		})
	}
}

func TestPlanningService_Commit_ReportsPartialFailure(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))
	failing := &failingActivityRepo{ActivityRepo: activities, failCreateOn: 2, createErr: fmt.Errorf("disk full")}

	pub := &events.MemoryPublisher{}
	svc := newPlanning(failing, projects, pub)
	res, err := svc.Commit(ctx, singlePlan(proj.ID, 20), nil)
	require.NoError(t, err)

	assert.True(t, res.Partial())
	assert.Len(t, res.Created, 2)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, tuesday, res.Failed[0].Part.Date)
	assert.Equal(t, "disk full", res.Failed[0].Error)
	assert.Len(t, pub.Events(), 2, "only created activities are published")
}

func TestPlanningService_Commit_StopsOnCancellation(t *testing.T) {
	_, projects, activities := setupRepos(t)
	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(context.Background(), proj))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := newPlanning(activities, projects, nil)
	res, err := svc.Commit(ctx, singlePlan(proj.ID, 24), func(done, _ int) {
		if done == 1 {
			cancel()
		}
	})
	require.NoError(t, err)

	assert.Len(t, res.Created, 1)
	require.Len(t, res.Failed, 2)
	for _, f := range res.Failed {
		assert.Equal(t, context.Canceled.Error(), f.Error)
	}
}

func TestPlanningService_Commit_PublishFailureDoesNotFailCommit(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))

	pub := &events.MemoryPublisher{Err: errors.New("broker down")}
	svc := newPlanning(activities, projects, pub)
	res, err := svc.Commit(ctx, singlePlan(proj.ID, 8), nil)
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)
	assert.Empty(t, res.Failed)
}

func TestPlanningService_DistributeEntryPoints(t *testing.T) {
	_, projects, activities := setupRepos(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Residencial")
	require.NoError(t, projects.Create(ctx, proj))
	booked := testutil.NewTestActivity("ana", "Booked", testutil.WithProject(proj.ID), testutil.WithStartDate("2025-03-03"), testutil.WithHours(6))
	require.NoError(t, activities.Create(ctx, booked))

	svc := newPlanning(activities, projects, nil)
	templates := []domain.ActivityTemplate{{ID: "t", Title: "Survey", EstimatedHours: 3}}

	t.Run("empty responsible", func(t *testing.T) {
		parts := svc.DistributeSingleStart(ctx, "", monday, templates)
		assert.NotNil(t, parts)
		assert.Empty(t, parts)
	})

	t.Run("empty templates", func(t *testing.T) {
		assert.Empty(t, svc.DistributeSingleStart(ctx, "ana", monday, nil))
		assert.Empty(t, svc.DistributeWeeklyRecurrence(ctx, "ana", []domain.Date{monday}, nil))
	})

	t.Run("single start reads load", func(t *testing.T) {
		parts := svc.DistributeSingleStart(ctx, "ana", monday, templates)
		require.Len(t, parts, 2)
		assert.InDelta(t, 2.0, parts[0].Hours, 1e-9)
		assert.Equal(t, tuesday, parts[1].Date)
	})

	t.Run("weekly recurrence", func(t *testing.T) {
		parts := svc.DistributeWeeklyRecurrence(ctx, "ana", []domain.Date{monday, wednesday}, templates)
		require.Len(t, parts, 3)
		assert.Equal(t, wednesday, parts[2].Date)
		assert.Equal(t, wednesday, parts[2].OriginRecurrenceDate)
	})

	t.Run("lookup failure still distributes", func(t *testing.T) {
		failing := &failingActivityRepo{ActivityRepo: activities, listErr: errors.New("timeout")}
		parts := newPlanning(failing, projects, nil).DistributeSingleStart(ctx, "ana", monday, templates)
		require.Len(t, parts, 1)
		assert.InDelta(t, 3.0, parts[0].Hours, 1e-9)
	})
}
