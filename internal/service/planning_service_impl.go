package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/events"
	"github.com/alexanderramin/obra/internal/observability"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/scheduler"
	"github.com/google/uuid"
)

type planningService struct {
	activities   repository.ActivityRepo
	projects     repository.ProjectRepo
	publisher    events.Publisher
	observer     UseCaseObserver
	logger       *slog.Logger
	defaultWeeks int
	opts         scheduler.Options
	now          func() time.Time
}

type PlanningOption func(*planningService)

func WithPlanningObserver(obs UseCaseObserver) PlanningOption {
	return func(s *planningService) {
		if obs != nil {
			s.observer = obs
		}
	}
}

func WithPlanningLogger(logger *slog.Logger) PlanningOption {
	return func(s *planningService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultRecurrenceWeeks sets the window used by weekly plans that do
// not carry their own. Non-positive values are ignored.
func WithDefaultRecurrenceWeeks(weeks int) PlanningOption {
	return func(s *planningService) {
		if weeks > 0 {
			s.defaultWeeks = weeks
		}
	}
}

func WithSchedulerOptions(opts scheduler.Options) PlanningOption {
	return func(s *planningService) { s.opts = opts }
}

func WithClock(now func() time.Time) PlanningOption {
	return func(s *planningService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewPlanningService(activities repository.ActivityRepo, projects repository.ProjectRepo, publisher events.Publisher, opts ...PlanningOption) PlanningService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	s := &planningService{
		activities:   activities,
		projects:     projects,
		publisher:    publisher,
		observer:     NoopUseCaseObserver{},
		logger:       slog.Default(),
		defaultWeeks: domain.DefaultRecurrenceWeeks,
		opts:         scheduler.DefaultOptions(),
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *planningService) Preview(ctx context.Context, plan domain.Plan) (preview *contract.PlanPreview, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "plan-preview", startedAt, err, previewFields(preview))
	}()

	if plan == nil {
		return nil, &contract.PlanError{Code: contract.PlanErrInvalid, Message: "plan is required"}
	}
	return s.preview(ctx, plan), nil
}

// preview never fails: invalid input yields an empty preview whose warnings
// say why, and a failed load lookup assumes an empty calendar.
func (s *planningService) preview(ctx context.Context, plan domain.Plan) *contract.PlanPreview {
	h := plan.Header()
	p := &contract.PlanPreview{
		GeneratedAt: s.now(),
		Mode:        plan.Mode(),
		ProjectID:   h.ProjectID,
		Responsible: h.Responsible,
		StartDate:   h.StartDate,
	}
	if err := plan.Validate(); err != nil {
		p.Warnings = splitErrors(err)
		return p
	}

	load, ok := s.loadFor(ctx, h.Responsible)
	p.LoadUnavailable = !ok
	if !ok {
		p.Warnings = append(p.Warnings, fmt.Sprintf("existing activities of %s could not be read; assuming an empty calendar", h.Responsible))
	}

	var res scheduler.Result
	if rule := plan.Weekly(); rule != nil {
		weeks := rule.Weeks
		if weeks <= 0 {
			weeks = s.defaultWeeks
		}
		p.RecurrenceDates = scheduler.ExpandWeekly(h.StartDate, rule.Days, weeks)
		res = scheduler.DistributeWeeklyRecurrenceWithOptions(load, p.RecurrenceDates, plan.Activities(), s.opts)
	} else {
		res = scheduler.DistributeSingleStartWithOptions(load, h.StartDate, plan.Activities(), s.opts)
	}

	p.Parts = res.Parts
	p.TotalHours = domain.RoundHours(res.TotalHours())
	p.Days = dayLoads(load, res)
	p.Incomplete = res.Incomplete
	p.Skipped = res.Skipped
	for _, r := range res.Unscheduled {
		p.Unscheduled = append(p.Unscheduled, contract.UnscheduledHours{
			SourceActivityID:     r.SourceActivityID,
			OriginRecurrenceDate: r.OriginRecurrenceDate,
			Hours:                domain.RoundHours(r.Hours),
		})
		p.Warnings = append(p.Warnings, fmt.Sprintf("%.2fh of %s (from %s) found no free day within %d days",
			r.Hours, r.SourceActivityID, r.OriginRecurrenceDate, s.opts.MaxDayAdvances))
	}
	for _, id := range res.Skipped {
		p.Warnings = append(p.Warnings, fmt.Sprintf("template %s has no hours and was skipped", id))
	}
	if rule := plan.Weekly(); rule != nil && len(p.RecurrenceDates) == 0 {
		p.Warnings = append(p.Warnings, "weekly recurrence produced no dates")
	}

	observability.RecordPreview(string(p.Mode), len(p.Parts), res.TotalHours(), p.Incomplete)
	return p
}

func (s *planningService) Commit(ctx context.Context, plan domain.Plan, progress func(done, total int)) (result *contract.CommitResult, err error) {
	startedAt := time.Now()
	defer func() {
		fields := map[string]any{}
		if result != nil {
			fields["created"] = len(result.Created)
			fields["failed"] = len(result.Failed)
			fields["responsible"] = result.Preview.Responsible
		}
		observe(ctx, s.observer, "plan-commit", startedAt, err, fields)
	}()

	if plan == nil {
		return nil, &contract.PlanError{Code: contract.PlanErrInvalid, Message: "plan is required"}
	}
	if verr := plan.Validate(); verr != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrInvalid, Message: strings.Join(splitErrors(verr), "; ")}
	}
	h := plan.Header()
	if h.ProjectID == "" {
		return nil, &contract.PlanError{Code: contract.PlanErrInvalid, Message: "project is required to commit a plan"}
	}
	if _, perr := s.projects.GetByID(ctx, h.ProjectID); perr != nil {
		if errors.Is(perr, repository.ErrNotFound) {
			return nil, &contract.PlanError{Code: contract.PlanErrNotFound, Message: fmt.Sprintf("project %s not found", h.ProjectID)}
		}
		return nil, &contract.PlanError{Code: contract.PlanErrInternal, Message: perr.Error()}
	}

	preview := s.preview(ctx, plan)
	result = &contract.CommitResult{Preview: preview, Warnings: preview.Warnings}
	if preview.LoadUnavailable && len(preview.Parts) > 0 {
		s.logger.WarnContext(ctx, "committing plan against an empty calendar",
			"responsible", h.Responsible, "parts", len(preview.Parts))
	}
	notes := templateNotes(plan)
	total := len(preview.Parts)

	for i, part := range preview.Parts {
		if cerr := ctx.Err(); cerr != nil {
			for _, rest := range preview.Parts[i:] {
				result.Failed = append(result.Failed, contract.PartFailure{Part: rest, Error: cerr.Error()})
			}
			break
		}

		a := s.activityFromPart(h, part, notes[part.SourceActivityID])
		if cerr := s.activities.Create(ctx, a); cerr != nil {
			s.logger.WarnContext(ctx, "plan part not persisted",
				"responsible", h.Responsible, "template", part.SourceActivityID,
				"date", part.Date.String(), "error", cerr)
			result.Failed = append(result.Failed, contract.PartFailure{Part: part, Error: cerr.Error()})
		} else {
			result.Created = append(result.Created, a)
			s.publish(ctx, a)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	observability.RecordCommit(len(result.Created), len(result.Failed))
	return result, nil
}

// activityFromPart builds the creation payload for one scheduled part.
func (s *planningService) activityFromPart(h domain.PlanHeader, part domain.ScheduledPart, templateNote string) *domain.Activity {
	day := part.Date
	priority := part.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	typ := part.Type
	if typ == "" {
		typ = "other"
	}
	now := s.now()
	return &domain.Activity{
		ID:             uuid.New().String(),
		ProjectID:      h.ProjectID,
		Title:          part.DisplayTitle(),
		Responsible:    h.Responsible,
		Type:           typ,
		Priority:       priority,
		Status:         domain.ActivityPending,
		StartDate:      domain.DatePtr(day),
		DueDate:        domain.DatePtr(day),
		EstimatedHours: domain.RoundHours(part.Hours),
		Notes:          fmt.Sprintf("%s; recurrence %s", templateNote, part.OriginRecurrenceDate),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *planningService) publish(ctx context.Context, a *domain.Activity) {
	ev := events.NewActivityCreated(a, s.now())
	if err := s.publisher.PublishActivityCreated(ctx, ev); err != nil {
		observability.RecordPublishFailure()
		s.logger.WarnContext(ctx, "activity event not published", "activity_id", a.ID, "error", err)
	}
}

func (s *planningService) DistributeSingleStart(ctx context.Context, responsible string, start domain.Date, templates []domain.ActivityTemplate) []domain.ScheduledPart {
	if strings.TrimSpace(responsible) == "" || len(templates) == 0 {
		return []domain.ScheduledPart{}
	}
	load, _ := s.loadFor(ctx, responsible)
	return nonNilParts(scheduler.DistributeSingleStartWithOptions(load, start, templates, s.opts).Parts)
}

func (s *planningService) DistributeWeeklyRecurrence(ctx context.Context, responsible string, dates []domain.Date, templates []domain.ActivityTemplate) []domain.ScheduledPart {
	if strings.TrimSpace(responsible) == "" || len(templates) == 0 || len(dates) == 0 {
		return []domain.ScheduledPart{}
	}
	load, _ := s.loadFor(ctx, responsible)
	return nonNilParts(scheduler.DistributeWeeklyRecurrenceWithOptions(load, dates, templates, s.opts).Parts)
}

// loadFor reads the responsible person's committed hours. On failure it
// logs, counts the failure and returns an empty ledger with ok=false.
func (s *planningService) loadFor(ctx context.Context, responsible string) (*scheduler.Load, bool) {
	existing, err := s.activities.ListNonTerminalByResponsible(ctx, responsible)
	if err != nil {
		observability.RecordLoadLookupFailure()
		s.logger.WarnContext(ctx, "existing load unavailable, assuming empty calendar",
			"responsible", responsible, "error", err)
		return scheduler.NewLoad(nil), false
	}
	return scheduler.NewLoad(domain.ExistingLoad(existing)), true
}
