package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/cli/formatter"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/scheduler"
	"github.com/spf13/cobra"
)

type planFlags struct {
	project     string
	responsible string
	start       string

	title        string
	hours        float64
	activityType string
	priority     string

	templates  []string
	discipline string

	weekly string
	weeks  int

	interactive bool
	yes         bool
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.project, "project", "", "Project short code or ID")
	cmd.Flags().StringVar(&f.responsible, "responsible", "", "Person the hours are assigned to")
	cmd.Flags().StringVar(&f.start, "start", "", "First day to schedule (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&f.title, "title", "", "Title of a single activity")
	cmd.Flags().Float64Var(&f.hours, "hours", 0, "Estimated hours of a single activity")
	cmd.Flags().StringVar(&f.activityType, "type", "", "Type of a single activity")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority of a single activity")
	cmd.Flags().StringArrayVar(&f.templates, "template", nil, "Batch template as id:title:hours[:type[:priority]] (repeatable)")
	cmd.Flags().StringVar(&f.discipline, "discipline", "", "Use every template of a catalog discipline")
	cmd.Flags().StringVar(&f.weekly, "weekly", "", "Repeat on these weekdays, e.g. mon,thu")
	cmd.Flags().IntVar(&f.weeks, "weeks", 0, "Weeks a weekly plan spans (default from config)")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "Fill in the plan with a form")
}

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Distribute activity hours over working days",
		Long: `Spread activity hours over weekdays so that no responsible person
carries more than 8 hours on any day, counting activities already planned.`,
	}

	cmd.AddCommand(
		newPlanPreviewCmd(app),
		newPlanCommitCmd(app),
	)

	return cmd
}

func newPlanPreviewCmd(app *App) *cobra.Command {
	var f planFlags

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show how a plan would be laid out without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := f.build(cmd.Context(), app)
			if err != nil {
				return err
			}
			preview, err := app.Planning.Preview(cmd.Context(), plan)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPreview(preview))
			return nil
		},
	}
	f.register(cmd)

	return cmd
}

func newPlanCommitCmd(app *App) *cobra.Command {
	var f planFlags

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Lay out a plan and save every part as an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan, err := f.build(ctx, app)
			if err != nil {
				return err
			}
			if plan.Header().ProjectID == "" {
				return fmt.Errorf("--project is required to commit a plan")
			}

			preview, err := app.Planning.Preview(ctx, plan)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPreview(preview))
			if preview.Empty() {
				return nil
			}

			if !f.yes && app.interactive() {
				ok, err := confirm(fmt.Sprintf("Save %d activities?", len(preview.Parts)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			bar, progress := commitProgress(cmd.ErrOrStderr(), len(preview.Parts))
			result, err := app.Planning.Commit(ctx, plan, progress)
			_ = bar.Finish()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCommitResult(result))
			if len(result.Created) == 0 && len(result.Failed) > 0 {
				return fmt.Errorf("no activities were saved")
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Save without asking for confirmation")

	return cmd
}

// build turns the flags, or the interactive form when requested, into a
// plan.
func (f *planFlags) build(ctx context.Context, app *App) (domain.Plan, error) {
	if f.interactive {
		if !app.interactive() {
			return nil, fmt.Errorf("--interactive needs a terminal")
		}
		if err := f.ask(ctx, app); err != nil {
			return nil, err
		}
	}

	header := domain.PlanHeader{Responsible: strings.TrimSpace(f.responsible)}
	if header.Responsible == "" {
		return nil, fmt.Errorf("--responsible is required")
	}
	if f.project != "" {
		id, err := resolveProjectID(ctx, app, f.project)
		if err != nil {
			return nil, err
		}
		header.ProjectID = id
	}
	header.StartDate = scheduler.NextWorkday(app.today())
	if f.start != "" {
		d, err := domain.ParseDate(f.start)
		if err != nil {
			return nil, fmt.Errorf("invalid --start date: %w", err)
		}
		header.StartDate = d
	}

	var days []time.Weekday
	if f.weekly != "" {
		parsed, err := domain.ParseWeekdays(f.weekly)
		if err != nil {
			return nil, fmt.Errorf("invalid --weekly: %w", err)
		}
		days = parsed
	}

	templates, err := f.batchTemplates(app)
	if err != nil {
		return nil, err
	}
	if len(templates) > 0 {
		plan := domain.BatchTemplatePlan{PlanHeader: header, Templates: templates}
		if days != nil {
			plan.Recurrence = &domain.WeeklyRule{Days: days, Weeks: f.weeks}
		}
		return plan, nil
	}

	if f.title == "" {
		return nil, fmt.Errorf("give --title and --hours, --template or --discipline")
	}
	tmpl, err := newTemplate("t1", f.title, f.hours, f.activityType, f.priority)
	if err != nil {
		return nil, err
	}
	if days != nil {
		tmpl.Recurrence = domain.RecurrenceWeekly
		tmpl.WeeklyDays = days
	}
	return domain.SingleActivityPlan{PlanHeader: header, Activity: tmpl, WindowWeeks: f.weeks}, nil
}

func (f *planFlags) batchTemplates(app *App) ([]domain.ActivityTemplate, error) {
	var out []domain.ActivityTemplate
	if f.discipline != "" {
		if app.Catalog == nil {
			return nil, fmt.Errorf("no template catalog loaded")
		}
		ts, err := app.Catalog.Templates(f.discipline)
		if err != nil {
			return nil, err
		}
		out = append(out, ts...)
	}
	for i, spec := range f.templates {
		t, err := parseTemplateSpec(spec, len(out)+1)
		if err != nil {
			return nil, fmt.Errorf("--template #%d: %w", i+1, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// parseTemplateSpec reads "id:title:hours[:type[:priority]]". An empty id
// becomes "t<n>".
func parseTemplateSpec(spec string, n int) (domain.ActivityTemplate, error) {
	fields := strings.Split(spec, ":")
	if len(fields) < 3 || len(fields) > 5 {
		return domain.ActivityTemplate{}, fmt.Errorf("want id:title:hours[:type[:priority]], got %q", spec)
	}
	hours, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return domain.ActivityTemplate{}, fmt.Errorf("hours %q is not a number", fields[2])
	}
	var activityType, priority string
	if len(fields) > 3 {
		activityType = fields[3]
	}
	if len(fields) > 4 {
		priority = fields[4]
	}
	id := strings.TrimSpace(fields[0])
	if id == "" {
		id = fmt.Sprintf("t%d", n)
	}
	return newTemplate(id, fields[1], hours, activityType, priority)
}

func newTemplate(id, title string, hours float64, activityType, priority string) (domain.ActivityTemplate, error) {
	t := domain.ActivityTemplate{
		ID:             id,
		Title:          strings.TrimSpace(title),
		EstimatedHours: hours,
		Type:           strings.ToLower(strings.TrimSpace(activityType)),
	}
	if t.Type != "" && !domain.ValidActivityTypes[t.Type] {
		return t, fmt.Errorf("unknown activity type %q (valid: %s)", activityType, strings.Join(sortedTypes(), ", "))
	}
	if priority != "" {
		p, ok := parsePriority(priority)
		if !ok {
			return t, fmt.Errorf("unknown priority %q", priority)
		}
		t.Priority = p
	}
	return t, nil
}

func parsePriority(s string) (domain.Priority, bool) {
	s = strings.TrimSpace(s)
	for p := range domain.ValidPriorities {
		if strings.EqualFold(string(p), s) {
			return p, true
		}
	}
	return "", false
}

// ask runs the plan form seeded with whatever flags were given.
func (f *planFlags) ask(ctx context.Context, app *App) error {
	a := planAnswers{
		ProjectID:   f.project,
		Responsible: f.responsible,
		StartDate:   f.start,
		Title:       f.title,
		Type:        f.activityType,
		Priority:    f.priority,
		Weekly:      f.weekly,
	}
	if f.hours > 0 {
		a.Hours = strconv.FormatFloat(f.hours, 'f', -1, 64)
	}
	if f.weeks > 0 {
		a.Weeks = strconv.Itoa(f.weeks)
	}

	if err := planForm(ctx, app, &a).Run(); err != nil {
		return err
	}

	f.project = a.ProjectID
	f.responsible = a.Responsible
	f.start = a.StartDate
	f.title = a.Title
	f.activityType = a.Type
	f.priority = a.Priority
	f.weekly = a.Weekly
	f.hours, _ = strconv.ParseFloat(strings.TrimSpace(a.Hours), 64)
	if a.Weeks != "" {
		f.weeks, _ = strconv.Atoi(a.Weeks)
	}
	return nil
}

func sortedTypes() []string {
	out := make([]string, 0, len(domain.ValidActivityTypes))
	for t := range domain.ValidActivityTypes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func errRequired(field string) error {
	return fmt.Errorf("%s is required", field)
}
