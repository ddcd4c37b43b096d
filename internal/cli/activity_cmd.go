package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/obra/internal/cli/formatter"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/spf13/cobra"
)

var activityFilterAll = repository.ActivityFilter{}

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"act"},
		Short:   "Manage activities",
	}

	cmd.AddCommand(
		newActivityAddCmd(app),
		newActivityListCmd(app),
		newActivityShowCmd(app),
		newActivityTransitionCmd(app, "start", "Mark an activity as in progress", app.startActivity),
		newActivityTransitionCmd(app, "done", "Mark an activity as completed", app.completeActivity),
		newActivityTransitionCmd(app, "cancel", "Cancel an activity", app.cancelActivity),
		newActivityTransitionCmd(app, "reopen", "Return a completed or cancelled activity to pending", app.reopenActivity),
		newActivityRemoveCmd(app),
	)

	return cmd
}

func newActivityAddCmd(app *App) *cobra.Command {
	var (
		project, title, responsible string
		start, due                  string
		activityType, priority      string
		notes                       string
		hours                       float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a single activity without distributing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, project)
			if err != nil {
				return err
			}
			a := &domain.Activity{
				ProjectID:      projectID,
				Title:          title,
				Responsible:    responsible,
				Type:           activityType,
				Priority:       domain.Priority(priority),
				EstimatedHours: hours,
				Notes:          notes,
			}
			if a.StartDate, err = optionalDateFlag("start", start); err != nil {
				return err
			}
			if a.DueDate, err = optionalDateFlag("due", due); err != nil {
				return err
			}
			if err := app.Activities.Create(cmd.Context(), a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created activity %s (%s)\n", formatter.TruncID(a.ID), a.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project short code or ID")
	cmd.Flags().StringVar(&title, "title", "", "Activity title")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Person responsible")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Estimated hours")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&activityType, "type", "", "Activity type (inspection, execution, ...)")
	cmd.Flags().StringVar(&priority, "priority", "", "Low, Medium, High or Urgent")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("responsible")

	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	var (
		project, responsible, status string
		from, to                     string
		open                         bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := repository.ActivityFilter{Responsible: responsible}
			if project != "" {
				id, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				f.ProjectID = id
			}
			if status != "" {
				for _, s := range strings.Split(status, ",") {
					st := domain.ActivityStatus(strings.TrimSpace(s))
					if !domain.ValidActivityStatuses[st] {
						return fmt.Errorf("unknown status %q", s)
					}
					f.Statuses = append(f.Statuses, st)
				}
			}
			if open {
				f.ExcludeStatuses = domain.TerminalStatuses
			}
			var err error
			if f.From, err = optionalDateFlag("from", from); err != nil {
				return err
			}
			if f.To, err = optionalDateFlag("to", to); err != nil {
				return err
			}

			activities, err := app.Activities.List(ctx, f)
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No activities found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatActivityList(activities, app.projectCodes(ctx)))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Filter by project short code or ID")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Filter by responsible person")
	cmd.Flags().StringVar(&status, "status", "", "Comma-separated statuses")
	cmd.Flags().BoolVar(&open, "open", false, "Only activities that are neither completed nor cancelled")
	cmd.Flags().StringVar(&from, "from", "", "Scheduled on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Scheduled on or before (YYYY-MM-DD)")

	return cmd
}

func newActivityShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveActivityID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			a, err := app.Activities.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatActivity(a))
			return nil
		},
	}
}

type activityTransition func(ctx context.Context, id string) (*domain.Activity, error)

func (a *App) startActivity(ctx context.Context, id string) (*domain.Activity, error) {
	return a.Activities.Start(ctx, id)
}

func (a *App) completeActivity(ctx context.Context, id string) (*domain.Activity, error) {
	return a.Activities.Complete(ctx, id)
}

func (a *App) cancelActivity(ctx context.Context, id string) (*domain.Activity, error) {
	return a.Activities.Cancel(ctx, id)
}

func (a *App) reopenActivity(ctx context.Context, id string) (*domain.Activity, error) {
	return a.Activities.Reopen(ctx, id)
}

func newActivityTransitionCmd(app *App, use, short string, apply activityTransition) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveActivityID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			a, err := apply(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", a.Title, formatter.ActivityStatusPill(a.Status))
			return nil
		},
	}
}

func newActivityRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveActivityID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Activities.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed activity %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

// projectCodes maps project IDs to their short codes for list output.
func (a *App) projectCodes(ctx context.Context) map[string]string {
	codes := make(map[string]string)
	projects, err := a.Projects.List(ctx, true)
	if err != nil {
		return codes
	}
	for _, p := range projects {
		codes[p.ID] = p.ShortID
	}
	return codes
}

func optionalDateFlag(name, value string) (*domain.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date: %w", name, err)
	}
	return &d, nil
}
