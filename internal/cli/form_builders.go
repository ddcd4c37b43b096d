package cli

import (
	"context"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/charmbracelet/huh"
)

// planAnswers collects the fields of a single-activity plan as typed text.
type planAnswers struct {
	ProjectID   string
	Responsible string
	StartDate   string
	Title       string
	Hours       string
	Type        string
	Priority    string
	Weekly      string
	Weeks       string
}

// dateInput returns a huh.Input for an optional date field with YYYY-MM-DD validation.
func dateInput(title, placeholder string, value *string) *huh.Input {
	if placeholder == "" {
		placeholder = "2025-06-30"
	}
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateOptionalDate)
}

// hoursInput returns a huh.Input for a positive duration in hours.
func hoursInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Estimated Hours").
		Placeholder("12").
		Value(value).
		Validate(validateHours)
}

func requiredInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(func(s string) error {
			if s == "" {
				return errRequired(title)
			}
			return nil
		})
}

// planForm builds the interactive form for one activity plan. Fields that
// already hold a value from flags keep it as the default.
func planForm(ctx context.Context, app *App, a *planAnswers) *huh.Form {
	if a.Type == "" {
		a.Type = "other"
	}
	if a.Priority == "" {
		a.Priority = string(domain.PriorityMedium)
	}

	var fields []huh.Field
	if options := projectOptions(ctx, app); len(options) > 0 && a.ProjectID == "" {
		fields = append(fields, huh.NewSelect[string]().
			Title("Which Project?").
			Options(options...).
			Value(&a.ProjectID))
	}
	fields = append(fields,
		requiredInput("Responsible", "ana", &a.Responsible),
		dateInput("Start Date (YYYY-MM-DD, blank for today)", "", &a.StartDate),
		requiredInput("Activity Title", "Formwork assembly", &a.Title),
		hoursInput(&a.Hours),
	)

	typeOptions := make([]huh.Option[string], 0, len(domain.ValidActivityTypes))
	for _, t := range sortedTypes() {
		typeOptions = append(typeOptions, huh.NewOption(t, t))
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(typeOptions...).
				Value(&a.Type),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", string(domain.PriorityLow)),
					huh.NewOption("Medium", string(domain.PriorityMedium)),
					huh.NewOption("High", string(domain.PriorityHigh)),
					huh.NewOption("Urgent", string(domain.PriorityUrgent)),
				).
				Value(&a.Priority),
			huh.NewInput().
				Title("Repeat Weekly On (e.g. mon,thu; blank for once)").
				Value(&a.Weekly).
				Validate(validateOptionalWeekdays),
			huh.NewInput().
				Title("Weeks").
				Placeholder("4").
				Value(&a.Weeks).
				Validate(validatePositiveInt),
		),
	).WithTheme(obraHuhTheme()).WithShowHelp(false)
}
