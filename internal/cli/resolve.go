package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveProjectID accepts a short code, a full ID or an unambiguous ID
// prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}
	if p, err := app.Projects.Resolve(ctx, input); err == nil {
		return p.ID, nil
	}

	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveActivityID expands an ID prefix among the listed activities.
func resolveActivityID(ctx context.Context, app *App, input string) (string, error) {
	if _, err := app.Activities.GetByID(ctx, input); err == nil {
		return input, nil
	}
	all, err := app.Activities.List(ctx, activityFilterAll)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, a := range all {
		if strings.HasPrefix(a.ID, input) {
			matches = append(matches, a.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("activity not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("activity ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
