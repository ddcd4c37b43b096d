package cli

import (
	"github.com/alexanderramin/obra/internal/catalog"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings CLI commands run against.
type App struct {
	Projects   service.ProjectService
	Activities service.ActivityService
	Planning   service.PlanningService
	Catalog    *catalog.Catalog

	// HTTPAddress is where "serve" listens.
	HTTPAddress string

	// IsInteractive reports whether stdin is a terminal. Forms and
	// confirmations are skipped when it returns false.
	IsInteractive func() bool
	// Today is the reference date for relative dates and default starts.
	Today func() domain.Date
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) today() domain.Date {
	if a.Today != nil {
		return a.Today()
	}
	return domain.Today()
}

// NewRootCmd creates the top-level "obra" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "obra",
		Short:         "Plan construction activities without overbooking anyone",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newActivityCmd(app),
		newPlanCmd(app),
		newTemplatesCmd(app),
		newServeCmd(app),
	)

	return root
}
