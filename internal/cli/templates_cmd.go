package cli

import (
	"fmt"

	"github.com/alexanderramin/obra/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "templates [DISCIPLINE]",
		Aliases: []string{"tpl"},
		Short:   "List the activity template catalog",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Catalog == nil || len(app.Catalog.Disciplines) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates loaded.")
				return nil
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalog(app.Catalog))
				return nil
			}
			d, ok := app.Catalog.Discipline(args[0])
			if !ok {
				return fmt.Errorf("unknown discipline %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDiscipline(d))
			return nil
		},
	}
}
