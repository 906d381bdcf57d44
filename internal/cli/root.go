package cli

import (
	"log/slog"

	"github.com/alexanderramin/flowboard/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Templates service.TemplateService
	Flows     service.FlowService
	Imports   service.ImportService
	Export    service.ExportService
	Boards    service.BoardService

	Logger   *slog.Logger
	HTTPAddr string
}

// NewRootCmd creates the top-level "flowboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "flowboard",
		Short:         "Hierarchical workflows exported as Kanban boards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTemplateCmd(app),
		newFlowCmd(app),
		newExportCmd(app),
		newBoardCmd(app),
		newServeCmd(app),
	)

	return root
}
