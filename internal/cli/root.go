// Package cli implements the operator command surface: the long-running
// serve command plus one-shot maintenance commands that talk to the same
// service layer the HTTP handlers use.
package cli

import (
	"net/http"

	"github.com/alexanderramin/autoplan/internal/config"
	"github.com/alexanderramin/autoplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to the service interfaces and the assembled HTTP
// handler used by CLI commands.
type App struct {
	Cfg           *config.Config
	Installations service.InstallationService
	Projects      service.ProjectService
	Schedules     service.ScheduleService
	Reports       service.ReportService
	Risks         service.RiskRegisterService
	Handler       http.Handler
}

// NewRootCmd creates the top-level "autoplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "autoplan",
		Short:         "Dependency-aware schedule engine for tracked projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newTrackCmd(app),
		newUntrackCmd(app),
		newProjectsCmd(app),
		newRecalcCmd(app),
		newSaveBaselineCmd(app),
		newVarianceCmd(app),
		newReportCmd(app),
		newHolidaysCmd(app),
	)

	return root
}

// installationFlag registers the required --installation flag shared by the
// one-shot commands.
func installationFlag(cmd *cobra.Command, id *int64) {
	cmd.Flags().Int64Var(id, "installation", 0, "Installation ID")
	_ = cmd.MarkFlagRequired("installation")
}
