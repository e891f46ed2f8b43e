package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/autoplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Project views: dependencies, resources, milestones, risks",
	}

	cmd.AddCommand(
		newReportDependenciesCmd(app),
		newReportResourcesCmd(app),
		newReportMilestonesCmd(app),
		newReportRisksCmd(app),
	)

	return cmd
}

// reportFlags registers the flags shared by every report subcommand.
func reportFlags(cmd *cobra.Command, installationID *int64, number *int) {
	installationFlag(cmd, installationID)
	cmd.Flags().IntVar(number, "project", 0, "Project number")
	_ = cmd.MarkFlagRequired("project")
}

func newReportDependenciesCmd(app *App) *cobra.Command {
	var installationID int64
	var number int

	cmd := &cobra.Command{
		Use:   "dependencies",
		Short: "Dependency graph and critical path",
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := app.Reports.DependencyGraph(context.Background(), installationID, number)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatDependencyGraph(graph))
			return nil
		},
	}

	reportFlags(cmd, &installationID, &number)
	return cmd
}

func newReportResourcesCmd(app *App) *cobra.Command {
	var installationID int64
	var number int

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Per-assignee workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.Reports.Resources(context.Background(), installationID, number)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatResources(summary))
			return nil
		},
	}

	reportFlags(cmd, &installationID, &number)
	return cmd
}

func newReportMilestonesCmd(app *App) *cobra.Command {
	var installationID int64
	var number int

	cmd := &cobra.Command{
		Use:   "milestones",
		Short: "Milestone schedule health",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Reports.Milestones(context.Background(), installationID, number)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatMilestones(report))
			return nil
		},
	}

	reportFlags(cmd, &installationID, &number)
	return cmd
}

func newReportRisksCmd(app *App) *cobra.Command {
	var installationID int64
	var number int

	cmd := &cobra.Command{
		Use:   "risks",
		Short: "Per-item risk scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Reports.Risks(context.Background(), installationID, number)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatRiskReport(report))
			return nil
		},
	}

	reportFlags(cmd, &installationID, &number)
	return cmd
}
