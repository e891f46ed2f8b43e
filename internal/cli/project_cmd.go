package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/autoplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTrackCmd(app *App) *cobra.Command {
	var installationID int64
	var owner string
	var number int
	var setupFields bool

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Start tracking an upstream project",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, created, err := app.Projects.Track(context.Background(), installationID, owner, number, setupFields)
			if err != nil {
				return err
			}
			fmt.Printf("Tracking %s #%d\n", proj.Owner, proj.ProjectNumber)
			if len(created) > 0 {
				fmt.Printf("Created fields: %s\n", strings.Join(created, ", "))
			}
			return nil
		},
	}

	installationFlag(cmd, &installationID)
	cmd.Flags().StringVar(&owner, "owner", "", "Project owner (defaults to the installation account)")
	cmd.Flags().IntVar(&number, "project", 0, "Project number")
	cmd.Flags().BoolVar(&setupFields, "setup-fields", false, "Create missing date fields before tracking")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newUntrackCmd(app *App) *cobra.Command {
	var installationID int64
	var owner string
	var number int

	cmd := &cobra.Command{
		Use:   "untrack",
		Short: "Stop tracking a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Projects.Untrack(context.Background(), installationID, owner, number); err != nil {
				return err
			}
			fmt.Printf("Untracked project #%d\n", number)
			return nil
		},
	}

	installationFlag(cmd, &installationID)
	cmd.Flags().StringVar(&owner, "owner", "", "Project owner (defaults to the installation account)")
	cmd.Flags().IntVar(&number, "project", 0, "Project number")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newProjectsCmd(app *App) *cobra.Command {
	var installationID int64

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List tracked projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background(), installationID)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("No tracked projects.")
				return nil
			}
			fmt.Print(formatter.FormatProjectList(projects))
			return nil
		},
	}

	installationFlag(cmd, &installationID)

	return cmd
}
