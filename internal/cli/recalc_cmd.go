package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/autoplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRecalcCmd(app *App) *cobra.Command {
	var installationID int64
	var owner string
	var number int
	var setupFields bool

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate and write schedule dates for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Schedules.Recalculate(context.Background(), installationID, owner, number, setupFields)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatRecalc(result))
			return nil
		},
	}

	installationFlag(cmd, &installationID)
	cmd.Flags().StringVar(&owner, "owner", "", "Project owner (defaults to the installation account)")
	cmd.Flags().IntVar(&number, "project", 0, "Project number")
	cmd.Flags().BoolVar(&setupFields, "setup-fields", false, "Create missing date fields first")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
