package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/autoplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSaveBaselineCmd(app *App) *cobra.Command {
	var installationID int64
	var owner string
	var number int

	cmd := &cobra.Command{
		Use:   "save-baseline",
		Short: "Copy current dates into the baseline fields (Pro)",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Schedules.SaveBaseline(context.Background(), installationID, owner, number)
			if err != nil {
				return err
			}
			fmt.Printf("Saved baseline for %d items\n", result.Saved)
			return nil
		},
	}

	installationFlag(cmd, &installationID)
	cmd.Flags().StringVar(&owner, "owner", "", "Project owner (defaults to the installation account)")
	cmd.Flags().IntVar(&number, "project", 0, "Project number")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newVarianceCmd(app *App) *cobra.Command {
	var installationID int64
	var owner string
	var number int

	cmd := &cobra.Command{
		Use:   "variance",
		Short: "Compare current dates against the saved baseline (Pro)",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Schedules.Variance(context.Background(), installationID, owner, number)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatVariance(report))
			return nil
		},
	}

	installationFlag(cmd, &installationID)
	cmd.Flags().StringVar(&owner, "owner", "", "Project owner (defaults to the installation account)")
	cmd.Flags().IntVar(&number, "project", 0, "Project number")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
