package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/autoplan/internal/cli/formatter"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/spf13/cobra"
)

func newHolidaysCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Manage an installation's holiday calendar (Pro)",
	}

	cmd.AddCommand(
		newHolidaysListCmd(app),
		newHolidaysAddCmd(app),
		newHolidaysRemoveCmd(app),
	)

	return cmd
}

func newHolidaysListCmd(app *App) *cobra.Command {
	var installationID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List holidays",
		RunE: func(cmd *cobra.Command, args []string) error {
			holidays, err := app.Installations.ListHolidays(context.Background(), installationID)
			if err != nil {
				return err
			}
			if len(holidays) == 0 {
				fmt.Println("No holidays configured.")
				return nil
			}
			fmt.Print(formatter.FormatHolidays(holidays))
			return nil
		},
	}

	installationFlag(cmd, &installationID)
	return cmd
}

func newHolidaysAddCmd(app *App) *cobra.Command {
	var installationID int64
	var date, name string
	var recurring bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a holiday",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", date, err)
			}
			holiday := &domain.Holiday{
				InstallationID: installationID,
				Date:           day,
				Name:           name,
				Recurring:      recurring,
			}
			if err := app.Installations.AddHoliday(context.Background(), holiday); err != nil {
				return err
			}
			fmt.Printf("Added holiday %s (%s)\n", name, date)
			return nil
		},
	}

	installationFlag(cmd, &installationID)
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&name, "name", "", "Holiday name")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "Repeats every year")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newHolidaysRemoveCmd(app *App) *cobra.Command {
	var installationID int64

	cmd := &cobra.Command{
		Use:   "remove DATE",
		Short: "Remove a holiday by date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Installations.RemoveHoliday(context.Background(), installationID, args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed holiday on %s\n", args[0])
			return nil
		},
	}

	installationFlag(cmd, &installationID)
	return cmd
}
