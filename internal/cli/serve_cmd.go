package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout is how long in-flight requests get to drain.
const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), app)
		},
	}
}

// serve supervises the HTTP server and the past-due cron sweep until a
// termination signal arrives, then drains.
func serve(ctx context.Context, app *App) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              app.Cfg.Addr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var sweeper *cron.Cron
	if app.Cfg.PastDueCron != "" {
		sweeper = cron.New(cron.WithLocation(time.UTC))
		if _, err := sweeper.AddFunc(app.Cfg.PastDueCron, func() {
			app.Schedules.SweepPastDue(context.Background())
		}); err != nil {
			return fmt.Errorf("scheduling past-due sweep %q: %w", app.Cfg.PastDueCron, err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if sweeper != nil {
		sweeper.Start()
		log.Info().Str("schedule", app.Cfg.PastDueCron).Msg("past-due sweep scheduled")
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")

		if sweeper != nil {
			<-sweeper.Stop().Done()
		}

		drain, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(drain); err != nil {
			return fmt.Errorf("draining http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}
