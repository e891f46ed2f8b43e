package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/autoplan/internal/cli"
	"github.com/alexanderramin/autoplan/internal/config"
	"github.com/alexanderramin/autoplan/internal/crypt"
	"github.com/alexanderramin/autoplan/internal/db"
	"github.com/alexanderramin/autoplan/internal/logging"
	"github.com/alexanderramin/autoplan/internal/repository"
	"github.com/alexanderramin/autoplan/internal/server"
	"github.com/alexanderramin/autoplan/internal/service"
	"github.com/alexanderramin/autoplan/internal/tracker"
	"github.com/alexanderramin/autoplan/internal/webhook"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(!cfg.Production(), cfg.LogsDir)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	cipher, err := crypt.New(crypt.DeriveKey(cfg.TokenKey))
	if err != nil {
		return fmt.Errorf("building token cipher: %w", err)
	}

	// Wire repositories
	installationRepo := repository.NewSQLiteInstallationRepo(database, cipher)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	holidayRepo := repository.NewSQLiteHolidayRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)
	riskRepo := repository.NewSQLiteRiskRepo(database)

	// Upstream client: app auth when configured, a static token otherwise
	// (development and one-shot commands against a personal token).
	var tokens tracker.TokenSource
	if cfg.TrackerAppID != "" && len(cfg.TrackerPrivateKey) > 0 {
		auth, err := tracker.NewAppAuth(cfg.TrackerAppID, cfg.TrackerPrivateKey, cfg.TrackerBaseURL)
		if err != nil {
			return fmt.Errorf("configuring app auth: %w", err)
		}
		tokens = auth
	} else {
		if cfg.Production() {
			return fmt.Errorf("TRACKER_APP_ID and TRACKER_PRIVATE_KEY are required in production")
		}
		tokens = tracker.StaticToken(os.Getenv("TRACKER_TOKEN"))
	}
	client := tracker.NewClient(cfg.TrackerBaseURL, tokens)

	// Wire services
	installSvc := service.NewInstallationService(installationRepo, holidayRepo, auditRepo)
	schedSvc := service.NewScheduleService(installationRepo, projectRepo, holidayRepo, auditRepo, client)
	reportSvc := service.NewReportService(installationRepo, projectRepo, holidayRepo, client)
	projectSvc := service.NewProjectService(installationRepo, projectRepo, auditRepo, db.NewSQLiteUnitOfWork(database), client)
	riskSvc := service.NewRiskRegisterService(riskRepo, auditRepo)

	coordinator := webhook.NewCoordinator(func(key webhook.Key) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		projects, err := projectRepo.ListByInstallation(ctx, key.InstallationID)
		if err != nil {
			log.Error().Err(err).Int64("installation", key.InstallationID).Msg("loading projects for recalculation")
			return
		}
		for _, proj := range projects {
			if proj.ProjectNumber != key.ProjectNumber {
				continue
			}
			if _, err := schedSvc.Recalculate(ctx, key.InstallationID, proj.Owner, proj.ProjectNumber, false); err != nil {
				log.Error().Err(err).
					Int64("installation", key.InstallationID).
					Int("project", proj.ProjectNumber).
					Msg("scheduled recalculation failed")
			}
			return
		}
	})
	defer coordinator.Stop()

	eventSvc := service.NewEventService(installSvc, schedSvc, projectRepo, coordinator)

	handler := server.New(server.Config{
		SessionSecret:        cfg.SessionSecret,
		WebhookSecret:        cfg.WebhookSecret,
		BillingWebhookSecret: cfg.BillingWebhookSecret,
	}, server.Deps{
		Installations: installSvc,
		Projects:      projectSvc,
		Schedules:     schedSvc,
		Reports:       reportSvc,
		Risks:         riskSvc,
		Events:        eventSvc,
	})

	app := &cli.App{
		Cfg:           cfg,
		Installations: installSvc,
		Projects:      projectSvc,
		Schedules:     schedSvc,
		Reports:       reportSvc,
		Risks:         riskSvc,
		Handler:       handler,
	}

	return cli.NewRootCmd(app).Execute()
}
