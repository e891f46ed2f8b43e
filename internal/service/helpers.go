package service

import (
	"context"
	"time"

	"github.com/alexanderramin/autoplan/internal/calendar"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/repository"
	"github.com/alexanderramin/autoplan/internal/tracker"
	"github.com/rs/zerolog/log"
)

// loadProject resolves the installation and one of its tracked projects.
// An empty owner falls back to the installation's owner.
func loadProject(ctx context.Context, installations repository.InstallationRepo, projects repository.ProjectRepo, installationID int64, owner string, projectNumber int) (*domain.Installation, *domain.TrackedProject, error) {
	inst, err := installations.Get(ctx, installationID)
	if err != nil {
		return nil, nil, err
	}
	if owner == "" {
		owner = inst.Owner
	}
	proj, err := projects.Get(ctx, installationID, owner, projectNumber)
	if err != nil {
		return nil, nil, err
	}
	return inst, proj, nil
}

// calendarFor builds the working calendar from the installation's weekend
// setting and its holiday rows.
func calendarFor(ctx context.Context, holidays repository.HolidayRepo, inst *domain.Installation) (*calendar.Calendar, error) {
	rows, err := holidays.ListByInstallation(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	days := make([]calendar.Holiday, 0, len(rows))
	for _, h := range rows {
		days = append(days, calendar.Holiday{Date: h.Date, Recurring: h.Recurring})
	}
	weekend := inst.Settings.WeekendDays
	if weekend == nil {
		weekend = calendar.DefaultWeekend
	}
	return calendar.New(weekend, days), nil
}

// refFor builds the upstream project reference for a tracked project.
func refFor(inst *domain.Installation, proj *domain.TrackedProject) tracker.ProjectRef {
	return tracker.ProjectRef{
		Owner:     proj.Owner,
		OwnerKind: inst.OwnerKind,
		Number:    proj.ProjectNumber,
	}
}

// sameDate compares two optional timestamps as calendar days.
func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return calendar.DateOf(*a).Equal(calendar.DateOf(*b))
}

// recordAudit writes one audit entry. Audit failures never fail the
// operation they describe; they are logged and dropped.
func recordAudit(ctx context.Context, audits repository.AuditRepo, installationID int64, action string, details map[string]any) {
	entry := &domain.AuditEntry{
		InstallationID: installationID,
		Action:         action,
		Details:        details,
		CreatedAt:      time.Now().UTC(),
	}
	if err := audits.Record(ctx, entry); err != nil {
		log.Error().Err(err).
			Int64("installation", installationID).
			Str("action", action).
			Msg("recording audit entry failed")
	}
}
