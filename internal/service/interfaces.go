// Package service orchestrates the engine: it loads installations and
// tracked projects, pulls item snapshots from the upstream project service,
// runs the pure scheduler core, and writes the results back. Handlers and
// the CLI only ever talk to these interfaces.
package service

import (
	"context"

	"github.com/alexanderramin/autoplan/internal/contract"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/webhook"
)

// ScheduleService runs recomputations and baseline passes for one project.
type ScheduleService interface {
	// Recalculate runs a full date-propagation pass and writes changed
	// start/target dates upstream. setupFields auto-creates missing fields
	// first.
	Recalculate(ctx context.Context, installationID int64, owner string, projectNumber int, setupFields bool) (*contract.RecalcResult, error)
	// SaveBaseline copies current dates into the baseline fields, writing
	// only fields that are still unset. Pro plan only.
	SaveBaseline(ctx context.Context, installationID int64, owner string, projectNumber int) (*contract.BaselineResult, error)
	// Variance compares current targets against the saved baseline. Pro
	// plan only.
	Variance(ctx context.Context, installationID int64, owner string, projectNumber int) (*contract.VarianceReport, error)
	// MarkIssueClosed stamps today as the Actual End Date on every tracked
	// project containing the issue, where the field is still unset. The
	// follow-up recalculation is scheduled by the caller.
	MarkIssueClosed(ctx context.Context, installationID int64, issueNumber int) error
	// AdjustPastDue moves open items whose target has slipped into the past
	// up to today, then recalculates so dependents follow.
	AdjustPastDue(ctx context.Context, installationID int64, owner string, projectNumber int) (*contract.RecalcResult, error)
	// SweepPastDue runs AdjustPastDue over every tracked project of every
	// non-suspended installation. Per-project failures are logged and the
	// sweep continues.
	SweepPastDue(ctx context.Context)
}

// ReportService produces the read-only project views.
type ReportService interface {
	DependencyGraph(ctx context.Context, installationID int64, projectNumber int) (*contract.DependencyGraph, error)
	Resources(ctx context.Context, installationID int64, projectNumber int) (*contract.ResourceSummary, error)
	Milestones(ctx context.Context, installationID int64, projectNumber int) (*contract.MilestoneReport, error)
	Risks(ctx context.Context, installationID int64, projectNumber int) (*contract.RiskReport, error)
}

// InstallationService owns the tenant lifecycle: install/uninstall events,
// billing plan transitions, settings, holidays, and the audit trail.
type InstallationService interface {
	HandleInstallationEvent(ctx context.Context, ev *webhook.InstallationEvent) error
	HandleBillingEvent(ctx context.Context, ev *webhook.BillingEvent) error

	Get(ctx context.Context, installationID int64) (*domain.Installation, error)
	Settings(ctx context.Context, installationID int64) (domain.Settings, error)
	// UpdateSettings replaces the settings object wholesale after
	// normalization.
	UpdateSettings(ctx context.Context, installationID int64, s domain.Settings) error

	// Custom holidays are Pro plan only.
	AddHoliday(ctx context.Context, h *domain.Holiday) error
	ListHolidays(ctx context.Context, installationID int64) ([]domain.Holiday, error)
	RemoveHoliday(ctx context.Context, installationID int64, date string) error

	RecentAudit(ctx context.Context, installationID int64, limit int) ([]*domain.AuditEntry, error)
}

// ProjectService manages which upstream projects the engine tracks.
type ProjectService interface {
	// Track registers a project and resolves its field-id cache. When
	// setupFields is set, missing fields are created first; the display
	// names created are returned.
	Track(ctx context.Context, installationID int64, owner string, projectNumber int, setupFields bool) (*domain.TrackedProject, []string, error)
	List(ctx context.Context, installationID int64) ([]*domain.TrackedProject, error)
	Untrack(ctx context.Context, installationID int64, owner string, projectNumber int) error
}

// RiskRegisterService is CRUD over the operator-maintained risk register.
type RiskRegisterService interface {
	Create(ctx context.Context, r *domain.RiskEntry) (*domain.RiskEntry, error)
	List(ctx context.Context, installationID int64, projectNumber int) ([]*domain.RiskEntry, error)
	Update(ctx context.Context, r *domain.RiskEntry) (*domain.RiskEntry, error)
	Delete(ctx context.Context, installationID int64, id string) error
}

// EventService fans webhook deliveries out to the other services. Handlers
// call it after responding 200; everything here runs asynchronously from the
// delivery's point of view.
type EventService interface {
	HandleEvent(ctx context.Context, kind string, body []byte) error
}
