package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
)

type InstallationRepo interface {
	Create(ctx context.Context, in *domain.Installation) error
	Get(ctx context.Context, id int64) (*domain.Installation, error)
	List(ctx context.Context) ([]*domain.Installation, error)
	Update(ctx context.Context, in *domain.Installation) error
	// UpdateSettings replaces the settings object wholesale.
	UpdateSettings(ctx context.Context, id int64, s domain.Settings) error
	Delete(ctx context.Context, id int64) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.TrackedProject) error
	Get(ctx context.Context, installationID int64, owner string, number int) (*domain.TrackedProject, error)
	ListByInstallation(ctx context.Context, installationID int64) ([]*domain.TrackedProject, error)
	// ListAll returns every tracked project; used by the past-due sweep.
	ListAll(ctx context.Context) ([]*domain.TrackedProject, error)
	UpdateFieldIDs(ctx context.Context, id int64, fields domain.FieldIDs) error
	Delete(ctx context.Context, installationID int64, owner string, number int) error
}

type HolidayRepo interface {
	Add(ctx context.Context, h *domain.Holiday) error
	ListByInstallation(ctx context.Context, installationID int64) ([]domain.Holiday, error)
	Remove(ctx context.Context, installationID int64, date time.Time) error
}

type AuditRepo interface {
	Record(ctx context.Context, e *domain.AuditEntry) error
	ListRecent(ctx context.Context, installationID int64, limit int) ([]*domain.AuditEntry, error)
}

type RiskRepo interface {
	Create(ctx context.Context, r *domain.RiskEntry) error
	Get(ctx context.Context, id string) (*domain.RiskEntry, error)
	ListByProject(ctx context.Context, installationID int64, projectNumber int) ([]*domain.RiskEntry, error)
	Update(ctx context.Context, r *domain.RiskEntry) error
	Delete(ctx context.Context, id string) error
}
