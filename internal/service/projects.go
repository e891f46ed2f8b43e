package service

import (
	"context"
	"time"

	"github.com/alexanderramin/autoplan/internal/db"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/repository"
	"github.com/alexanderramin/autoplan/internal/tracker"
)

type projectService struct {
	installations repository.InstallationRepo
	projects      repository.ProjectRepo
	audits        repository.AuditRepo
	uow           db.UnitOfWork
	client        tracker.Client
}

// NewProjectService wires project tracking.
func NewProjectService(
	installations repository.InstallationRepo,
	projects repository.ProjectRepo,
	audits repository.AuditRepo,
	uow db.UnitOfWork,
	client tracker.Client,
) ProjectService {
	return &projectService{
		installations: installations,
		projects:      projects,
		audits:        audits,
		uow:           uow,
		client:        client,
	}
}

func (s *projectService) Track(ctx context.Context, installationID int64, owner string, projectNumber int, setupFields bool) (*domain.TrackedProject, []string, error) {
	inst, err := s.installations.Get(ctx, installationID)
	if err != nil {
		return nil, nil, err
	}
	if owner == "" {
		owner = inst.Owner
	}
	if projectNumber <= 0 {
		return nil, nil, domain.Validationf("project number must be positive")
	}

	ref := tracker.ProjectRef{Owner: owner, OwnerKind: inst.OwnerKind, Number: projectNumber}

	var created []string
	if setupFields {
		created, err = tracker.EnsureFields(ctx, s.client, inst.ID, ref, inst.Plan)
		if err != nil {
			return nil, nil, err
		}
	}

	// Resolving field ids doubles as an existence check for the project.
	externalID, fieldIDs, err := tracker.ResolveFieldIDs(ctx, s.client, inst.ID, ref)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	proj := &domain.TrackedProject{
		InstallationID: installationID,
		Owner:          owner,
		ProjectNumber:  projectNumber,
		ExternalID:     externalID,
		FieldIDs:       fieldIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// The project row and its audit entry land together or not at all.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txAudits := repository.NewSQLiteAuditRepo(tx)

		if err := txProjects.Create(ctx, proj); err != nil {
			return err
		}
		return txAudits.Record(ctx, &domain.AuditEntry{
			InstallationID: installationID,
			Action:         "project_tracked",
			Details: map[string]any{
				"owner":         owner,
				"projectNumber": projectNumber,
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return proj, created, nil
}

func (s *projectService) List(ctx context.Context, installationID int64) ([]*domain.TrackedProject, error) {
	return s.projects.ListByInstallation(ctx, installationID)
}

func (s *projectService) Untrack(ctx context.Context, installationID int64, owner string, projectNumber int) error {
	if owner == "" {
		inst, err := s.installations.Get(ctx, installationID)
		if err != nil {
			return err
		}
		owner = inst.Owner
	}
	if _, err := s.projects.Get(ctx, installationID, owner, projectNumber); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, installationID, owner, projectNumber); err != nil {
		return err
	}
	recordAudit(ctx, s.audits, installationID, "project_untracked", map[string]any{
		"owner":         owner,
		"projectNumber": projectNumber,
	})
	return nil
}
