package service

import (
	"context"
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/repository"
	"github.com/google/uuid"
)

type riskRegisterService struct {
	risks  repository.RiskRepo
	audits repository.AuditRepo
}

// NewRiskRegisterService wires the operator risk register.
func NewRiskRegisterService(risks repository.RiskRepo, audits repository.AuditRepo) RiskRegisterService {
	return &riskRegisterService{risks: risks, audits: audits}
}

func (s *riskRegisterService) Create(ctx context.Context, r *domain.RiskEntry) (*domain.RiskEntry, error) {
	if r.Status == "" {
		r.Status = domain.RiskOpen
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.ID = uuid.New().String()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := s.risks.Create(ctx, r); err != nil {
		return nil, err
	}
	recordAudit(ctx, s.audits, r.InstallationID, "risk_created", map[string]any{
		"riskId":        r.ID,
		"title":         r.Title,
		"projectNumber": r.ProjectNumber,
	})
	return r, nil
}

func (s *riskRegisterService) List(ctx context.Context, installationID int64, projectNumber int) ([]*domain.RiskEntry, error) {
	return s.risks.ListByProject(ctx, installationID, projectNumber)
}

func (s *riskRegisterService) Update(ctx context.Context, r *domain.RiskEntry) (*domain.RiskEntry, error) {
	existing, err := s.risks.Get(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	if existing.InstallationID != r.InstallationID {
		return nil, domain.ErrNotFound
	}

	existing.Title = r.Title
	existing.Description = r.Description
	existing.Severity = r.Severity
	existing.Status = r.Status
	existing.Owner = r.Owner
	existing.LinkedIssues = r.LinkedIssues
	existing.MitigationPlan = r.MitigationPlan
	existing.UpdatedAt = time.Now().UTC()

	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if err := s.risks.Update(ctx, existing); err != nil {
		return nil, err
	}
	recordAudit(ctx, s.audits, existing.InstallationID, "risk_updated", map[string]any{"riskId": existing.ID})
	return existing, nil
}

func (s *riskRegisterService) Delete(ctx context.Context, installationID int64, id string) error {
	existing, err := s.risks.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.InstallationID != installationID {
		return domain.ErrNotFound
	}
	if err := s.risks.Delete(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, s.audits, installationID, "risk_deleted", map[string]any{"riskId": id})
	return nil
}
