package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/repository"
	"github.com/alexanderramin/autoplan/internal/webhook"
	"github.com/rs/zerolog/log"
)

type installationService struct {
	installations repository.InstallationRepo
	holidays      repository.HolidayRepo
	audits        repository.AuditRepo
}

// NewInstallationService wires the tenant lifecycle service.
func NewInstallationService(
	installations repository.InstallationRepo,
	holidays repository.HolidayRepo,
	audits repository.AuditRepo,
) InstallationService {
	return &installationService{
		installations: installations,
		holidays:      holidays,
		audits:        audits,
	}
}

func (s *installationService) HandleInstallationEvent(ctx context.Context, ev *webhook.InstallationEvent) error {
	id := ev.Installation.ID
	switch ev.Action {
	case "created":
		now := time.Now().UTC()
		inst := &domain.Installation{
			ID:        id,
			Owner:     ev.Installation.Account.Login,
			OwnerKind: ownerKindOf(ev.Installation.Account.Type),
			Plan:      domain.PlanFree,
			Settings:  domain.DefaultSettings(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.installations.Create(ctx, inst); err != nil {
			return err
		}
		recordAudit(ctx, s.audits, id, "installation_created", map[string]any{"owner": inst.Owner})
		return nil

	case "deleted":
		// Cascade removes projects, holidays, audit rows, and risks.
		if err := s.installations.Delete(ctx, id); err != nil {
			return err
		}
		log.Info().Int64("installation", id).Msg("installation removed")
		return nil

	case "suspend":
		return s.setSuspended(ctx, id, true)
	case "unsuspend":
		return s.setSuspended(ctx, id, false)

	default:
		log.Debug().Str("action", ev.Action).Msg("ignoring installation event")
		return nil
	}
}

// setSuspended flips the subscription status without touching the plan tier.
func (s *installationService) setSuspended(ctx context.Context, id int64, suspended bool) error {
	inst, err := s.installations.Get(ctx, id)
	if err != nil {
		return err
	}
	action := "installation_unsuspended"
	if suspended {
		inst.SubStatus = domain.SubSuspended
		action = "installation_suspended"
	} else {
		inst.SubStatus = domain.SubNone
		if inst.Plan == domain.PlanPro {
			inst.SubStatus = domain.SubActive
		}
	}
	if err := s.installations.Update(ctx, inst); err != nil {
		return err
	}
	recordAudit(ctx, s.audits, id, action, nil)
	return nil
}

func (s *installationService) HandleBillingEvent(ctx context.Context, ev *webhook.BillingEvent) error {
	switch ev.Type {
	case webhook.BillingCheckoutCompleted:
		var session webhook.CheckoutSession
		if err := json.Unmarshal(ev.Data.Object, &session); err != nil {
			return domain.Validationf("malformed checkout session: %v", err)
		}
		id, err := strconv.ParseInt(session.ClientReferenceID, 10, 64)
		if err != nil {
			return domain.Validationf("checkout session has no installation reference")
		}
		inst, err := s.installations.Get(ctx, id)
		if err != nil {
			return err
		}
		inst.Plan = domain.PlanPro
		inst.SubStatus = domain.SubActive
		inst.BillingCustomerID = session.Customer
		inst.BillingSubscriptionID = session.Subscription
		if err := s.installations.Update(ctx, inst); err != nil {
			return err
		}
		recordAudit(ctx, s.audits, id, "plan_upgraded", map[string]any{"plan": string(domain.PlanPro)})
		return nil

	case webhook.BillingSubscriptionUpdated:
		sub, inst, err := s.subscriptionTarget(ctx, ev)
		if err != nil || inst == nil {
			return err
		}
		switch sub.Status {
		case "active":
			inst.Plan, inst.SubStatus = domain.PlanPro, domain.SubActive
		case "trialing":
			inst.Plan, inst.SubStatus = domain.PlanPro, domain.SubTrialing
		default:
			inst.Plan, inst.SubStatus = domain.PlanFree, domain.SubCanceled
		}
		if sub.CurrentPeriodEnd > 0 {
			expires := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
			inst.SubExpiresAt = &expires
		}
		if err := s.installations.Update(ctx, inst); err != nil {
			return err
		}
		recordAudit(ctx, s.audits, inst.ID, "subscription_updated", map[string]any{
			"plan":   string(inst.Plan),
			"status": sub.Status,
		})
		return nil

	case webhook.BillingSubscriptionDeleted:
		_, inst, err := s.subscriptionTarget(ctx, ev)
		if err != nil || inst == nil {
			return err
		}
		inst.Plan = domain.PlanFree
		inst.SubStatus = domain.SubCanceled
		if err := s.installations.Update(ctx, inst); err != nil {
			return err
		}
		recordAudit(ctx, s.audits, inst.ID, "plan_downgraded", map[string]any{"plan": string(domain.PlanFree)})
		return nil

	default:
		log.Debug().Str("type", ev.Type).Msg("ignoring billing event")
		return nil
	}
}

// subscriptionTarget decodes the subscription object and finds the
// installation it belongs to by billing customer id. An unknown customer is
// not an error; the event is logged and dropped.
func (s *installationService) subscriptionTarget(ctx context.Context, ev *webhook.BillingEvent) (*webhook.Subscription, *domain.Installation, error) {
	var sub webhook.Subscription
	if err := json.Unmarshal(ev.Data.Object, &sub); err != nil {
		return nil, nil, domain.Validationf("malformed subscription: %v", err)
	}
	all, err := s.installations.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, inst := range all {
		if inst.BillingCustomerID != "" && inst.BillingCustomerID == sub.Customer {
			return &sub, inst, nil
		}
	}
	log.Warn().Str("customer", sub.Customer).Str("type", ev.Type).Msg("billing event for unknown customer")
	return &sub, nil, nil
}

func (s *installationService) Get(ctx context.Context, installationID int64) (*domain.Installation, error) {
	return s.installations.Get(ctx, installationID)
}

func (s *installationService) Settings(ctx context.Context, installationID int64) (domain.Settings, error) {
	inst, err := s.installations.Get(ctx, installationID)
	if err != nil {
		return domain.Settings{}, err
	}
	return inst.Settings, nil
}

func (s *installationService) UpdateSettings(ctx context.Context, installationID int64, settings domain.Settings) error {
	for _, wd := range settings.WeekendDays {
		if wd < 0 || wd > 6 {
			return domain.Validationf("weekend day %d out of range 0..6", wd)
		}
	}
	settings.Normalize()
	if err := s.installations.UpdateSettings(ctx, installationID, settings); err != nil {
		return err
	}
	recordAudit(ctx, s.audits, installationID, "settings_updated", nil)
	return nil
}

func (s *installationService) AddHoliday(ctx context.Context, h *domain.Holiday) error {
	inst, err := s.installations.Get(ctx, h.InstallationID)
	if err != nil {
		return err
	}
	if inst.Plan != domain.PlanPro {
		return &domain.PlanGateError{Feature: "custom holidays"}
	}
	if h.Date.IsZero() {
		return domain.Validationf("holiday date is required")
	}
	if err := s.holidays.Add(ctx, h); err != nil {
		return err
	}
	recordAudit(ctx, s.audits, h.InstallationID, "holiday_added", map[string]any{
		"date": h.Date.Format("2006-01-02"),
		"name": h.Name,
	})
	return nil
}

func (s *installationService) ListHolidays(ctx context.Context, installationID int64) ([]domain.Holiday, error) {
	return s.holidays.ListByInstallation(ctx, installationID)
}

func (s *installationService) RemoveHoliday(ctx context.Context, installationID int64, date string) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return domain.Validationf("holiday date must be YYYY-MM-DD")
	}
	if err := s.holidays.Remove(ctx, installationID, day); err != nil {
		return err
	}
	recordAudit(ctx, s.audits, installationID, "holiday_removed", map[string]any{"date": date})
	return nil
}

func (s *installationService) RecentAudit(ctx context.Context, installationID int64, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.audits.ListRecent(ctx, installationID, limit)
}

// ownerKindOf maps the upstream account type to the owner kind.
func ownerKindOf(accountType string) domain.OwnerKind {
	if strings.EqualFold(accountType, "User") {
		return domain.OwnerUser
	}
	return domain.OwnerOrganization
}
