package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/testutil"
	"github.com/alexanderramin/autoplan/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installationEvent(action string, id int64, login, accountType string) *webhook.InstallationEvent {
	var ev webhook.InstallationEvent
	ev.Action = action
	ev.Installation.ID = id
	ev.Installation.Account.Login = login
	ev.Installation.Account.Type = accountType
	return &ev
}

func billingEvent(t *testing.T, eventType string, object any) *webhook.BillingEvent {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	ev := &webhook.BillingEvent{Type: eventType}
	ev.Data.Object = raw
	return ev
}

func TestInstallationLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewInstallationService(env.installations, env.holidays, env.audits)

	require.NoError(t, svc.HandleInstallationEvent(ctx, installationEvent("created", 42, "acme", "Organization")))

	inst, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "acme", inst.Owner)
	assert.Equal(t, domain.OwnerOrganization, inst.OwnerKind)
	assert.Equal(t, domain.PlanFree, inst.Plan)
	assert.NotEmpty(t, inst.Settings.EstimateDays, "defaults applied on creation")

	require.NoError(t, svc.HandleInstallationEvent(ctx, installationEvent("suspend", 42, "acme", "Organization")))
	inst, err = svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.True(t, inst.Suspended())
	assert.Equal(t, domain.PlanFree, inst.Plan, "suspension never changes the plan")

	require.NoError(t, svc.HandleInstallationEvent(ctx, installationEvent("unsuspend", 42, "acme", "Organization")))
	inst, err = svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, inst.Suspended())

	require.NoError(t, svc.HandleInstallationEvent(ctx, installationEvent("deleted", 42, "acme", "Organization")))
	_, err = svc.Get(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInstallationEvent_UserAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewInstallationService(env.installations, env.holidays, env.audits)

	require.NoError(t, svc.HandleInstallationEvent(ctx, installationEvent("created", 7, "ada", "User")))
	inst, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.OwnerUser, inst.OwnerKind)
}

func TestBilling_CheckoutUpgradesToPro(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewInstallationService(env.installations, env.holidays, env.audits)

	inst := testutil.NewTestInstallation("acme")
	require.NoError(t, env.installations.Create(ctx, inst))

	ev := billingEvent(t, webhook.BillingCheckoutCompleted, webhook.CheckoutSession{
		Customer:          "cus_123",
		Subscription:      "sub_456",
		ClientReferenceID: fmt.Sprintf("%d", inst.ID),
	})
	require.NoError(t, svc.HandleBillingEvent(ctx, ev))

	updated, err := svc.Get(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPro, updated.Plan)
	assert.Equal(t, domain.SubActive, updated.SubStatus)
	assert.Equal(t, "cus_123", updated.BillingCustomerID)
	assert.Equal(t, "sub_456", updated.BillingSubscriptionID)
}

func TestBilling_SubscriptionTransitions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		eventType  string
		status     string
		wantPlan   domain.PlanTier
		wantStatus domain.SubscriptionStatus
	}{
		{"active keeps pro", webhook.BillingSubscriptionUpdated, "active", domain.PlanPro, domain.SubActive},
		{"trialing keeps pro", webhook.BillingSubscriptionUpdated, "trialing", domain.PlanPro, domain.SubTrialing},
		{"past_due downgrades", webhook.BillingSubscriptionUpdated, "past_due", domain.PlanFree, domain.SubCanceled},
		{"deleted downgrades", webhook.BillingSubscriptionDeleted, "canceled", domain.PlanFree, domain.SubCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			svc := NewInstallationService(env.installations, env.holidays, env.audits)

			inst := testutil.NewTestInstallation("acme", testutil.WithPlan(domain.PlanPro))
			inst.BillingCustomerID = "cus_123"
			require.NoError(t, env.installations.Create(ctx, inst))

			ev := billingEvent(t, tt.eventType, webhook.Subscription{
				ID:       "sub_456",
				Customer: "cus_123",
				Status:   tt.status,
			})
			require.NoError(t, svc.HandleBillingEvent(ctx, ev))

			updated, err := svc.Get(ctx, inst.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPlan, updated.Plan)
			assert.Equal(t, tt.wantStatus, updated.SubStatus)
		})
	}
}

func TestBilling_UnknownCustomerIsDropped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewInstallationService(env.installations, env.holidays, env.audits)

	ev := billingEvent(t, webhook.BillingSubscriptionUpdated, webhook.Subscription{
		Customer: "cus_ghost",
		Status:   "active",
	})
	assert.NoError(t, svc.HandleBillingEvent(ctx, ev))
}

func TestUpdateSettings_ValidatesAndNormalizes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewInstallationService(env.installations, env.holidays, env.audits)

	inst := testutil.NewTestInstallation("acme")
	require.NoError(t, env.installations.Create(ctx, inst))

	var valErr *domain.ValidationError
	err := svc.UpdateSettings(ctx, inst.ID, domain.Settings{WeekendDays: []int{9}})
	assert.ErrorAs(t, err, &valErr)

	// A sparse object is filled to a complete table before storage.
	require.NoError(t, svc.UpdateSettings(ctx, inst.ID, domain.Settings{
		WeekendDays:  []int{5, 6},
		EstimateDays: map[domain.Estimate]int{domain.EstimateS: 3},
	}))

	settings, err := svc.Settings(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, settings.WeekendDays)
	assert.Equal(t, 3, settings.EstimateDays[domain.EstimateS])
	assert.Equal(t, 10, settings.EstimateDays[domain.EstimateM], "absent keys defaulted")
}

func TestHolidays_ProGated(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewInstallationService(env.installations, env.holidays, env.audits)

	free := testutil.NewTestInstallation("acme")
	require.NoError(t, env.installations.Create(ctx, free))

	var gateErr *domain.PlanGateError
	err := svc.AddHoliday(ctx, &domain.Holiday{
		InstallationID: free.ID,
		Date:           testutil.Date(2024, 12, 25),
		Name:           "Christmas",
	})
	assert.ErrorAs(t, err, &gateErr)

	pro := testutil.NewTestInstallation("globex", testutil.WithPlan(domain.PlanPro))
	require.NoError(t, env.installations.Create(ctx, pro))

	require.NoError(t, svc.AddHoliday(ctx, &domain.Holiday{
		InstallationID: pro.ID,
		Date:           testutil.Date(2024, 12, 25),
		Name:           "Christmas",
		Recurring:      true,
	}))

	holidays, err := svc.ListHolidays(ctx, pro.ID)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.True(t, holidays[0].Recurring)

	err = svc.RemoveHoliday(ctx, pro.ID, "not-a-date")
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)

	require.NoError(t, svc.RemoveHoliday(ctx, pro.ID, "2024-12-25"))
	holidays, err = svc.ListHolidays(ctx, pro.ID)
	require.NoError(t, err)
	assert.Empty(t, holidays)
}
