package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskRegister_CRUD(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	inst := testutil.NewTestInstallation("acme")
	require.NoError(t, env.installations.Create(ctx, inst))

	svc := NewRiskRegisterService(env.risks, env.audits)

	created, err := svc.Create(ctx, &domain.RiskEntry{
		InstallationID: inst.ID,
		ProjectNumber:  1,
		Title:          "Vendor API deprecation",
		Severity:       domain.RiskHigh,
		LinkedIssues:   []int{12, 14},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.RiskOpen, created.Status, "status defaults to open")

	listed, err := svc.List(ctx, inst.ID, 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	created.Status = domain.RiskMitigated
	created.MitigationPlan = "pin to v2 until migration lands"
	updated, err := svc.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskMitigated, updated.Status)

	require.NoError(t, svc.Delete(ctx, inst.ID, created.ID))
	listed, err = svc.List(ctx, inst.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestRiskRegister_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	inst := testutil.NewTestInstallation("acme")
	require.NoError(t, env.installations.Create(ctx, inst))

	svc := NewRiskRegisterService(env.risks, env.audits)

	var valErr *domain.ValidationError
	_, err := svc.Create(ctx, &domain.RiskEntry{InstallationID: inst.ID, Severity: domain.RiskLow})
	assert.ErrorAs(t, err, &valErr, "missing title")

	_, err = svc.Create(ctx, &domain.RiskEntry{InstallationID: inst.ID, Title: "x", Severity: "catastrophic"})
	assert.ErrorAs(t, err, &valErr, "unknown severity")
}

func TestRiskRegister_CrossInstallationIsolation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	acme := testutil.NewTestInstallation("acme")
	globex := testutil.NewTestInstallation("globex")
	require.NoError(t, env.installations.Create(ctx, acme))
	require.NoError(t, env.installations.Create(ctx, globex))

	svc := NewRiskRegisterService(env.risks, env.audits)
	created, err := svc.Create(ctx, &domain.RiskEntry{
		InstallationID: acme.ID,
		ProjectNumber:  1,
		Title:          "Scope creep",
		Severity:       domain.RiskMedium,
	})
	require.NoError(t, err)

	// Another tenant can neither update nor delete the entry.
	foreign := *created
	foreign.InstallationID = globex.ID
	_, err = svc.Update(ctx, &foreign)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, globex.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
