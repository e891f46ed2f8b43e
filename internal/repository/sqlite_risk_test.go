package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	instRepo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	repo := NewSQLiteRiskRepo(database)
	ctx := context.Background()

	in := createInstallation(t, instRepo)
	risk := testutil.NewTestRisk(in.ID, 7, "Vendor API deprecation",
		testutil.WithSeverity(domain.RiskHigh),
		testutil.WithLinkedIssues(12, 15),
	)
	risk.MitigationPlan = "Pin client to v2 until migration lands"
	require.NoError(t, repo.Create(ctx, risk))

	fetched, err := repo.Get(ctx, risk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vendor API deprecation", fetched.Title)
	assert.Equal(t, domain.RiskHigh, fetched.Severity)
	assert.Equal(t, domain.RiskOpen, fetched.Status)
	assert.Equal(t, []int{12, 15}, fetched.LinkedIssues)
	assert.Equal(t, "Pin client to v2 until migration lands", fetched.MitigationPlan)
}

func TestRiskRepo_Get_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteRiskRepo(database)

	_, err := repo.Get(context.Background(), "missing-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRiskRepo_ListByProject_Filters(t *testing.T) {
	database := testutil.NewTestDB(t)
	instRepo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	repo := NewSQLiteRiskRepo(database)
	ctx := context.Background()

	in := createInstallation(t, instRepo)
	require.NoError(t, repo.Create(ctx, testutil.NewTestRisk(in.ID, 7, "In project 7")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestRisk(in.ID, 7, "Also project 7")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestRisk(in.ID, 8, "Project 8")))

	risks, err := repo.ListByProject(ctx, in.ID, 7)
	require.NoError(t, err)
	assert.Len(t, risks, 2)
	for _, r := range risks {
		assert.Equal(t, 7, r.ProjectNumber)
	}
}

func TestRiskRepo_Update(t *testing.T) {
	database := testutil.NewTestDB(t)
	instRepo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	repo := NewSQLiteRiskRepo(database)
	ctx := context.Background()

	in := createInstallation(t, instRepo)
	risk := testutil.NewTestRisk(in.ID, 7, "Initial")
	require.NoError(t, repo.Create(ctx, risk))

	risk.Title = "Updated"
	risk.Severity = domain.RiskCritical
	risk.Status = domain.RiskMitigated
	require.NoError(t, repo.Update(ctx, risk))

	fetched, err := repo.Get(ctx, risk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", fetched.Title)
	assert.Equal(t, domain.RiskCritical, fetched.Severity)
	assert.Equal(t, domain.RiskMitigated, fetched.Status)
}

func TestRiskRepo_Update_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteRiskRepo(database)

	risk := testutil.NewTestRisk(1, 7, "Ghost")
	err := repo.Update(context.Background(), risk)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRiskRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	instRepo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	repo := NewSQLiteRiskRepo(database)
	ctx := context.Background()

	in := createInstallation(t, instRepo)
	risk := testutil.NewTestRisk(in.ID, 7, "Short lived")
	require.NoError(t, repo.Create(ctx, risk))
	require.NoError(t, repo.Delete(ctx, risk.ID))

	_, err := repo.Get(ctx, risk.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete(ctx, risk.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
