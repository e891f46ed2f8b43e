package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/autoplan/internal/crypt"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *crypt.TokenCipher {
	t.Helper()
	c, err := crypt.New(crypt.DeriveKey("repo-test-secret"))
	require.NoError(t, err)
	return c
}

func TestInstallationRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	ctx := context.Background()

	in := testutil.NewTestInstallation("acme", testutil.WithPlan(domain.PlanPro))
	require.NoError(t, repo.Create(ctx, in))

	fetched, err := repo.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.ID, fetched.ID)
	assert.Equal(t, "acme", fetched.Owner)
	assert.Equal(t, domain.PlanPro, fetched.Plan)
	assert.Equal(t, domain.OwnerOrganization, fetched.OwnerKind)
	assert.Equal(t, in.OAuthToken, fetched.OAuthToken, "token should decrypt to the original")
	assert.Equal(t, 10, fetched.Settings.DurationFor(domain.EstimateM))
}

func TestInstallationRepo_TokenEncryptedAtRest(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	ctx := context.Background()

	in := testutil.NewTestInstallation("acme", testutil.WithOAuthToken("gho_super_secret"))
	require.NoError(t, repo.Create(ctx, in))

	var stored string
	require.NoError(t, database.QueryRow(`SELECT oauth_token FROM installations WHERE id = ?`, in.ID).Scan(&stored))
	assert.NotEqual(t, "gho_super_secret", stored)
	assert.NotContains(t, stored, "gho_super_secret")
	assert.Len(t, strings.Split(stored, ":"), 3, "stored token should be nonce:tag:ciphertext")
}

func TestInstallationRepo_LegacyPlaintextTokenReadable(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	ctx := context.Background()

	// Simulate a row written before encryption was introduced.
	_, err := database.Exec(`INSERT INTO installations (id, owner, oauth_token, created_at, updated_at)
		VALUES (42, 'legacy', 'gho_plain_old_token', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	fetched, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "gho_plain_old_token", fetched.OAuthToken)
}

func TestInstallationRepo_Get_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteInstallationRepo(database, newTestCipher(t))

	_, err := repo.Get(context.Background(), 999999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInstallationRepo_Update(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	ctx := context.Background()

	in := testutil.NewTestInstallation("acme")
	require.NoError(t, repo.Create(ctx, in))

	expires := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	in.Plan = domain.PlanPro
	in.SubStatus = domain.SubActive
	in.SubExpiresAt = &expires
	in.BillingCustomerID = "cus_123"
	in.BillingSubscriptionID = "sub_456"
	require.NoError(t, repo.Update(ctx, in))

	fetched, err := repo.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPro, fetched.Plan)
	assert.Equal(t, domain.SubActive, fetched.SubStatus)
	require.NotNil(t, fetched.SubExpiresAt)
	assert.True(t, expires.Equal(*fetched.SubExpiresAt))
	assert.Equal(t, "cus_123", fetched.BillingCustomerID)
	assert.Equal(t, "sub_456", fetched.BillingSubscriptionID)
}

func TestInstallationRepo_UpdateSettings_WholeObjectReplace(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	ctx := context.Background()

	in := testutil.NewTestInstallation("acme")
	require.NoError(t, repo.Create(ctx, in))

	s := domain.DefaultSettings()
	s.WeekendDays = []int{5, 6}
	s.EstimateDays[domain.EstimateM] = 8
	require.NoError(t, repo.UpdateSettings(ctx, in.ID, s))

	fetched, err := repo.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, fetched.Settings.WeekendDays)
	assert.Equal(t, 8, fetched.Settings.DurationFor(domain.EstimateM))
	// Untouched entries keep their defaults.
	assert.Equal(t, 2, fetched.Settings.DurationFor(domain.EstimateXS))
}

func TestInstallationRepo_UpdateSettings_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteInstallationRepo(database, newTestCipher(t))

	err := repo.UpdateSettings(context.Background(), 123456, domain.DefaultSettings())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInstallationRepo_List(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	ctx := context.Background()

	first := testutil.NewTestInstallation("acme")
	second := testutil.NewTestInstallation("globex")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Less(t, all[0].ID, all[1].ID)
}

func TestInstallationRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	ctx := context.Background()

	in := testutil.NewTestInstallation("acme")
	require.NoError(t, repo.Create(ctx, in))
	require.NoError(t, repo.Delete(ctx, in.ID))

	_, err := repo.Get(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
