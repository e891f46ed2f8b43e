package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/autoplan/internal/crypt"
	"github.com/alexanderramin/autoplan/internal/db"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/repository"
	"github.com/alexanderramin/autoplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv bundles the repositories over one in-memory database.
type testEnv struct {
	db            *sql.DB
	installations repository.InstallationRepo
	projects      repository.ProjectRepo
	holidays      repository.HolidayRepo
	audits        repository.AuditRepo
	risks         repository.RiskRepo
	uow           db.UnitOfWork
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	cipher, err := crypt.New(crypt.DeriveKey("service-test-secret"))
	require.NoError(t, err)
	return &testEnv{
		db:            database,
		installations: repository.NewSQLiteInstallationRepo(database, cipher),
		projects:      repository.NewSQLiteProjectRepo(database),
		holidays:      repository.NewSQLiteHolidayRepo(database),
		audits:        repository.NewSQLiteAuditRepo(database),
		risks:         repository.NewSQLiteRiskRepo(database),
		uow:           db.NewSQLiteUnitOfWork(database),
	}
}

// seedProject stores an installation and one tracked project with the
// fake tracker's field ids pre-resolved.
func (e *testEnv) seedProject(t *testing.T, inst *domain.Installation, fake *testutil.FakeTracker, number int) *domain.TrackedProject {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.installations.Create(ctx, inst))
	proj := testutil.NewTestProject(inst.ID, inst.Owner, number,
		testutil.WithResolvedFields(),
		testutil.WithExternalID(fake.ProjectID),
	)
	require.NoError(t, e.projects.Create(ctx, proj))
	return proj
}

// fixedClock pins "today" for deterministic date math.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
