package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayRepo_AddAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	instRepo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	repo := NewSQLiteHolidayRepo(database)
	ctx := context.Background()

	in := createInstallation(t, instRepo)
	require.NoError(t, repo.Add(ctx, &domain.Holiday{
		InstallationID: in.ID,
		Date:           testutil.Date(2025, time.December, 25),
		Name:           "Christmas",
		Recurring:      true,
	}))
	require.NoError(t, repo.Add(ctx, &domain.Holiday{
		InstallationID: in.ID,
		Date:           testutil.Date(2025, time.July, 4),
		Name:           "Independence Day",
	}))

	holidays, err := repo.ListByInstallation(ctx, in.ID)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	// Ordered by date.
	assert.Equal(t, "Independence Day", holidays[0].Name)
	assert.False(t, holidays[0].Recurring)
	assert.Equal(t, "Christmas", holidays[1].Name)
	assert.True(t, holidays[1].Recurring)
	assert.True(t, holidays[1].Date.Equal(testutil.Date(2025, time.December, 25)))
}

func TestHolidayRepo_DuplicateDateRejected(t *testing.T) {
	database := testutil.NewTestDB(t)
	instRepo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	repo := NewSQLiteHolidayRepo(database)
	ctx := context.Background()

	in := createInstallation(t, instRepo)
	date := testutil.Date(2025, time.December, 25)
	require.NoError(t, repo.Add(ctx, &domain.Holiday{InstallationID: in.ID, Date: date, Name: "Christmas"}))

	err := repo.Add(ctx, &domain.Holiday{InstallationID: in.ID, Date: date, Name: "Dup"})
	assert.Error(t, err, "second holiday on the same date should violate unique constraint")
}

func TestHolidayRepo_Remove(t *testing.T) {
	database := testutil.NewTestDB(t)
	instRepo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	repo := NewSQLiteHolidayRepo(database)
	ctx := context.Background()

	in := createInstallation(t, instRepo)
	date := testutil.Date(2025, time.December, 25)
	require.NoError(t, repo.Add(ctx, &domain.Holiday{InstallationID: in.ID, Date: date, Name: "Christmas"}))

	require.NoError(t, repo.Remove(ctx, in.ID, date))

	holidays, err := repo.ListByInstallation(ctx, in.ID)
	require.NoError(t, err)
	assert.Empty(t, holidays)
}

func TestHolidayRepo_Remove_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	instRepo := NewSQLiteInstallationRepo(database, newTestCipher(t))
	repo := NewSQLiteHolidayRepo(database)
	ctx := context.Background()

	in := createInstallation(t, instRepo)
	err := repo.Remove(ctx, in.ID, testutil.Date(2025, time.January, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
