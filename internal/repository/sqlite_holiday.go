package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/autoplan/internal/db"
	"github.com/alexanderramin/autoplan/internal/domain"
)

// SQLiteHolidayRepo implements HolidayRepo using a SQLite database.
type SQLiteHolidayRepo struct {
	db db.DBTX
}

// NewSQLiteHolidayRepo creates a new SQLiteHolidayRepo.
func NewSQLiteHolidayRepo(conn db.DBTX) *SQLiteHolidayRepo {
	return &SQLiteHolidayRepo{db: conn}
}

const dateLayout = "2006-01-02"

func (r *SQLiteHolidayRepo) Add(ctx context.Context, h *domain.Holiday) error {
	query := `INSERT INTO holidays (installation_id, date, name, recurring) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		h.InstallationID,
		h.Date.Format(dateLayout),
		h.Name,
		boolToInt(h.Recurring),
	)
	if err != nil {
		return fmt.Errorf("inserting holiday: %w", err)
	}
	return nil
}

func (r *SQLiteHolidayRepo) ListByInstallation(ctx context.Context, installationID int64) ([]domain.Holiday, error) {
	query := `SELECT installation_id, date, name, recurring FROM holidays
		WHERE installation_id = ? ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, installationID)
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}
	defer rows.Close()

	var holidays []domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		var dateStr string
		var recurring int
		if err := rows.Scan(&h.InstallationID, &dateStr, &h.Name, &recurring); err != nil {
			return nil, fmt.Errorf("scanning holiday row: %w", err)
		}
		h.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing holiday date: %w", err)
		}
		h.Recurring = intToBool(recurring)
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holidays: %w", err)
	}
	return holidays, nil
}

func (r *SQLiteHolidayRepo) Remove(ctx context.Context, installationID int64, date time.Time) error {
	query := `DELETE FROM holidays WHERE installation_id = ? AND date = ?`
	res, err := r.db.ExecContext(ctx, query, installationID, date.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("deleting holiday: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("holiday %s: %w", date.Format(dateLayout), domain.ErrNotFound)
	}
	return nil
}
