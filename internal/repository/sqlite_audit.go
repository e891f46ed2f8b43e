package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/autoplan/internal/db"
	"github.com/alexanderramin/autoplan/internal/domain"
)

// SQLiteAuditRepo implements AuditRepo using a SQLite database.
type SQLiteAuditRepo struct {
	db db.DBTX
}

// NewSQLiteAuditRepo creates a new SQLiteAuditRepo.
func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

const defaultAuditLimit = 50

func (r *SQLiteAuditRepo) Record(ctx context.Context, e *domain.AuditEntry) error {
	details, err := marshalJSON(e.Details, "{}")
	if err != nil {
		return fmt.Errorf("marshaling audit details: %w", err)
	}
	query := `INSERT INTO audit_log (installation_id, action, details, created_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.InstallationID,
		e.Action,
		details,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading audit entry id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLiteAuditRepo) ListRecent(ctx context.Context, installationID int64, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	query := `SELECT id, installation_id, action, details, created_at FROM audit_log
		WHERE installation_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, installationID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var detailsStr, createdAtStr string
		if err := rows.Scan(&e.ID, &e.InstallationID, &e.Action, &detailsStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning audit row: %w", err)
		}
		if err := unmarshalJSON(detailsStr, &e.Details); err != nil {
			return nil, fmt.Errorf("unmarshaling audit details: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
