package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/autoplan/internal/db"
	"github.com/alexanderramin/autoplan/internal/domain"
)

// SQLiteRiskRepo implements RiskRepo using a SQLite database.
type SQLiteRiskRepo struct {
	db db.DBTX
}

// NewSQLiteRiskRepo creates a new SQLiteRiskRepo.
func NewSQLiteRiskRepo(conn db.DBTX) *SQLiteRiskRepo {
	return &SQLiteRiskRepo{db: conn}
}

const riskColumns = `id, installation_id, project_number, title, description, severity, status,
	owner, linked_issues, mitigation_plan, created_at, updated_at`

func (r *SQLiteRiskRepo) Create(ctx context.Context, e *domain.RiskEntry) error {
	linked, err := marshalJSON(e.LinkedIssues, "[]")
	if err != nil {
		return fmt.Errorf("marshaling linked issues: %w", err)
	}
	query := `INSERT INTO risks (` + riskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		e.ID,
		e.InstallationID,
		e.ProjectNumber,
		e.Title,
		e.Description,
		string(e.Severity),
		string(e.Status),
		e.Owner,
		linked,
		e.MitigationPlan,
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting risk: %w", err)
	}
	return nil
}

func (r *SQLiteRiskRepo) Get(ctx context.Context, id string) (*domain.RiskEntry, error) {
	query := `SELECT ` + riskColumns + ` FROM risks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var e domain.RiskEntry
	var severityStr, statusStr, linkedStr, createdAtStr, updatedAtStr string
	err := row.Scan(
		&e.ID, &e.InstallationID, &e.ProjectNumber, &e.Title, &e.Description,
		&severityStr, &statusStr, &e.Owner, &linkedStr, &e.MitigationPlan,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("risk: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning risk: %w", err)
	}
	return r.populateRisk(&e, severityStr, statusStr, linkedStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteRiskRepo) ListByProject(ctx context.Context, installationID int64, projectNumber int) ([]*domain.RiskEntry, error) {
	query := `SELECT ` + riskColumns + ` FROM risks
		WHERE installation_id = ? AND project_number = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, installationID, projectNumber)
	if err != nil {
		return nil, fmt.Errorf("listing risks: %w", err)
	}
	defer rows.Close()

	var risks []*domain.RiskEntry
	for rows.Next() {
		var e domain.RiskEntry
		var severityStr, statusStr, linkedStr, createdAtStr, updatedAtStr string
		err := rows.Scan(
			&e.ID, &e.InstallationID, &e.ProjectNumber, &e.Title, &e.Description,
			&severityStr, &statusStr, &e.Owner, &linkedStr, &e.MitigationPlan,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning risk row: %w", err)
		}
		populated, parseErr := r.populateRisk(&e, severityStr, statusStr, linkedStr, createdAtStr, updatedAtStr)
		if parseErr != nil {
			return nil, parseErr
		}
		risks = append(risks, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating risks: %w", err)
	}
	return risks, nil
}

func (r *SQLiteRiskRepo) Update(ctx context.Context, e *domain.RiskEntry) error {
	linked, err := marshalJSON(e.LinkedIssues, "[]")
	if err != nil {
		return fmt.Errorf("marshaling linked issues: %w", err)
	}
	query := `UPDATE risks SET title = ?, description = ?, severity = ?, status = ?, owner = ?,
		linked_issues = ?, mitigation_plan = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		e.Title,
		e.Description,
		string(e.Severity),
		string(e.Status),
		e.Owner,
		linked,
		e.MitigationPlan,
		nowUTC(),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating risk: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("risk %s: %w", e.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRiskRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM risks WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting risk: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("risk %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// populateRisk fills in parsed fields after scanning raw strings.
func (r *SQLiteRiskRepo) populateRisk(e *domain.RiskEntry, severityStr, statusStr, linkedStr, createdAtStr, updatedAtStr string) (*domain.RiskEntry, error) {
	e.Severity = domain.RiskLevel(severityStr)
	e.Status = domain.RiskStatus(statusStr)

	if err := unmarshalJSON(linkedStr, &e.LinkedIssues); err != nil {
		return nil, fmt.Errorf("unmarshaling linked issues: %w", err)
	}

	var parseErr error
	e.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	e.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return e, nil
}
