package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/autoplan/internal/db"
	"github.com/alexanderramin/autoplan/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, installation_id, owner, repo, project_number, external_id,
	start_field_id, target_field_id, actual_end_field_id, baseline_start_field_id,
	baseline_target_field_id, estimate_field_id, confidence_field_id,
	percent_complete_field_id, status_field_id, created_at, updated_at`

// fieldColumnOrder fixes which FieldIDs entry each field-id column carries.
// Order matches the field-id columns in projectColumns.
var fieldColumnOrder = []domain.FieldName{
	domain.FieldStartDate, domain.FieldTargetDate, domain.FieldActualEndDate,
	domain.FieldBaselineStart, domain.FieldBaselineTarget,
	domain.FieldEstimate, domain.FieldConfidence,
	domain.FieldPercentComplete, domain.FieldStatus,
}

func fieldValues(f domain.FieldIDs) []any {
	out := make([]any, 0, len(fieldColumnOrder))
	for _, name := range fieldColumnOrder {
		out = append(out, f[name])
	}
	return out
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.TrackedProject) error {
	query := `INSERT INTO projects (installation_id, owner, repo, project_number, external_id,
		start_field_id, target_field_id, actual_end_field_id, baseline_start_field_id,
		baseline_target_field_id, estimate_field_id, confidence_field_id,
		percent_complete_field_id, status_field_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{p.InstallationID, p.Owner, p.Repo, p.ProjectNumber, p.ExternalID}
	args = append(args, fieldValues(p.FieldIDs)...)
	args = append(args, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLiteProjectRepo) Get(ctx context.Context, installationID int64, owner string, number int) (*domain.TrackedProject, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE installation_id = ? AND owner = ? AND project_number = ?`
	row := r.db.QueryRowContext(ctx, query, installationID, owner, number)
	return r.scanProject(row)
}

func (r *SQLiteProjectRepo) ListByInstallation(ctx context.Context, installationID int64) ([]*domain.TrackedProject, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE installation_id = ? ORDER BY owner, project_number`
	rows, err := r.db.QueryContext(ctx, query, installationID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()
	return r.scanProjects(rows)
}

func (r *SQLiteProjectRepo) ListAll(ctx context.Context) ([]*domain.TrackedProject, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY installation_id, owner, project_number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing all projects: %w", err)
	}
	defer rows.Close()
	return r.scanProjects(rows)
}

func (r *SQLiteProjectRepo) UpdateFieldIDs(ctx context.Context, id int64, fields domain.FieldIDs) error {
	query := `UPDATE projects SET start_field_id = ?, target_field_id = ?, actual_end_field_id = ?,
		baseline_start_field_id = ?, baseline_target_field_id = ?, estimate_field_id = ?,
		confidence_field_id = ?, percent_complete_field_id = ?, status_field_id = ?, updated_at = ?
		WHERE id = ?`
	args := fieldValues(fields)
	args = append(args, nowUTC(), id)
	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating project field ids: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, installationID int64, owner string, number int) error {
	query := `DELETE FROM projects WHERE installation_id = ? AND owner = ? AND project_number = ?`
	_, err := r.db.ExecContext(ctx, query, installationID, owner, number)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// scanProject scans a single project from a *sql.Row.
func (r *SQLiteProjectRepo) scanProject(row *sql.Row) (*domain.TrackedProject, error) {
	var p domain.TrackedProject
	var ids [9]string
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.InstallationID, &p.Owner, &p.Repo, &p.ProjectNumber, &p.ExternalID,
		&ids[0], &ids[1], &ids[2], &ids[3], &ids[4], &ids[5], &ids[6], &ids[7], &ids[8],
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	return r.populateProject(&p, ids, createdAtStr, updatedAtStr)
}

// scanProjects scans multiple projects from *sql.Rows.
func (r *SQLiteProjectRepo) scanProjects(rows *sql.Rows) ([]*domain.TrackedProject, error) {
	var projects []*domain.TrackedProject
	for rows.Next() {
		var p domain.TrackedProject
		var ids [9]string
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&p.ID, &p.InstallationID, &p.Owner, &p.Repo, &p.ProjectNumber, &p.ExternalID,
			&ids[0], &ids[1], &ids[2], &ids[3], &ids[4], &ids[5], &ids[6], &ids[7], &ids[8],
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}

		populated, parseErr := r.populateProject(&p, ids, createdAtStr, updatedAtStr)
		if parseErr != nil {
			return nil, parseErr
		}
		projects = append(projects, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// populateProject fills in parsed fields after scanning raw strings.
func (r *SQLiteProjectRepo) populateProject(p *domain.TrackedProject, ids [9]string, createdAtStr, updatedAtStr string) (*domain.TrackedProject, error) {
	p.FieldIDs = domain.FieldIDs{}
	for i, name := range fieldColumnOrder {
		if ids[i] != "" {
			p.FieldIDs[name] = ids[i]
		}
	}

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return p, nil
}
