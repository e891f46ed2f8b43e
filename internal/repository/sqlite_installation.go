package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/autoplan/internal/crypt"
	"github.com/alexanderramin/autoplan/internal/db"
	"github.com/alexanderramin/autoplan/internal/domain"
)

// SQLiteInstallationRepo implements InstallationRepo using a SQLite database.
// OAuth tokens are encrypted before they touch the database and decrypted on
// the way out; callers only ever see plaintext.
type SQLiteInstallationRepo struct {
	db     db.DBTX
	cipher *crypt.TokenCipher
}

// NewSQLiteInstallationRepo creates a new SQLiteInstallationRepo.
func NewSQLiteInstallationRepo(conn db.DBTX, cipher *crypt.TokenCipher) *SQLiteInstallationRepo {
	return &SQLiteInstallationRepo{db: conn, cipher: cipher}
}

const installationColumns = `id, owner, owner_kind, plan, subscription_status, subscription_expires_at,
	billing_customer_id, billing_subscription_id, oauth_token, settings, created_at, updated_at`

func (r *SQLiteInstallationRepo) Create(ctx context.Context, in *domain.Installation) error {
	token, err := r.cipher.Encrypt(in.OAuthToken)
	if err != nil {
		return fmt.Errorf("encrypting oauth token: %w", err)
	}
	settings, err := marshalJSON(in.Settings, "{}")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	query := `INSERT INTO installations (` + installationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		in.ID,
		in.Owner,
		string(in.OwnerKind),
		string(in.Plan),
		string(in.SubStatus),
		nullableTimeToString(in.SubExpiresAt, time.RFC3339),
		in.BillingCustomerID,
		in.BillingSubscriptionID,
		token,
		settings,
		in.CreatedAt.Format(time.RFC3339),
		in.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting installation: %w", err)
	}
	return nil
}

func (r *SQLiteInstallationRepo) Get(ctx context.Context, id int64) (*domain.Installation, error) {
	query := `SELECT ` + installationColumns + ` FROM installations WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanInstallation(row)
}

func (r *SQLiteInstallationRepo) List(ctx context.Context) ([]*domain.Installation, error) {
	query := `SELECT ` + installationColumns + ` FROM installations ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing installations: %w", err)
	}
	defer rows.Close()
	return r.scanInstallations(rows)
}

func (r *SQLiteInstallationRepo) Update(ctx context.Context, in *domain.Installation) error {
	token, err := r.cipher.Encrypt(in.OAuthToken)
	if err != nil {
		return fmt.Errorf("encrypting oauth token: %w", err)
	}
	settings, err := marshalJSON(in.Settings, "{}")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	query := `UPDATE installations SET owner = ?, owner_kind = ?, plan = ?, subscription_status = ?,
		subscription_expires_at = ?, billing_customer_id = ?, billing_subscription_id = ?,
		oauth_token = ?, settings = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		in.Owner,
		string(in.OwnerKind),
		string(in.Plan),
		string(in.SubStatus),
		nullableTimeToString(in.SubExpiresAt, time.RFC3339),
		in.BillingCustomerID,
		in.BillingSubscriptionID,
		token,
		settings,
		nowUTC(),
		in.ID,
	)
	if err != nil {
		return fmt.Errorf("updating installation: %w", err)
	}
	return nil
}

func (r *SQLiteInstallationRepo) UpdateSettings(ctx context.Context, id int64, s domain.Settings) error {
	settings, err := marshalJSON(s, "{}")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	query := `UPDATE installations SET settings = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, settings, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating settings: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("installation %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLiteInstallationRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM installations WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting installation: %w", err)
	}
	return nil
}

// scanInstallation scans a single installation from a *sql.Row.
func (r *SQLiteInstallationRepo) scanInstallation(row *sql.Row) (*domain.Installation, error) {
	var in domain.Installation
	var ownerKindStr, planStr, subStatusStr, tokenStr, settingsStr string
	var createdAtStr, updatedAtStr string
	var expiresStr sql.NullString

	err := row.Scan(
		&in.ID, &in.Owner, &ownerKindStr, &planStr, &subStatusStr, &expiresStr,
		&in.BillingCustomerID, &in.BillingSubscriptionID, &tokenStr, &settingsStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("installation: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning installation: %w", err)
	}

	return r.populateInstallation(&in, ownerKindStr, planStr, subStatusStr, tokenStr, settingsStr, expiresStr, createdAtStr, updatedAtStr)
}

// scanInstallations scans multiple installations from *sql.Rows.
func (r *SQLiteInstallationRepo) scanInstallations(rows *sql.Rows) ([]*domain.Installation, error) {
	var installations []*domain.Installation
	for rows.Next() {
		var in domain.Installation
		var ownerKindStr, planStr, subStatusStr, tokenStr, settingsStr string
		var createdAtStr, updatedAtStr string
		var expiresStr sql.NullString

		err := rows.Scan(
			&in.ID, &in.Owner, &ownerKindStr, &planStr, &subStatusStr, &expiresStr,
			&in.BillingCustomerID, &in.BillingSubscriptionID, &tokenStr, &settingsStr,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning installation row: %w", err)
		}

		populated, parseErr := r.populateInstallation(&in, ownerKindStr, planStr, subStatusStr, tokenStr, settingsStr, expiresStr, createdAtStr, updatedAtStr)
		if parseErr != nil {
			return nil, parseErr
		}
		installations = append(installations, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating installations: %w", err)
	}
	return installations, nil
}

// populateInstallation fills in parsed fields after scanning raw strings.
func (r *SQLiteInstallationRepo) populateInstallation(in *domain.Installation, ownerKindStr, planStr, subStatusStr, tokenStr, settingsStr string, expiresStr sql.NullString, createdAtStr, updatedAtStr string) (*domain.Installation, error) {
	in.OwnerKind = domain.OwnerKind(ownerKindStr)
	in.Plan = domain.PlanTier(planStr)
	in.SubStatus = domain.SubscriptionStatus(subStatusStr)
	in.OAuthToken = r.cipher.Decrypt(tokenStr)
	in.SubExpiresAt = parseNullableTime(expiresStr, time.RFC3339)

	if err := unmarshalJSON(settingsStr, &in.Settings); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	in.Settings.Normalize()

	var parseErr error
	in.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	in.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return in, nil
}
