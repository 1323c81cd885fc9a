package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
)

type PgxTaxCodeRepository struct {
	BaseRepository
}

// newPgxTaxCodeRepository creates a new repository for tax code data.
func newPgxTaxCodeRepository(pool *pgxpool.Pool) portsrepo.TaxCodeRepositoryFacade {
	return &PgxTaxCodeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TaxCodeRepositoryFacade = (*PgxTaxCodeRepository)(nil)

const taxCodeColumns = `tax_code_id, organization_id, code, name, tax_type, rate, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanTaxCode(row pgx.Row) (*domain.TaxCode, error) {
	var tc domain.TaxCode
	err := row.Scan(
		&tc.TaxCodeID,
		&tc.OrganizationID,
		&tc.Code,
		&tc.Name,
		&tc.TaxType,
		&tc.Rate,
		&tc.IsActive,
		&tc.CreatedAt,
		&tc.CreatedBy,
		&tc.LastUpdatedAt,
		&tc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan tax code row", err)
	}
	return &tc, nil
}

// FindTaxCodeByID retrieves a tax code scoped to an organization.
func (r *PgxTaxCodeRepository) FindTaxCodeByID(ctx context.Context, organizationID string, taxCodeID string) (*domain.TaxCode, error) {
	query := `SELECT ` + taxCodeColumns + ` FROM tax_codes WHERE organization_id = $1 AND tax_code_id = $2;`
	return scanTaxCode(r.Pool.QueryRow(ctx, query, organizationID, taxCodeID))
}

// FindTaxCodeByCode retrieves a tax code by its short code.
func (r *PgxTaxCodeRepository) FindTaxCodeByCode(ctx context.Context, organizationID string, code string) (*domain.TaxCode, error) {
	query := `SELECT ` + taxCodeColumns + ` FROM tax_codes WHERE organization_id = $1 AND code = $2;`
	return scanTaxCode(r.Pool.QueryRow(ctx, query, organizationID, code))
}

// ListTaxCodes retrieves all tax codes of an organization.
func (r *PgxTaxCodeRepository) ListTaxCodes(ctx context.Context, organizationID string, includeInactive bool) ([]domain.TaxCode, error) {
	query := `SELECT ` + taxCodeColumns + ` FROM tax_codes WHERE organization_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax codes for organization "+organizationID, err)
	}
	defer rows.Close()

	taxCodes := []domain.TaxCode{}
	for rows.Next() {
		var tc domain.TaxCode
		if err := rows.Scan(
			&tc.TaxCodeID,
			&tc.OrganizationID,
			&tc.Code,
			&tc.Name,
			&tc.TaxType,
			&tc.Rate,
			&tc.IsActive,
			&tc.CreatedAt,
			&tc.CreatedBy,
			&tc.LastUpdatedAt,
			&tc.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tax code row", err)
		}
		taxCodes = append(taxCodes, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax code rows", err)
	}
	return taxCodes, nil
}

// SaveTaxCode persists a new tax code.
func (r *PgxTaxCodeRepository) SaveTaxCode(ctx context.Context, taxCode domain.TaxCode) error {
	query := `
		INSERT INTO tax_codes (` + taxCodeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		taxCode.TaxCodeID,
		taxCode.OrganizationID,
		taxCode.Code,
		taxCode.Name,
		taxCode.TaxType,
		taxCode.Rate,
		taxCode.IsActive,
		taxCode.CreatedAt,
		taxCode.CreatedBy,
		taxCode.LastUpdatedAt,
		taxCode.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: tax code %s already exists", apperrors.ErrDuplicate, taxCode.Code)
		}
		return apperrors.NewAppError(500, "failed to insert tax code "+taxCode.TaxCodeID, err)
	}
	return nil
}

// UpdateTaxCode updates an existing tax code's details.
func (r *PgxTaxCodeRepository) UpdateTaxCode(ctx context.Context, taxCode domain.TaxCode) error {
	query := `
		UPDATE tax_codes
		SET code = $3,
		    name = $4,
		    tax_type = $5,
		    rate = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE organization_id = $1 AND tax_code_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		taxCode.OrganizationID,
		taxCode.TaxCodeID,
		taxCode.Code,
		taxCode.Name,
		taxCode.TaxType,
		taxCode.Rate,
		taxCode.LastUpdatedAt,
		taxCode.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: tax code %s already exists", apperrors.ErrDuplicate, taxCode.Code)
		}
		return apperrors.NewAppError(500, "failed to update tax code "+taxCode.TaxCodeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("tax code " + taxCode.TaxCodeID + " not found for update")
	}
	return nil
}

// DeactivateTaxCode marks a tax code as inactive.
func (r *PgxTaxCodeRepository) DeactivateTaxCode(ctx context.Context, organizationID string, taxCodeID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE tax_codes
		SET is_active = FALSE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE organization_id = $1 AND tax_code_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, organizationID, taxCodeID, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate tax code "+taxCodeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("tax code " + taxCodeID + " not found for deactivation")
	}
	return nil
}
