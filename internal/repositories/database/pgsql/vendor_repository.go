package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	"github.com/quollbooks/quollbooks/internal/utils/pagination"
)

type PgxVendorRepository struct {
	BaseRepository
}

// newPgxVendorRepository creates a new repository for vendor data.
func newPgxVendorRepository(pool *pgxpool.Pool) portsrepo.VendorRepositoryFacade {
	return &PgxVendorRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.VendorRepositoryFacade = (*PgxVendorRepository)(nil)

const vendorColumns = `vendor_id, organization_id, display_name, company_name, email, phone, tax_number, currency, address_line1, address_line2, city, state, postcode, country, opening_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

// FindVendorByID retrieves a vendor scoped to an organization.
func (r *PgxVendorRepository) FindVendorByID(ctx context.Context, organizationID string, vendorID string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE organization_id = $1 AND vendor_id = $2;`
	var v domain.Vendor
	err := r.Pool.QueryRow(ctx, query, organizationID, vendorID).Scan(
		&v.VendorID,
		&v.OrganizationID,
		&v.DisplayName,
		&v.CompanyName,
		&v.Email,
		&v.Phone,
		&v.TaxNumber,
		&v.Currency,
		&v.AddressLine1,
		&v.AddressLine2,
		&v.City,
		&v.State,
		&v.Postcode,
		&v.Country,
		&v.OpeningBalance,
		&v.IsActive,
		&v.CreatedAt,
		&v.CreatedBy,
		&v.LastUpdatedAt,
		&v.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find vendor "+vendorID, err)
	}
	return &v, nil
}

// ListVendors retrieves a paginated list of vendors using token-based pagination.
// Ordering is by display name with vendor ID as a tie-breaker.
func (r *PgxVendorRepository) ListVendors(ctx context.Context, organizationID string, search string, limit int, nextToken *string) ([]domain.Vendor, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE organization_id = $1 AND is_active = TRUE`
	args := []interface{}{organizationID}

	if search != "" {
		args = append(args, "%"+search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (display_name ILIKE $` + n + ` OR company_name ILIKE $` + n + ` OR email ILIKE $` + n + `)`
	}

	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, fields[0], fields[1])
		query += ` AND (display_name, vendor_id) > ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY display_name, vendor_id LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query vendors for organization "+organizationID, err)
	}
	defer rows.Close()

	vendors := make([]domain.Vendor, 0, fetchLimit)
	for rows.Next() {
		var v domain.Vendor
		if err := rows.Scan(
			&v.VendorID,
			&v.OrganizationID,
			&v.DisplayName,
			&v.CompanyName,
			&v.Email,
			&v.Phone,
			&v.TaxNumber,
			&v.Currency,
			&v.AddressLine1,
			&v.AddressLine2,
			&v.City,
			&v.State,
			&v.Postcode,
			&v.Country,
			&v.OpeningBalance,
			&v.IsActive,
			&v.CreatedAt,
			&v.CreatedBy,
			&v.LastUpdatedAt,
			&v.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan vendor row", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating vendor rows", err)
	}

	var nextTokenVal *string
	if len(vendors) > limit {
		last := vendors[limit-1]
		token := pagination.EncodeMultiFieldToken(last.DisplayName, last.VendorID)
		nextTokenVal = &token
		vendors = vendors[:limit]
	}
	return vendors, nextTokenVal, nil
}

// SaveVendor persists a new vendor.
func (r *PgxVendorRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	query := `
		INSERT INTO vendors (` + vendorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		vendor.VendorID,
		vendor.OrganizationID,
		vendor.DisplayName,
		vendor.CompanyName,
		vendor.Email,
		vendor.Phone,
		vendor.TaxNumber,
		vendor.Currency,
		vendor.AddressLine1,
		vendor.AddressLine2,
		vendor.City,
		vendor.State,
		vendor.Postcode,
		vendor.Country,
		vendor.OpeningBalance,
		vendor.IsActive,
		vendor.CreatedAt,
		vendor.CreatedBy,
		vendor.LastUpdatedAt,
		vendor.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: vendor %s already exists", apperrors.ErrDuplicate, vendor.VendorID)
		}
		return apperrors.NewAppError(500, "failed to insert vendor "+vendor.VendorID, err)
	}
	return nil
}

// UpdateVendor updates an existing vendor's details.
func (r *PgxVendorRepository) UpdateVendor(ctx context.Context, vendor domain.Vendor) error {
	query := `
		UPDATE vendors
		SET display_name = $3,
		    company_name = $4,
		    email = $5,
		    phone = $6,
		    tax_number = $7,
		    currency = $8,
		    address_line1 = $9,
		    address_line2 = $10,
		    city = $11,
		    state = $12,
		    postcode = $13,
		    country = $14,
		    opening_balance = $15,
		    last_updated_at = $16,
		    last_updated_by = $17
		WHERE organization_id = $1 AND vendor_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		vendor.OrganizationID,
		vendor.VendorID,
		vendor.DisplayName,
		vendor.CompanyName,
		vendor.Email,
		vendor.Phone,
		vendor.TaxNumber,
		vendor.Currency,
		vendor.AddressLine1,
		vendor.AddressLine2,
		vendor.City,
		vendor.State,
		vendor.Postcode,
		vendor.Country,
		vendor.OpeningBalance,
		vendor.LastUpdatedAt,
		vendor.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update vendor "+vendor.VendorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("vendor " + vendor.VendorID + " not found for update")
	}
	return nil
}

// DeactivateVendor marks a vendor as inactive.
func (r *PgxVendorRepository) DeactivateVendor(ctx context.Context, organizationID string, vendorID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE vendors
		SET is_active = FALSE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE organization_id = $1 AND vendor_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, organizationID, vendorID, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate vendor "+vendorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("vendor " + vendorID + " not found for deactivation")
	}
	return nil
}
