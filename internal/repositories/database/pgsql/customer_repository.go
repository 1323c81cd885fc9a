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

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer data.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

const customerColumns = `customer_id, organization_id, display_name, company_name, email, phone, tax_number, currency, address_line1, address_line2, city, state, postcode, country, opening_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCustomerRow(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.CustomerID,
		&c.OrganizationID,
		&c.DisplayName,
		&c.CompanyName,
		&c.Email,
		&c.Phone,
		&c.TaxNumber,
		&c.Currency,
		&c.AddressLine1,
		&c.AddressLine2,
		&c.City,
		&c.State,
		&c.Postcode,
		&c.Country,
		&c.OpeningBalance,
		&c.IsActive,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan customer row", err)
	}
	return &c, nil
}

// FindCustomerByID retrieves a customer scoped to an organization.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, organizationID string, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE organization_id = $1 AND customer_id = $2;`
	return scanCustomerRow(r.Pool.QueryRow(ctx, query, organizationID, customerID))
}

// ListCustomers retrieves a paginated list of customers using token-based pagination.
// Ordering is by display name with customer ID as a tie-breaker.
func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, organizationID string, search string, limit int, nextToken *string) ([]domain.Customer, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + customerColumns + ` FROM customers WHERE organization_id = $1 AND is_active = TRUE`
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
		query += ` AND (display_name, customer_id) > ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY display_name, customer_id LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query customers for organization "+organizationID, err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, fetchLimit)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(
			&c.CustomerID,
			&c.OrganizationID,
			&c.DisplayName,
			&c.CompanyName,
			&c.Email,
			&c.Phone,
			&c.TaxNumber,
			&c.Currency,
			&c.AddressLine1,
			&c.AddressLine2,
			&c.City,
			&c.State,
			&c.Postcode,
			&c.Country,
			&c.OpeningBalance,
			&c.IsActive,
			&c.CreatedAt,
			&c.CreatedBy,
			&c.LastUpdatedAt,
			&c.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan customer row", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating customer rows", err)
	}

	var nextTokenVal *string
	if len(customers) > limit {
		last := customers[limit-1]
		token := pagination.EncodeMultiFieldToken(last.DisplayName, last.CustomerID)
		nextTokenVal = &token
		customers = customers[:limit]
	}
	return customers, nextTokenVal, nil
}

// SaveCustomer persists a new customer.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		customer.CustomerID,
		customer.OrganizationID,
		customer.DisplayName,
		customer.CompanyName,
		customer.Email,
		customer.Phone,
		customer.TaxNumber,
		customer.Currency,
		customer.AddressLine1,
		customer.AddressLine2,
		customer.City,
		customer.State,
		customer.Postcode,
		customer.Country,
		customer.OpeningBalance,
		customer.IsActive,
		customer.CreatedAt,
		customer.CreatedBy,
		customer.LastUpdatedAt,
		customer.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: customer %s already exists", apperrors.ErrDuplicate, customer.CustomerID)
		}
		return apperrors.NewAppError(500, "failed to insert customer "+customer.CustomerID, err)
	}
	return nil
}

// UpdateCustomer updates an existing customer's details.
func (r *PgxCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		UPDATE customers
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
		WHERE organization_id = $1 AND customer_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		customer.OrganizationID,
		customer.CustomerID,
		customer.DisplayName,
		customer.CompanyName,
		customer.Email,
		customer.Phone,
		customer.TaxNumber,
		customer.Currency,
		customer.AddressLine1,
		customer.AddressLine2,
		customer.City,
		customer.State,
		customer.Postcode,
		customer.Country,
		customer.OpeningBalance,
		customer.LastUpdatedAt,
		customer.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update customer "+customer.CustomerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("customer " + customer.CustomerID + " not found for update")
	}
	return nil
}

// DeactivateCustomer marks a customer as inactive.
func (r *PgxCustomerRepository) DeactivateCustomer(ctx context.Context, organizationID string, customerID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE customers
		SET is_active = FALSE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE organization_id = $1 AND customer_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, organizationID, customerID, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate customer "+customerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("customer " + customerID + " not found for deactivation")
	}
	return nil
}
