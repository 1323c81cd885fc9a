package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const organizationColumns = `organization_id, name, legal_name, tax_number, base_currency, fiscal_year_start, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var o domain.Organization
	err := row.Scan(
		&o.OrganizationID,
		&o.Name,
		&o.LegalName,
		&o.TaxNumber,
		&o.BaseCurrency,
		&o.FiscalYearStart,
		&o.IsActive,
		&o.CreatedAt,
		&o.CreatedBy,
		&o.LastUpdatedAt,
		&o.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan organization row", err)
	}
	return &o, nil
}

// FindOrganizationByID retrieves an organization by its ID.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE organization_id = $1;`
	return scanOrganization(r.Pool.QueryRow(ctx, query, organizationID))
}

// ListOrganizationsByUserID retrieves all organizations a user is a member of.
func (r *PgxOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	query := `
		SELECT o.organization_id, o.name, o.legal_name, o.tax_number, o.base_currency, o.fiscal_year_start, o.is_active,
		       o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
		FROM organizations o
		JOIN user_organizations uo ON uo.organization_id = o.organization_id
		WHERE uo.user_id = $1 AND o.is_active = TRUE
		ORDER BY o.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organizations for user "+userID, err)
	}
	defer rows.Close()

	orgs := []domain.Organization{}
	for rows.Next() {
		var o domain.Organization
		if err := rows.Scan(
			&o.OrganizationID,
			&o.Name,
			&o.LegalName,
			&o.TaxNumber,
			&o.BaseCurrency,
			&o.FiscalYearStart,
			&o.IsActive,
			&o.CreatedAt,
			&o.CreatedBy,
			&o.LastUpdatedAt,
			&o.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan organization row for user "+userID, err)
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating organization rows for user "+userID, err)
	}
	return orgs, nil
}

// FindMembership retrieves the membership record of a user within an organization.
func (r *PgxOrganizationRepository) FindMembership(ctx context.Context, userID string, organizationID string) (*domain.UserOrganization, error) {
	query := `
		SELECT user_id, organization_id, role, joined_at
		FROM user_organizations
		WHERE user_id = $1 AND organization_id = $2;
	`
	var m domain.UserOrganization
	err := r.Pool.QueryRow(ctx, query, userID, organizationID).Scan(
		&m.UserID,
		&m.OrganizationID,
		&m.Role,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership for user "+userID, err)
	}
	return &m, nil
}

// ListMembers retrieves all memberships of an organization.
func (r *PgxOrganizationRepository) ListMembers(ctx context.Context, organizationID string) ([]domain.UserOrganization, error) {
	query := `
		SELECT user_id, organization_id, role, joined_at
		FROM user_organizations
		WHERE organization_id = $1
		ORDER BY joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query members of organization "+organizationID, err)
	}
	defer rows.Close()

	members := []domain.UserOrganization{}
	for rows.Next() {
		var m domain.UserOrganization
		if err := rows.Scan(&m.UserID, &m.OrganizationID, &m.Role, &m.JoinedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating membership rows", err)
	}
	return members, nil
}

// SaveOrganization persists a new organization.
func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	query := `
		INSERT INTO organizations (` + organizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		org.OrganizationID,
		org.Name,
		org.LegalName,
		org.TaxNumber,
		org.BaseCurrency,
		org.FiscalYearStart,
		org.IsActive,
		org.CreatedAt,
		org.CreatedBy,
		org.LastUpdatedAt,
		org.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: organization %s already exists", apperrors.ErrDuplicate, org.OrganizationID)
		}
		return apperrors.NewAppError(500, "failed to insert organization "+org.OrganizationID, err)
	}
	return nil
}

// UpdateOrganization updates an existing organization's details.
func (r *PgxOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2,
		    legal_name = $3,
		    tax_number = $4,
		    base_currency = $5,
		    fiscal_year_start = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE organization_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		org.OrganizationID,
		org.Name,
		org.LegalName,
		org.TaxNumber,
		org.BaseCurrency,
		org.FiscalYearStart,
		org.LastUpdatedAt,
		org.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update organization "+org.OrganizationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("organization " + org.OrganizationID + " not found for update")
	}
	return nil
}

// AddMember adds a user to an organization with a role.
func (r *PgxOrganizationRepository) AddMember(ctx context.Context, membership domain.UserOrganization) error {
	query := `
		INSERT INTO user_organizations (user_id, organization_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.OrganizationID,
		membership.Role,
		membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: user %s is already a member", apperrors.ErrDuplicate, membership.UserID)
		}
		return apperrors.NewAppError(500, "failed to add member "+membership.UserID, err)
	}
	return nil
}
