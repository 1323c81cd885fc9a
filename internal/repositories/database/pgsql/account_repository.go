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
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, organization_id, code, name, account_type, parent_account_id, description, system_tag, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID,
		&a.OrganizationID,
		&a.Code,
		&a.Name,
		&a.AccountType,
		&a.ParentAccountID,
		&a.Description,
		&a.SystemTag,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan account row", err)
	}
	return &a, nil
}

// FindAccountByID retrieves an account scoped to an organization.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, organizationID string, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND account_id = $2;`
	return scanAccount(r.Pool.QueryRow(ctx, query, organizationID, accountID))
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND account_id = ANY($2);`
	rows, err := r.Pool.Query(ctx, query, organizationID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.AccountID,
			&a.OrganizationID,
			&a.Code,
			&a.Name,
			&a.AccountType,
			&a.ParentAccountID,
			&a.Description,
			&a.SystemTag,
			&a.IsActive,
			&a.CreatedAt,
			&a.CreatedBy,
			&a.LastUpdatedAt,
			&a.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts[a.AccountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}

	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// FindAccountByCode retrieves an account by its chart code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, organizationID string, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND code = $2;`
	return scanAccount(r.Pool.QueryRow(ctx, query, organizationID, code))
}

// FindAccountBySystemTag retrieves the account carrying a well-known system tag.
func (r *PgxAccountRepository) FindAccountBySystemTag(ctx context.Context, organizationID string, tag domain.SystemTag) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND system_tag = $2;`
	return scanAccount(r.Pool.QueryRow(ctx, query, organizationID, tag))
}

// ListAccounts retrieves the full chart of accounts for an organization.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for organization "+organizationID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.AccountID,
			&a.OrganizationID,
			&a.Code,
			&a.Name,
			&a.AccountType,
			&a.ParentAccountID,
			&a.Description,
			&a.SystemTag,
			&a.IsActive,
			&a.CreatedAt,
			&a.CreatedBy,
			&a.LastUpdatedAt,
			&a.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// CalculateAccountBalance sums debit minus credit over the account's journal
// lines up to and including asOf.
func (r *PgxAccountRepository) CalculateAccountBalance(ctx context.Context, organizationID string, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(li.debit - li.credit), 0)
		FROM journal_line_items li
		JOIN journal_entries je ON je.entry_id = li.entry_id
		WHERE je.organization_id = $1 AND li.account_id = $2
	`
	args := []interface{}{organizationID, accountID}
	if asOf != nil {
		query += ` AND je.entry_date <= $3`
		args = append(args, *asOf)
	}
	query += `;`

	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to calculate balance for account "+accountID, err)
	}
	return balance, nil
}

// SaveAccount persists a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.OrganizationID,
		account.Code,
		account.Name,
		account.AccountType,
		account.ParentAccountID,
		account.Description,
		account.SystemTag,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
		return apperrors.NewAppError(500, "failed to insert account "+account.AccountID, err)
	}
	return nil
}

// UpdateAccount updates an existing account's details.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET code = $3,
		    name = $4,
		    parent_account_id = $5,
		    description = $6,
		    system_tag = $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE organization_id = $1 AND account_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		account.OrganizationID,
		account.AccountID,
		account.Code,
		account.Name,
		account.ParentAccountID,
		account.Description,
		account.SystemTag,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
		return apperrors.NewAppError(500, "failed to update account "+account.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + account.AccountID + " not found for update")
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, organizationID string, accountID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE organization_id = $1 AND account_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, organizationID, accountID, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate account "+accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found for deactivation")
	}
	return nil
}
