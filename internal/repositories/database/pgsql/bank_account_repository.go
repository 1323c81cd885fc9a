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

type PgxBankAccountRepository struct {
	BaseRepository
}

// newPgxBankAccountRepository creates a new repository for bank account data.
func newPgxBankAccountRepository(pool *pgxpool.Pool) portsrepo.BankAccountRepositoryFacade {
	return &PgxBankAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BankAccountRepositoryFacade = (*PgxBankAccountRepository)(nil)

const bankAccountColumns = `bank_account_id, organization_id, account_id, name, bank_name, account_number, bsb, currency, feeds_paused, is_active, created_at, created_by, last_updated_at, last_updated_by`

// FindBankAccountByID retrieves a bank account scoped to an organization.
func (r *PgxBankAccountRepository) FindBankAccountByID(ctx context.Context, organizationID string, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE organization_id = $1 AND bank_account_id = $2;`
	var b domain.BankAccount
	err := r.Pool.QueryRow(ctx, query, organizationID, bankAccountID).Scan(
		&b.BankAccountID,
		&b.OrganizationID,
		&b.AccountID,
		&b.Name,
		&b.BankName,
		&b.AccountNumber,
		&b.BSB,
		&b.Currency,
		&b.FeedsPaused,
		&b.IsActive,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find bank account "+bankAccountID, err)
	}
	return &b, nil
}

// ListBankAccounts retrieves all bank accounts of an organization.
func (r *PgxBankAccountRepository) ListBankAccounts(ctx context.Context, organizationID string) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE organization_id = $1 AND is_active = TRUE ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bank accounts for organization "+organizationID, err)
	}
	defer rows.Close()

	accounts := []domain.BankAccount{}
	for rows.Next() {
		var b domain.BankAccount
		if err := rows.Scan(
			&b.BankAccountID,
			&b.OrganizationID,
			&b.AccountID,
			&b.Name,
			&b.BankName,
			&b.AccountNumber,
			&b.BSB,
			&b.Currency,
			&b.FeedsPaused,
			&b.IsActive,
			&b.CreatedAt,
			&b.CreatedBy,
			&b.LastUpdatedAt,
			&b.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan bank account row", err)
		}
		accounts = append(accounts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating bank account rows", err)
	}
	return accounts, nil
}

// SaveBankAccount persists a new bank account.
func (r *PgxBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.BankAccountID,
		account.OrganizationID,
		account.AccountID,
		account.Name,
		account.BankName,
		account.AccountNumber,
		account.BSB,
		account.Currency,
		account.FeedsPaused,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: bank account for ledger account %s already exists", apperrors.ErrDuplicate, account.AccountID)
		}
		return apperrors.NewAppError(500, "failed to insert bank account "+account.BankAccountID, err)
	}
	return nil
}

// UpdateBankAccount updates an existing bank account's details.
func (r *PgxBankAccountRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	query := `
		UPDATE bank_accounts
		SET name = $3,
		    bank_name = $4,
		    account_number = $5,
		    bsb = $6,
		    currency = $7,
		    feeds_paused = $8,
		    is_active = $9,
		    last_updated_at = $10,
		    last_updated_by = $11
		WHERE organization_id = $1 AND bank_account_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		account.OrganizationID,
		account.BankAccountID,
		account.Name,
		account.BankName,
		account.AccountNumber,
		account.BSB,
		account.Currency,
		account.FeedsPaused,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update bank account "+account.BankAccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("bank account " + account.BankAccountID + " not found for update")
	}
	return nil
}
