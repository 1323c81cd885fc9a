package repositories

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data
type AccountReader interface {
	// FindAccountByID retrieves a specific account scoped to an organization.
	FindAccountByID(ctx context.Context, organizationID string, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByCode retrieves an account by its chart code.
	FindAccountByCode(ctx context.Context, organizationID string, code string) (*domain.Account, error)

	// FindAccountBySystemTag retrieves the account carrying a well-known system tag.
	FindAccountBySystemTag(ctx context.Context, organizationID string, tag domain.SystemTag) (*domain.Account, error)

	// ListAccounts retrieves the full chart of accounts for an organization.
	ListAccounts(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Account, error)

	// CalculateAccountBalance sums debit minus credit over the account's journal
	// lines up to and including asOf (all time when asOf is nil).
	CalculateAccountBalance(ctx context.Context, organizationID string, accountID string, asOf *time.Time) (decimal.Decimal, error)
}

// AccountWriter defines write operations for chart-of-accounts data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, organizationID string, accountID string, updatedBy string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
