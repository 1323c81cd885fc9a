package services

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for chart-of-accounts data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account.
	GetAccountByID(ctx context.Context, organizationID string, accountID string, requestingUserID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error)

	// ListAccounts retrieves the chart of accounts.
	ListAccounts(ctx context.Context, organizationID string, includeInactive bool, requestingUserID string) ([]domain.Account, error)

	// GetAccountBalance sums debit minus credit over the account's journal lines
	// up to asOf (all time when nil).
	GetAccountBalance(ctx context.Context, organizationID string, accountID string, asOf *time.Time, requestingUserID string) (decimal.Decimal, error)
}

// AccountWriterSvc defines write operations for chart-of-accounts data
type AccountWriterSvc interface {
	// CreateAccount creates a new account.
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates account details.
	UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, organizationID string, accountID string, requestingUserID string) error
}

// AccountResolverSvc finds or creates the accounts posting logic depends on.
type AccountResolverSvc interface {
	// ResolveTaggedAccount returns the account carrying the system tag, creating
	// it with canonical code and name when the organization has none.
	ResolveTaggedAccount(ctx context.Context, organizationID string, tag domain.SystemTag, requestingUserID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountResolverSvc
}
