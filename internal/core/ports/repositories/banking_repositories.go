package repositories

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListBankTransactionsFilter narrows a bank transaction listing.
type ListBankTransactionsFilter struct {
	AccountID *string
	Status    *domain.BankTransactionStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Search    string // matches description or reference
	Limit     int
	NextToken *string
}

// ReconciliationAccountSummary aggregates the matching state of one ledger account.
type ReconciliationAccountSummary struct {
	AccountID        string
	TotalCount       int
	ReconciledCount  int
	UnmatchedCount   int
	ReconciledAmount decimal.Decimal
	UnmatchedAmount  decimal.Decimal
}

// BankAccountRepositoryFacade defines persistence operations for bank accounts.
type BankAccountRepositoryFacade interface {
	// FindBankAccountByID retrieves a bank account scoped to an organization.
	FindBankAccountByID(ctx context.Context, organizationID string, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves all bank accounts of an organization.
	ListBankAccounts(ctx context.Context, organizationID string) ([]domain.BankAccount, error)

	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error

	// UpdateBankAccount updates an existing bank account's details.
	UpdateBankAccount(ctx context.Context, account domain.BankAccount) error
}

// BankTransactionRepositoryFacade defines persistence operations for imported bank lines.
type BankTransactionRepositoryFacade interface {
	// FindBankTransactionByID retrieves a bank transaction scoped to an organization.
	FindBankTransactionByID(ctx context.Context, organizationID string, transactionID string) (*domain.BankTransaction, error)

	// ListBankTransactions retrieves a paginated list of bank transactions.
	ListBankTransactions(ctx context.Context, organizationID string, filter ListBankTransactionsFilter) ([]domain.BankTransaction, *string, error)

	// ListUnmatchedTransactions returns unmatched transactions on an account dated at or before asOf.
	ListUnmatchedTransactions(ctx context.Context, organizationID string, accountID string, asOf time.Time) ([]domain.BankTransaction, error)

	// SaveBankTransactions inserts imported transactions, skipping duplicates by
	// bank reference. It returns the number of rows actually inserted.
	SaveBankTransactions(ctx context.Context, transactions []domain.BankTransaction) (int, error)

	// UpdateBankTransactionStatus transitions a transaction's status guarded by
	// its version. It returns apperrors.ErrConflict when the version is stale.
	UpdateBankTransactionStatus(ctx context.Context, transactionID string, status domain.BankTransactionStatus, expectedVersion int64, updatedBy string, now time.Time) error
}

// ReconciliationRepositoryFacade defines persistence operations for reconciliation sessions.
type ReconciliationRepositoryFacade interface {
	// FindReconciliationByID retrieves a reconciliation with its matches.
	FindReconciliationByID(ctx context.Context, organizationID string, reconciliationID string) (*domain.BankReconciliation, error)

	// ListReconciliations retrieves reconciliations of an organization, newest first.
	ListReconciliations(ctx context.Context, organizationID string, accountID *string, limit int) ([]domain.BankReconciliation, error)

	// SaveReconciliation persists a new reconciliation session.
	SaveReconciliation(ctx context.Context, recon domain.BankReconciliation) error

	// UpdateReconciliationStatus transitions a reconciliation's status guarded by
	// its version. It returns apperrors.ErrConflict when the version is stale.
	UpdateReconciliationStatus(ctx context.Context, reconciliationID string, status domain.ReconciliationStatus, difference decimal.Decimal, expectedVersion int64, updatedBy string, now time.Time) error

	// SaveMatch persists a reconciliation match.
	SaveMatch(ctx context.Context, match domain.ReconciliationMatch) error

	// DeleteMatch removes a single match.
	DeleteMatch(ctx context.Context, matchID string) error

	// DeleteMatchesByReconciliation removes all matches of a reconciliation.
	DeleteMatchesByReconciliation(ctx context.Context, reconciliationID string) error

	// FindMatchesByReconciliationID retrieves all matches of a reconciliation.
	FindMatchesByReconciliationID(ctx context.Context, reconciliationID string) ([]domain.ReconciliationMatch, error)

	// FindMatchByBankTransaction retrieves the match consuming a bank transaction
	// within a reconciliation, if any.
	FindMatchByBankTransaction(ctx context.Context, reconciliationID string, bankTransactionID string) (*domain.ReconciliationMatch, error)

	// FindCandidateLines returns journal lines on the account with the given date
	// and side amount that are not consumed by any reconciliation match.
	// For deposits pass the amount as debit; for withdrawals as credit.
	FindCandidateLines(ctx context.Context, organizationID string, accountID string, date time.Time, debit, credit decimal.Decimal) ([]domain.JournalLineItem, error)

	// SumMatchedAmounts totals the bank transaction amounts matched within a reconciliation.
	SumMatchedAmounts(ctx context.Context, reconciliationID string) (decimal.Decimal, error)

	// Summary aggregates the matching state of each bank-linked ledger account.
	Summary(ctx context.Context, organizationID string, accountID *string) ([]ReconciliationAccountSummary, error)
}
