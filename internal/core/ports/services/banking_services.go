package services

import (
	"context"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// BankingSvcFacade defines bank account and bank transaction operations.
type BankingSvcFacade interface {
	// CreateBankAccount registers a bank account linked to a ledger account.
	CreateBankAccount(ctx context.Context, organizationID string, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error)

	// GetBankAccountByID retrieves a bank account.
	GetBankAccountByID(ctx context.Context, organizationID string, bankAccountID string, requestingUserID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves the organization's bank accounts.
	ListBankAccounts(ctx context.Context, organizationID string, requestingUserID string) ([]domain.BankAccount, error)

	// SetFeedsPaused pauses or resumes statement imports for a bank account.
	SetFeedsPaused(ctx context.Context, organizationID string, bankAccountID string, paused bool, requestingUserID string) (*domain.BankAccount, error)

	// ImportStatement inserts parsed statement rows as unmatched bank
	// transactions, skipping rows whose bank reference was already imported.
	ImportStatement(ctx context.Context, organizationID string, bankAccountID string, rows []dto.StatementRow, requestingUserID string) (*dto.ImportStatementResult, error)

	// GetBankTransactionByID retrieves a bank transaction.
	GetBankTransactionByID(ctx context.Context, organizationID string, transactionID string, requestingUserID string) (*domain.BankTransaction, error)

	// ListBankTransactions retrieves a paginated, filtered list of bank transactions.
	ListBankTransactions(ctx context.Context, organizationID string, requestingUserID string, params dto.ListBankTransactionsParams) (*dto.ListBankTransactionsResponse, error)
}

// ReconciliationSvcFacade defines bank reconciliation operations.
type ReconciliationSvcFacade interface {
	// StartReconciliation opens a session: computes the book balance of the
	// ledger account as of the statement date and the opening difference.
	StartReconciliation(ctx context.Context, organizationID string, req dto.StartReconciliationRequest, creatorUserID string) (*domain.BankReconciliation, error)

	// GetReconciliationByID retrieves a reconciliation with its matches.
	GetReconciliationByID(ctx context.Context, organizationID string, reconciliationID string, requestingUserID string) (*domain.BankReconciliation, error)

	// ListReconciliations retrieves reconciliations, newest first.
	ListReconciliations(ctx context.Context, organizationID string, requestingUserID string, params dto.ListReconciliationsParams) ([]domain.BankReconciliation, error)

	// AutoMatch pairs unmatched transactions with journal lines of equal date
	// and amount. Already-consumed lines are never reused; first match wins.
	AutoMatch(ctx context.Context, organizationID string, reconciliationID string, requestingUserID string) (*dto.AutoMatchResult, error)

	// ManualMatch pairs one bank transaction with one journal line.
	ManualMatch(ctx context.Context, organizationID string, reconciliationID string, req dto.ManualMatchRequest, requestingUserID string) (*domain.ReconciliationMatch, error)

	// Unmatch releases a bank transaction back to unmatched.
	Unmatch(ctx context.Context, organizationID string, reconciliationID string, req dto.UnmatchRequest, requestingUserID string) error

	// CreateEntryFromTransaction posts a balanced two-line journal entry for an
	// unexplained bank transaction and matches it.
	CreateEntryFromTransaction(ctx context.Context, organizationID string, reconciliationID string, req dto.CreateEntryFromTransactionRequest, requestingUserID string) (*domain.ReconciliationMatch, error)

	// Complete closes the reconciliation when the final difference is within
	// tolerance, flipping matched transactions to reconciled.
	Complete(ctx context.Context, organizationID string, reconciliationID string, req dto.CompleteReconciliationRequest, requestingUserID string) (*domain.BankReconciliation, error)

	// Discard abandons the session, deleting matches and releasing transactions.
	Discard(ctx context.Context, organizationID string, reconciliationID string, req dto.DiscardReconciliationRequest, requestingUserID string) (*domain.BankReconciliation, error)

	// Summary aggregates per-account reconciliation progress.
	Summary(ctx context.Context, organizationID string, accountID *string, requestingUserID string) ([]dto.ReconciliationAccountSummary, error)
}
