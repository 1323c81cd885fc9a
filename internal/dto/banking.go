package dto

import (
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest registers a bank account against a ledger account.
type CreateBankAccountRequest struct {
	AccountID     string `json:"accountID" binding:"required"`
	Name          string `json:"name" binding:"required"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	BSB           string `json:"bsb"`
	Currency      string `json:"currency" binding:"omitempty,len=3"`
}

// StatementRow is one parsed line of an uploaded bank statement.
type StatementRow struct {
	Date        time.Time
	Description string
	Reference   string
	Amount      decimal.Decimal // signed: positive deposit, negative withdrawal
	Balance     *decimal.Decimal
	BankRef     string
}

// ImportStatementResult summarizes a statement import.
type ImportStatementResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ListBankTransactionsParams narrows a bank transaction listing.
type ListBankTransactionsParams struct {
	AccountID *string                       `form:"accountID"`
	Status    *domain.BankTransactionStatus `form:"status"`
	DateFrom  *time.Time                    `form:"dateFrom" time_format:"2006-01-02"`
	DateTo    *time.Time                    `form:"dateTo" time_format:"2006-01-02"`
	Search    string                        `form:"search"`
	Limit     int                           `form:"limit"`
	NextToken *string                       `form:"nextToken"`
}

// ListBankTransactionsResponse is a page of bank transactions.
type ListBankTransactionsResponse struct {
	Transactions []domain.BankTransaction `json:"transactions"`
	NextToken    *string                  `json:"nextToken,omitempty"`
}

// StartReconciliationRequest opens a reconciliation session.
type StartReconciliationRequest struct {
	AccountID              string          `json:"accountID" binding:"required"`
	StatementDate          time.Time       `json:"statementDate" binding:"required" time_format:"2006-01-02"`
	StatementEndingBalance decimal.Decimal `json:"statementEndingBalance" binding:"required"`
	Notes                  string          `json:"notes"`
}

// ListReconciliationsParams narrows a reconciliation listing.
type ListReconciliationsParams struct {
	AccountID *string `form:"accountID"`
	Limit     int     `form:"limit"`
}

// ManualMatchRequest pairs one bank transaction with one journal line.
type ManualMatchRequest struct {
	BankTransactionID string `json:"bankTransactionID" binding:"required"`
	JournalLineItemID string `json:"journalLineItemID" binding:"required"`
	Version           int64  `json:"version"`
}

// UnmatchRequest releases a bank transaction back to unmatched.
type UnmatchRequest struct {
	BankTransactionID string `json:"bankTransactionID" binding:"required"`
	Version           int64  `json:"version"`
}

// CreateEntryFromTransactionRequest posts a balancing journal entry for an
// unexplained bank transaction.
type CreateEntryFromTransactionRequest struct {
	BankTransactionID string `json:"bankTransactionID" binding:"required"`
	ContraAccountID   string `json:"contraAccountID" binding:"required"`
	Description       string `json:"description"`
	Version           int64  `json:"version"`
}

// CompleteReconciliationRequest closes a reconciliation session.
type CompleteReconciliationRequest struct {
	Version int64 `json:"version"`
}

// DiscardReconciliationRequest abandons a reconciliation session.
type DiscardReconciliationRequest struct {
	Version int64 `json:"version"`
}

// AutoMatchResult summarizes an automatic matching pass.
type AutoMatchResult struct {
	Matched int `json:"matched"`
}

// ReconciliationAccountSummary is the per-account reconciliation progress.
type ReconciliationAccountSummary struct {
	AccountID        string          `json:"accountID"`
	TotalCount       int             `json:"totalCount"`
	ReconciledCount  int             `json:"reconciledCount"`
	UnmatchedCount   int             `json:"unmatchedCount"`
	ReconciledAmount decimal.Decimal `json:"reconciledAmount"`
	UnmatchedAmount  decimal.Decimal `json:"unmatchedAmount"`
}
