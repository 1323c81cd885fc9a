package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationTolerance bounds the absolute difference allowed when completing
// a reconciliation. A difference of a cent or more blocks completion.
var ReconciliationTolerance = decimal.NewFromFloat(0.01)

// BankTransactionStatus is the matching state of an imported bank line.
type BankTransactionStatus string

const (
	TxnUnmatched  BankTransactionStatus = "unmatched"
	TxnMatched    BankTransactionStatus = "matched"
	TxnReconciled BankTransactionStatus = "reconciled"
)

var bankTxnTransitions = map[BankTransactionStatus][]BankTransactionStatus{
	TxnUnmatched:  {TxnMatched},
	TxnMatched:    {TxnReconciled, TxnUnmatched},
	TxnReconciled: {TxnUnmatched}, // unreconcile
}

// CanTransitionTo reports whether moving to target is a legal status change.
func (s BankTransactionStatus) CanTransitionTo(target BankTransactionStatus) bool {
	for _, allowed := range bankTxnTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ReconciliationStatus is the lifecycle state of a reconciliation session.
type ReconciliationStatus string

const (
	ReconInProgress ReconciliationStatus = "in_progress"
	ReconCompleted  ReconciliationStatus = "completed"
	ReconDiscarded  ReconciliationStatus = "discarded"
)

var reconTransitions = map[ReconciliationStatus][]ReconciliationStatus{
	ReconInProgress: {ReconCompleted, ReconDiscarded},
}

// CanTransitionTo reports whether moving to target is a legal status change.
func (s ReconciliationStatus) CanTransitionTo(target ReconciliationStatus) bool {
	for _, allowed := range reconTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// MatchType records how a reconciliation match was produced.
type MatchType string

const (
	MatchManual    MatchType = "manual"
	MatchAutomatic MatchType = "automatic"
	MatchCreated   MatchType = "created" // journal entry created from the bank line
)

// BankAccount links an external bank account to a ledger account.
type BankAccount struct {
	BankAccountID  string `json:"bankAccountID"`
	OrganizationID string `json:"organizationID"`
	AccountID      string `json:"accountID"` // ledger account holding the book balance
	Name           string `json:"name"`
	BankName       string `json:"bankName"`
	AccountNumber  string `json:"accountNumber"`
	BSB            string `json:"bsb"`
	Currency       string `json:"currency"`
	FeedsPaused    bool   `json:"feedsPaused"`
	IsActive       bool   `json:"isActive"`
	AuditFields
}

// BankTransaction is one imported bank statement line. Amount is signed:
// positive for deposits, negative for withdrawals.
type BankTransaction struct {
	TransactionID  string                `json:"transactionID"`
	OrganizationID string                `json:"organizationID"`
	AccountID      string                `json:"accountID"` // ledger account of the bank account
	Date           time.Time             `json:"date"`
	Description    string                `json:"description"`
	Reference      string                `json:"reference"`
	Amount         decimal.Decimal       `json:"amount"`
	Balance        *decimal.Decimal      `json:"balance,omitempty"` // statement running balance when supplied
	BankRef        string                `json:"bankRef"`           // dedup key from the feed/file
	Status         BankTransactionStatus `json:"status"`
	Version        int64                 `json:"version"`
	AuditFields
}

// BankReconciliation is one reconciliation session against a bank statement.
type BankReconciliation struct {
	ReconciliationID       string                `json:"reconciliationID"`
	OrganizationID         string                `json:"organizationID"`
	AccountID              string                `json:"accountID"`
	ReconciliationDate     time.Time             `json:"reconciliationDate"`
	StatementDate          time.Time             `json:"statementDate"`
	StatementEndingBalance decimal.Decimal       `json:"statementEndingBalance"`
	BookEndingBalance      decimal.Decimal       `json:"bookEndingBalance"`
	Difference             decimal.Decimal       `json:"difference"`
	Status                 ReconciliationStatus  `json:"status"`
	Notes                  string                `json:"notes"`
	Version                int64                 `json:"version"`
	Matches                []ReconciliationMatch `json:"matches,omitempty"`
	AuditFields
}

// ReconciliationMatch pairs a bank transaction with the journal line that
// explains it.
type ReconciliationMatch struct {
	MatchID           string          `json:"matchID"`
	ReconciliationID  string          `json:"reconciliationID"`
	BankTransactionID string          `json:"bankTransactionID"`
	JournalLineItemID string          `json:"journalLineItemID"`
	MatchType         MatchType       `json:"matchType"`
	ConfidenceScore   decimal.Decimal `json:"confidenceScore"`
	AuditFields
}
