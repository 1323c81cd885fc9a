package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalSourceType records what produced a journal entry.
type JournalSourceType string

const (
	SourceManual         JournalSourceType = "manual"
	SourceInvoice        JournalSourceType = "invoice"
	SourcePayment        JournalSourceType = "payment"
	SourceReconciliation JournalSourceType = "reconciliation"
)

// JournalEntry represents a single, balanced financial event composed of line items.
type JournalEntry struct {
	EntryID        string            `json:"entryID"`
	OrganizationID string            `json:"organizationID"`
	EntryNumber    string            `json:"entryNumber"` // JE%06d, sequential per organization
	Reference      string            `json:"reference"`
	Date           time.Time         `json:"date"`
	Description    string            `json:"description"`
	DebitTotal     decimal.Decimal   `json:"debitTotal"`
	CreditTotal    decimal.Decimal   `json:"creditTotal"`
	SourceType     JournalSourceType `json:"sourceType"`
	SourceID       *string           `json:"sourceID,omitempty"`
	LineItems      []JournalLineItem `json:"lineItems,omitempty"`
	AuditFields
}

// JournalLineItem is one leg of a journal entry. Exactly one of Debit or Credit
// is non-zero.
type JournalLineItem struct {
	LineItemID  string          `json:"lineItemID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	ContactType *ContactType    `json:"contactType,omitempty"`
	ContactID   *string         `json:"contactID,omitempty"`
	TaxCodeID   *string         `json:"taxCodeID,omitempty"`
	AuditFields
}

// IsBalanced reports whether totals agree within the display tolerance.
// Creation enforces exact equality; this looser check is for presenting
// entries whose stored totals may carry rounding from upstream systems.
func (j JournalEntry) IsBalanced() bool {
	diff := j.DebitTotal.Sub(j.CreditTotal).Abs()
	return diff.LessThan(decimal.NewFromFloat(0.01))
}
