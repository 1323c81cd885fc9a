package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePartial   InvoiceStatus = "PARTIAL"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// invoiceTransitions lists the permitted status moves. Payment-driven states
// (PARTIAL, PAID) are reachable from any posted state; only DRAFT and SENT may
// be cancelled.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:   {InvoiceSent, InvoiceCancelled},
	InvoiceSent:    {InvoicePartial, InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoicePartial: {InvoicePaid, InvoiceOverdue, InvoiceSent},
	InvoiceOverdue: {InvoicePartial, InvoicePaid},
	InvoicePaid:    {InvoicePartial, InvoiceSent}, // payment deletion reopens the invoice
}

// CanTransitionTo reports whether moving to target is a legal status change.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsOpen reports whether the invoice can still receive payments.
func (s InvoiceStatus) IsOpen() bool {
	switch s {
	case InvoiceSent, InvoicePartial, InvoiceOverdue:
		return true
	}
	return false
}

// Invoice is a customer-facing sales document. Balance always equals
// Total minus PaidAmount.
type Invoice struct {
	InvoiceID      string            `json:"invoiceID"`
	OrganizationID string            `json:"organizationID"`
	InvoiceNumber  string            `json:"invoiceNumber"` // INV-%05d, sequential per organization
	Reference      string            `json:"reference"`
	InvoiceDate    time.Time         `json:"invoiceDate"`
	DueDate        time.Time         `json:"dueDate"`
	CustomerID     string            `json:"customerID"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	TaxAmount      decimal.Decimal   `json:"taxAmount"`
	DiscountAmount decimal.Decimal   `json:"discountAmount"`
	Total          decimal.Decimal   `json:"total"`
	PaidAmount     decimal.Decimal   `json:"paidAmount"`
	Balance        decimal.Decimal   `json:"balance"`
	Currency       string            `json:"currency"`
	Status         InvoiceStatus     `json:"status"`
	Terms          string            `json:"terms"`
	Notes          string            `json:"notes"`
	LineItems      []InvoiceLineItem `json:"lineItems,omitempty"`
	AuditFields
}

// InvoiceLineItem is one billed line on an invoice.
type InvoiceLineItem struct {
	LineItemID  string          `json:"lineItemID"`
	InvoiceID   string          `json:"invoiceID"`
	ItemID      *string         `json:"itemID,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"` // Quantity * Rate
	TaxCodeID   *string         `json:"taxCodeID,omitempty"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// StatusForBalance derives the payment status implied by the paid amount.
// Zero or negative balance means fully paid; any payment short of the total is
// partial; no payment leaves the current posted status untouched.
func (i Invoice) StatusForBalance() InvoiceStatus {
	if i.Balance.LessThanOrEqual(decimal.Zero) {
		return InvoicePaid
	}
	if i.PaidAmount.GreaterThan(decimal.Zero) {
		return InvoicePartial
	}
	if i.Status == InvoiceOverdue {
		return InvoiceOverdue
	}
	return InvoiceSent
}

// IsPastDue reports whether the invoice is open and past its due date.
func (i Invoice) IsPastDue(now time.Time) bool {
	return i.Status.IsOpen() && now.After(i.DueDate) && i.Balance.GreaterThan(decimal.Zero)
}
