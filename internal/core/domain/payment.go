package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates how money was received.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentCard         PaymentMethod = "card"
	PaymentOther        PaymentMethod = "other"
)

// Payment records money received from a customer, optionally allocated to
// one or more invoices. The unallocated remainder sits in customer deposits.
type Payment struct {
	PaymentID        string              `json:"paymentID"`
	OrganizationID   string              `json:"organizationID"`
	PaymentNumber    string              `json:"paymentNumber"` // PAY-%05d, sequential per organization
	PaymentDate      time.Time           `json:"paymentDate"`
	Amount           decimal.Decimal     `json:"amount"`
	Method           PaymentMethod       `json:"method"`
	Reference        string              `json:"reference"`
	BankName         string              `json:"bankName"`
	ChequeNumber     string              `json:"chequeNumber"`
	Notes            string              `json:"notes"`
	CustomerID       string              `json:"customerID"`
	DepositAccountID string              `json:"depositAccountID"`
	Allocations      []PaymentAllocation `json:"allocations,omitempty"`
	AuditFields
}

// PaymentAllocation applies part of a payment against a specific invoice.
type PaymentAllocation struct {
	AllocationID string          `json:"allocationID"`
	PaymentID    string          `json:"paymentID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"`
}

// AllocatedTotal sums all allocation amounts.
func (p Payment) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// UnallocatedAmount is the part of the payment not applied to any invoice.
func (p Payment) UnallocatedAmount() decimal.Decimal {
	return p.Amount.Sub(p.AllocatedTotal())
}
