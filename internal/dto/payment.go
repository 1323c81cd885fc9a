package dto

import (
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationRequest applies part of a payment against an invoice. Amounts
// exceeding the invoice balance are clamped at allocation time.
type AllocationRequest struct {
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// CreatePaymentRequest records a customer payment.
type CreatePaymentRequest struct {
	CustomerID       string               `json:"customerID" binding:"required"`
	PaymentDate      time.Time            `json:"paymentDate" binding:"required" time_format:"2006-01-02"`
	Amount           decimal.Decimal      `json:"amount" binding:"required"`
	Method           domain.PaymentMethod `json:"method" binding:"required,oneof=bank_transfer cash cheque card other"`
	Reference        string               `json:"reference"`
	BankName         string               `json:"bankName"`
	ChequeNumber     string               `json:"chequeNumber"`
	Notes            string               `json:"notes"`
	DepositAccountID string               `json:"depositAccountID" binding:"required"`
	Allocations      []AllocationRequest  `json:"allocations" binding:"omitempty,dive"`
}

// ListPaymentsParams narrows a payment listing.
type ListPaymentsParams struct {
	CustomerID *string `form:"customerID"`
	Limit      int     `form:"limit"`
	NextToken  *string `form:"nextToken"`
}

// ListPaymentsResponse is a page of payments.
type ListPaymentsResponse struct {
	Payments  []domain.Payment `json:"payments"`
	NextToken *string          `json:"nextToken,omitempty"`
}
