package dto

import (
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceLineRequest is one billed line on an invoice create/update request.
type InvoiceLineRequest struct {
	ItemID      *string         `json:"itemID,omitempty"`
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
	TaxCodeID   *string         `json:"taxCodeID,omitempty"`
}

// CreateInvoiceRequest creates a draft invoice. Line amounts, tax and totals
// are computed server-side.
type CreateInvoiceRequest struct {
	CustomerID     string               `json:"customerID" binding:"required"`
	InvoiceDate    time.Time            `json:"invoiceDate" binding:"required" time_format:"2006-01-02"`
	DueDate        time.Time            `json:"dueDate" binding:"required" time_format:"2006-01-02"`
	Reference      string               `json:"reference"`
	Currency       string               `json:"currency" binding:"omitempty,len=3"`
	DiscountAmount *decimal.Decimal     `json:"discountAmount,omitempty"`
	Terms          string               `json:"terms"`
	Notes          string               `json:"notes"`
	LineItems      []InvoiceLineRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest rewrites an invoice. Absent fields keep their value;
// when LineItems is present the lines are replaced and totals recomputed.
type UpdateInvoiceRequest struct {
	InvoiceDate    *time.Time           `json:"invoiceDate,omitempty" time_format:"2006-01-02"`
	DueDate        *time.Time           `json:"dueDate,omitempty" time_format:"2006-01-02"`
	Reference      *string              `json:"reference,omitempty"`
	DiscountAmount *decimal.Decimal     `json:"discountAmount,omitempty"`
	Terms          *string              `json:"terms,omitempty"`
	Notes          *string              `json:"notes,omitempty"`
	LineItems      []InvoiceLineRequest `json:"lineItems,omitempty" binding:"omitempty,min=1,dive"`
}

// ListInvoicesParams narrows an invoice listing.
type ListInvoicesParams struct {
	Status     *domain.InvoiceStatus `form:"status"`
	CustomerID *string               `form:"customerID"`
	DateFrom   *time.Time            `form:"dateFrom" time_format:"2006-01-02"`
	DateTo     *time.Time            `form:"dateTo" time_format:"2006-01-02"`
	Search     string                `form:"search"`
	Limit      int                   `form:"limit"`
	NextToken  *string               `form:"nextToken"`
}

// ListInvoicesResponse is a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []domain.Invoice `json:"invoices"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// InvoiceStatusStat is one row of the invoice statistics breakdown.
type InvoiceStatusStat struct {
	Status domain.InvoiceStatus `json:"status"`
	Count  int                  `json:"count"`
	Total  decimal.Decimal      `json:"total"`
}

// InvoiceStatsResponse aggregates invoice counts and totals by status.
type InvoiceStatsResponse struct {
	ByStatus    []InvoiceStatusStat `json:"byStatus"`
	TotalCount  int                 `json:"totalCount"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
}
