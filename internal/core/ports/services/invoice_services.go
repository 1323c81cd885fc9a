package services

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// InvoiceSvcFacade defines invoice operations.
type InvoiceSvcFacade interface {
	// CreateInvoice creates a draft invoice, computing line amounts and totals
	// server-side.
	CreateInvoice(ctx context.Context, organizationID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// GetInvoiceByID retrieves an invoice with its line items.
	GetInvoiceByID(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated, filtered list of invoices.
	ListInvoices(ctx context.Context, organizationID string, requestingUserID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// UpdateInvoice rewrites invoice details. Paid and cancelled invoices are immutable.
	UpdateInvoice(ctx context.Context, organizationID string, invoiceID string, req dto.UpdateInvoiceRequest, requestingUserID string) (*domain.Invoice, error)

	// DeleteInvoice removes a draft invoice.
	DeleteInvoice(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) error

	// SendInvoice transitions DRAFT to SENT and posts the receivable journal entry.
	SendInvoice(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// CancelInvoice transitions an unpaid invoice to CANCELLED and removes its
	// journal entries.
	CancelInvoice(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// GetInvoiceStats aggregates invoice counts and totals by status.
	GetInvoiceStats(ctx context.Context, organizationID string, requestingUserID string) (*dto.InvoiceStatsResponse, error)

	// MarkOverdueInvoices flips open invoices past their due date to OVERDUE
	// across all organizations. Used by the scheduled job; returns the number
	// of invoices updated.
	MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int, error)
}
