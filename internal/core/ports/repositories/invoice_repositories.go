package repositories

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListInvoicesFilter narrows an invoice listing.
type ListInvoicesFilter struct {
	Status     *domain.InvoiceStatus
	CustomerID *string
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string // matches invoice number or reference
	Limit      int
	NextToken  *string
}

// InvoiceStats aggregates invoice counts and totals by status.
type InvoiceStats struct {
	Status domain.InvoiceStatus
	Count  int
	Total  decimal.Decimal
}

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its line items.
	FindInvoiceByID(ctx context.Context, organizationID string, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices using token-based pagination.
	ListInvoices(ctx context.Context, organizationID string, filter ListInvoicesFilter) ([]domain.Invoice, *string, error)

	// NextInvoiceNumber returns the next sequential invoice number (INV-%05d) for the organization.
	NextInvoiceNumber(ctx context.Context, organizationID string) (string, error)

	// StatsByStatus aggregates invoice counts and totals grouped by status.
	StatsByStatus(ctx context.Context, organizationID string) ([]InvoiceStats, error)

	// ListPastDueInvoices returns open invoices whose due date precedes asOf, across all organizations.
	ListPastDueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error)

	// ListOpenInvoicesByCustomer returns unpaid invoices of one customer ordered by due date.
	ListOpenInvoicesByCustomer(ctx context.Context, organizationID string, customerID string) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists an invoice and its line items atomically.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoice rewrites an invoice's header and replaces its line items atomically.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceStatus transitions an invoice's status.
	UpdateInvoiceStatus(ctx context.Context, organizationID string, invoiceID string, status domain.InvoiceStatus, updatedBy string, now time.Time) error

	// UpdateInvoicePayment updates the paid amount, balance and derived status.
	UpdateInvoicePayment(ctx context.Context, organizationID string, invoiceID string, paidAmount, balance decimal.Decimal, status domain.InvoiceStatus, updatedBy string, now time.Time) error

	// DeleteInvoice removes an invoice and its line items.
	DeleteInvoice(ctx context.Context, organizationID string, invoiceID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
