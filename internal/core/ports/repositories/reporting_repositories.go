package repositories

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepositoryFacade defines the aggregate queries behind financial reports.
type ReportingRepositoryFacade interface {
	// AccountMovements sums debit minus credit per account over the period.
	// A nil from means from the beginning of time.
	AccountMovements(ctx context.Context, organizationID string, from *time.Time, to time.Time) (map[string]decimal.Decimal, error)

	// ListOpenInvoices returns invoices with an outstanding balance as input to
	// the customer aging report.
	ListOpenInvoices(ctx context.Context, organizationID string) ([]domain.Invoice, error)

	// SalesByTaxType sums gross (tax-inclusive) invoice line amounts grouped by
	// tax type over the period. Cancelled and draft invoices are excluded.
	SalesByTaxType(ctx context.Context, organizationID string, from, to time.Time) (map[domain.TaxType]decimal.Decimal, error)

	// PurchasesByTaxType sums gross journal line debits against expense and
	// asset accounts grouped by the line's tax type over the period.
	PurchasesByTaxType(ctx context.Context, organizationID string, from, to time.Time) (map[domain.TaxType]decimal.Decimal, error)
}
