package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for report aggregates.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// AccountMovements sums debit minus credit per account over the period.
func (r *PgxReportingRepository) AccountMovements(ctx context.Context, organizationID string, from *time.Time, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT li.account_id, COALESCE(SUM(li.debit - li.credit), 0)
		FROM journal_line_items li
		JOIN journal_entries je ON je.entry_id = li.entry_id
		WHERE je.organization_id = $1 AND je.entry_date <= $2
	`
	args := []interface{}{organizationID, to}
	if from != nil {
		args = append(args, *from)
		query += ` AND je.entry_date >= $3`
	}
	query += ` GROUP BY li.account_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query account movements for organization "+organizationID, err)
	}
	defer rows.Close()

	movements := make(map[string]decimal.Decimal)
	for rows.Next() {
		var accountID string
		var movement decimal.Decimal
		if err := rows.Scan(&accountID, &movement); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account movement row", err)
		}
		movements[accountID] = movement
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account movement rows", err)
	}
	return movements, nil
}

// ListOpenInvoices returns invoices with an outstanding balance.
func (r *PgxReportingRepository) ListOpenInvoices(ctx context.Context, organizationID string) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE organization_id = $1
		  AND status IN ('SENT', 'PARTIAL', 'OVERDUE') AND balance > 0
		ORDER BY due_date;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query open invoices for organization "+organizationID, err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		i, err := scanInvoiceFromRows(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan open invoice row", err)
		}
		invoices = append(invoices, i)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating open invoice rows", err)
	}
	return invoices, nil
}

// SalesByTaxType sums gross (tax-inclusive) invoice line amounts grouped by tax
// type over the period. Lines without a tax code count as GST free.
func (r *PgxReportingRepository) SalesByTaxType(ctx context.Context, organizationID string, from, to time.Time) (map[domain.TaxType]decimal.Decimal, error) {
	query := `
		SELECT COALESCE(tc.tax_type, 'GST_FREE'), COALESCE(SUM(il.amount + il.tax_amount), 0)
		FROM invoice_line_items il
		JOIN invoices i ON i.invoice_id = il.invoice_id
		LEFT JOIN tax_codes tc ON tc.tax_code_id = il.tax_code_id
		WHERE i.organization_id = $1
		  AND i.status NOT IN ('DRAFT', 'CANCELLED')
		  AND i.invoice_date >= $2 AND i.invoice_date <= $3
		GROUP BY COALESCE(tc.tax_type, 'GST_FREE');
	`
	return r.queryTaxTypeSums(ctx, query, organizationID, from, to)
}

// PurchasesByTaxType sums gross journal line debits against expense and asset
// accounts grouped by the line's tax type over the period.
func (r *PgxReportingRepository) PurchasesByTaxType(ctx context.Context, organizationID string, from, to time.Time) (map[domain.TaxType]decimal.Decimal, error) {
	query := `
		SELECT COALESCE(tc.tax_type, 'GST_FREE'), COALESCE(SUM(li.debit), 0)
		FROM journal_line_items li
		JOIN journal_entries je ON je.entry_id = li.entry_id
		JOIN accounts a ON a.account_id = li.account_id
		LEFT JOIN tax_codes tc ON tc.tax_code_id = li.tax_code_id
		WHERE je.organization_id = $1
		  AND a.account_type IN ('EXPENSE', 'ASSET')
		  AND li.debit > 0
		  AND li.tax_code_id IS NOT NULL
		  AND je.entry_date >= $2 AND je.entry_date <= $3
		GROUP BY COALESCE(tc.tax_type, 'GST_FREE');
	`
	return r.queryTaxTypeSums(ctx, query, organizationID, from, to)
}

func (r *PgxReportingRepository) queryTaxTypeSums(ctx context.Context, query string, organizationID string, from, to time.Time) (map[domain.TaxType]decimal.Decimal, error) {
	rows, err := r.Pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax type sums for organization "+organizationID, err)
	}
	defer rows.Close()

	sums := make(map[domain.TaxType]decimal.Decimal)
	for rows.Next() {
		var taxType domain.TaxType
		var total decimal.Decimal
		if err := rows.Scan(&taxType, &total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tax type sum row", err)
		}
		sums[taxType] = sums[taxType].Add(total)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax type sum rows", err)
	}
	return sums, nil
}
