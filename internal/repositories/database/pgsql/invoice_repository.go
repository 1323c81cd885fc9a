package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	"github.com/quollbooks/quollbooks/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, organization_id, invoice_number, reference, invoice_date, due_date, customer_id, subtotal, tax_amount, discount_amount, total, paid_amount, balance, currency, status, terms, notes, created_at, created_by, last_updated_at, last_updated_by`

const invoiceLineColumns = `line_item_id, invoice_id, item_id, description, quantity, rate, amount, tax_code_id, tax_rate, tax_amount`

func scanInvoiceFromRows(rows pgx.Rows) (domain.Invoice, error) {
	var i domain.Invoice
	err := rows.Scan(
		&i.InvoiceID,
		&i.OrganizationID,
		&i.InvoiceNumber,
		&i.Reference,
		&i.InvoiceDate,
		&i.DueDate,
		&i.CustomerID,
		&i.Subtotal,
		&i.TaxAmount,
		&i.DiscountAmount,
		&i.Total,
		&i.PaidAmount,
		&i.Balance,
		&i.Currency,
		&i.Status,
		&i.Terms,
		&i.Notes,
		&i.CreatedAt,
		&i.CreatedBy,
		&i.LastUpdatedAt,
		&i.LastUpdatedBy,
	)
	return i, err
}

// FindInvoiceByID retrieves an invoice with its line items.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, organizationID string, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE organization_id = $1 AND invoice_id = $2;`
	var i domain.Invoice
	err := r.Pool.QueryRow(ctx, query, organizationID, invoiceID).Scan(
		&i.InvoiceID,
		&i.OrganizationID,
		&i.InvoiceNumber,
		&i.Reference,
		&i.InvoiceDate,
		&i.DueDate,
		&i.CustomerID,
		&i.Subtotal,
		&i.TaxAmount,
		&i.DiscountAmount,
		&i.Total,
		&i.PaidAmount,
		&i.Balance,
		&i.Currency,
		&i.Status,
		&i.Terms,
		&i.Notes,
		&i.CreatedAt,
		&i.CreatedBy,
		&i.LastUpdatedAt,
		&i.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice "+invoiceID, err)
	}

	lines, err := r.findLineItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	i.LineItems = lines
	return &i, nil
}

func (r *PgxInvoiceRepository) findLineItems(ctx context.Context, invoiceID string) ([]domain.InvoiceLineItem, error) {
	query := `SELECT ` + invoiceLineColumns + ` FROM invoice_line_items WHERE invoice_id = $1 ORDER BY line_item_id;`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for invoice "+invoiceID, err)
	}
	defer rows.Close()

	lines := []domain.InvoiceLineItem{}
	for rows.Next() {
		var l domain.InvoiceLineItem
		if err := rows.Scan(
			&l.LineItemID,
			&l.InvoiceID,
			&l.ItemID,
			&l.Description,
			&l.Quantity,
			&l.Rate,
			&l.Amount,
			&l.TaxCodeID,
			&l.TaxRate,
			&l.TaxAmount,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice line row", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice line rows", err)
	}
	return lines, nil
}

// ListInvoices retrieves a paginated list of invoices using token-based pagination.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, organizationID string, filter portsrepo.ListInvoicesFilter) ([]domain.Invoice, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE organization_id = $1`
	args := []interface{}{organizationID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += ` AND customer_id = $` + strconv.Itoa(len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += ` AND invoice_date >= $` + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += ` AND invoice_date <= $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (invoice_number ILIKE $` + n + ` OR reference ILIKE $` + n + `)`
	}

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (invoice_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY invoice_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query invoices for organization "+organizationID, err)
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0, fetchLimit)
	for rows.Next() {
		i, err := scanInvoiceFromRows(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		invoices = append(invoices, i)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}

	var nextTokenVal *string
	if len(invoices) > limit {
		last := invoices[limit-1]
		token := pagination.EncodeToken(last.InvoiceDate, last.CreatedAt)
		nextTokenVal = &token
		invoices = invoices[:limit]
	}
	return invoices, nextTokenVal, nil
}

// NextInvoiceNumber returns the next sequential invoice number for the organization.
func (r *PgxInvoiceRepository) NextInvoiceNumber(ctx context.Context, organizationID string) (string, error) {
	query := `
		SELECT COALESCE(MAX(substring(invoice_number FROM 5)::int), 0) + 1
		FROM invoices
		WHERE organization_id = $1;
	`
	var next int
	if err := r.Pool.QueryRow(ctx, query, organizationID).Scan(&next); err != nil {
		return "", apperrors.NewAppError(500, "failed to compute next invoice number", err)
	}
	return fmt.Sprintf("INV-%05d", next), nil
}

// StatsByStatus aggregates invoice counts and totals grouped by status.
func (r *PgxInvoiceRepository) StatsByStatus(ctx context.Context, organizationID string) ([]portsrepo.InvoiceStats, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM invoices
		WHERE organization_id = $1
		GROUP BY status
		ORDER BY status;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoice stats for organization "+organizationID, err)
	}
	defer rows.Close()

	stats := []portsrepo.InvoiceStats{}
	for rows.Next() {
		var s portsrepo.InvoiceStats
		if err := rows.Scan(&s.Status, &s.Count, &s.Total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice stats row", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice stats rows", err)
	}
	return stats, nil
}

// ListPastDueInvoices returns open invoices whose due date precedes asOf, across all organizations.
func (r *PgxInvoiceRepository) ListPastDueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status IN ('SENT', 'PARTIAL') AND due_date < $1 AND balance > 0
		ORDER BY organization_id, due_date;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query past due invoices", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		i, err := scanInvoiceFromRows(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan past due invoice row", err)
		}
		invoices = append(invoices, i)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating past due invoice rows", err)
	}
	return invoices, nil
}

// ListOpenInvoicesByCustomer returns unpaid invoices of one customer ordered by due date.
func (r *PgxInvoiceRepository) ListOpenInvoicesByCustomer(ctx context.Context, organizationID string, customerID string) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE organization_id = $1 AND customer_id = $2
		  AND status IN ('SENT', 'PARTIAL', 'OVERDUE') AND balance > 0
		ORDER BY due_date;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, customerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query open invoices for customer "+customerID, err)
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

func queueInvoiceLines(batch *pgx.Batch, lines []domain.InvoiceLineItem) {
	lineQuery := `
		INSERT INTO invoice_line_items (` + invoiceLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, l := range lines {
		batch.Queue(lineQuery,
			l.LineItemID,
			l.InvoiceID,
			l.ItemID,
			l.Description,
			l.Quantity,
			l.Rate,
			l.Amount,
			l.TaxCodeID,
			l.TaxRate,
			l.TaxAmount,
		)
	}
}

// SaveInvoice persists an invoice and its line items within a DB transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err = tx.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.OrganizationID,
		invoice.InvoiceNumber,
		invoice.Reference,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.CustomerID,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.DiscountAmount,
		invoice.Total,
		invoice.PaidAmount,
		invoice.Balance,
		invoice.Currency,
		invoice.Status,
		invoice.Terms,
		invoice.Notes,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, invoice.InvoiceNumber)
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+invoice.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	queueInvoiceLines(batch, invoice.LineItems)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line item batch for invoice "+invoice.InvoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoice rewrites an invoice's header and replaces its line items within a DB transaction.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE invoices
		SET reference = $3,
		    invoice_date = $4,
		    due_date = $5,
		    subtotal = $6,
		    tax_amount = $7,
		    discount_amount = $8,
		    total = $9,
		    paid_amount = $10,
		    balance = $11,
		    status = $12,
		    terms = $13,
		    notes = $14,
		    last_updated_at = $15,
		    last_updated_by = $16
		WHERE organization_id = $1 AND invoice_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		invoice.OrganizationID,
		invoice.InvoiceID,
		invoice.Reference,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.DiscountAmount,
		invoice.Total,
		invoice.PaidAmount,
		invoice.Balance,
		invoice.Status,
		invoice.Terms,
		invoice.Notes,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice "+invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice " + invoice.InvoiceID + " not found for update")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1;`, invoice.InvoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete line items for invoice "+invoice.InvoiceID, err)
	}
	batch := &pgx.Batch{}
	queueInvoiceLines(batch, invoice.LineItems)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line item batch for invoice "+invoice.InvoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoiceStatus transitions an invoice's status.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, organizationID string, invoiceID string, status domain.InvoiceStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE invoices
		SET status = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE organization_id = $1 AND invoice_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, organizationID, invoiceID, status, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice " + invoiceID + " not found for status update")
	}
	return nil
}

// UpdateInvoicePayment updates the paid amount, balance and derived status.
func (r *PgxInvoiceRepository) UpdateInvoicePayment(ctx context.Context, organizationID string, invoiceID string, paidAmount, balance decimal.Decimal, status domain.InvoiceStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE invoices
		SET paid_amount = $3,
		    balance = $4,
		    status = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE organization_id = $1 AND invoice_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, organizationID, invoiceID, paidAmount, balance, status, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment state of invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice " + invoiceID + " not found for payment update")
	}
	return nil
}

// DeleteInvoice removes an invoice and its line items.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, organizationID string, invoiceID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1;`, invoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete line items for invoice "+invoiceID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE organization_id = $1 AND invoice_id = $2;`, organizationID, invoiceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice " + invoiceID + " not found for deletion")
	}

	return r.Commit(ctx, tx)
}
