package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	"github.com/quollbooks/quollbooks/internal/utils/pagination"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, organization_id, payment_number, payment_date, amount, method, reference, bank_name, cheque_number, notes, customer_id, deposit_account_id, created_at, created_by, last_updated_at, last_updated_by`

func scanPaymentFromRows(rows pgx.Rows) (domain.Payment, error) {
	var p domain.Payment
	err := rows.Scan(
		&p.PaymentID,
		&p.OrganizationID,
		&p.PaymentNumber,
		&p.PaymentDate,
		&p.Amount,
		&p.Method,
		&p.Reference,
		&p.BankName,
		&p.ChequeNumber,
		&p.Notes,
		&p.CustomerID,
		&p.DepositAccountID,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

// FindPaymentByID retrieves a payment with its allocations.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, organizationID string, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE organization_id = $1 AND payment_id = $2;`
	var p domain.Payment
	err := r.Pool.QueryRow(ctx, query, organizationID, paymentID).Scan(
		&p.PaymentID,
		&p.OrganizationID,
		&p.PaymentNumber,
		&p.PaymentDate,
		&p.Amount,
		&p.Method,
		&p.Reference,
		&p.BankName,
		&p.ChequeNumber,
		&p.Notes,
		&p.CustomerID,
		&p.DepositAccountID,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment "+paymentID, err)
	}

	allocQuery := `
		SELECT allocation_id, payment_id, invoice_id, amount
		FROM payment_allocations
		WHERE payment_id = $1
		ORDER BY allocation_id;
	`
	rows, err := r.Pool.Query(ctx, allocQuery, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query allocations for payment "+paymentID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.PaymentAllocation
		if err := rows.Scan(&a.AllocationID, &a.PaymentID, &a.InvoiceID, &a.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan allocation row", err)
		}
		p.Allocations = append(p.Allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating allocation rows", err)
	}
	return &p, nil
}

// ListPayments retrieves a paginated list of payments using token-based pagination.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, organizationID string, customerID *string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE organization_id = $1`
	args := []interface{}{organizationID}

	if customerID != nil {
		args = append(args, *customerID)
		query += ` AND customer_id = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (payment_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY payment_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query payments for organization "+organizationID, err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0, fetchLimit)
	for rows.Next() {
		p, err := scanPaymentFromRows(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan payment row", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating payment rows", err)
	}

	var nextTokenVal *string
	if len(payments) > limit {
		last := payments[limit-1]
		token := pagination.EncodeToken(last.PaymentDate, last.CreatedAt)
		nextTokenVal = &token
		payments = payments[:limit]
	}
	return payments, nextTokenVal, nil
}

// NextPaymentNumber returns the next sequential payment number for the organization.
func (r *PgxPaymentRepository) NextPaymentNumber(ctx context.Context, organizationID string) (string, error) {
	query := `
		SELECT COALESCE(MAX(substring(payment_number FROM 5)::int), 0) + 1
		FROM payments
		WHERE organization_id = $1;
	`
	var next int
	if err := r.Pool.QueryRow(ctx, query, organizationID).Scan(&next); err != nil {
		return "", apperrors.NewAppError(500, "failed to compute next payment number", err)
	}
	return fmt.Sprintf("PAY-%05d", next), nil
}

// SavePayment persists a payment and its allocations within a DB transaction.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, query,
		payment.PaymentID,
		payment.OrganizationID,
		payment.PaymentNumber,
		payment.PaymentDate,
		payment.Amount,
		payment.Method,
		payment.Reference,
		payment.BankName,
		payment.ChequeNumber,
		payment.Notes,
		payment.CustomerID,
		payment.DepositAccountID,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: payment number %s already exists", apperrors.ErrDuplicate, payment.PaymentNumber)
		}
		return apperrors.NewAppError(500, "failed to insert payment "+payment.PaymentID, err)
	}

	batch := &pgx.Batch{}
	allocQuery := `
		INSERT INTO payment_allocations (allocation_id, payment_id, invoice_id, amount)
		VALUES ($1, $2, $3, $4);
	`
	for _, a := range payment.Allocations {
		batch.Queue(allocQuery, a.AllocationID, a.PaymentID, a.InvoiceID, a.Amount)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute allocation batch for payment "+payment.PaymentID, err)
	}

	return r.Commit(ctx, tx)
}

// DeletePayment removes a payment and its allocations.
func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, organizationID string, paymentID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM payment_allocations WHERE payment_id = $1;`, paymentID); err != nil {
		return apperrors.NewAppError(500, "failed to delete allocations for payment "+paymentID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM payments WHERE organization_id = $1 AND payment_id = $2;`, organizationID, paymentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete payment "+paymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment " + paymentID + " not found for deletion")
	}

	return r.Commit(ctx, tx)
}
