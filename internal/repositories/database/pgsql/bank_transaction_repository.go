package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	"github.com/quollbooks/quollbooks/internal/utils/pagination"
)

type PgxBankTransactionRepository struct {
	BaseRepository
}

// newPgxBankTransactionRepository creates a new repository for imported bank lines.
func newPgxBankTransactionRepository(pool *pgxpool.Pool) portsrepo.BankTransactionRepositoryFacade {
	return &PgxBankTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BankTransactionRepositoryFacade = (*PgxBankTransactionRepository)(nil)

const bankTransactionColumns = `transaction_id, organization_id, account_id, transaction_date, description, reference, amount, balance, bank_ref, status, version, created_at, created_by, last_updated_at, last_updated_by`

func scanBankTransactionFromRows(rows pgx.Rows) (domain.BankTransaction, error) {
	var t domain.BankTransaction
	err := rows.Scan(
		&t.TransactionID,
		&t.OrganizationID,
		&t.AccountID,
		&t.Date,
		&t.Description,
		&t.Reference,
		&t.Amount,
		&t.Balance,
		&t.BankRef,
		&t.Status,
		&t.Version,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

// FindBankTransactionByID retrieves a bank transaction scoped to an organization.
func (r *PgxBankTransactionRepository) FindBankTransactionByID(ctx context.Context, organizationID string, transactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + bankTransactionColumns + ` FROM bank_transactions WHERE organization_id = $1 AND transaction_id = $2;`
	var t domain.BankTransaction
	err := r.Pool.QueryRow(ctx, query, organizationID, transactionID).Scan(
		&t.TransactionID,
		&t.OrganizationID,
		&t.AccountID,
		&t.Date,
		&t.Description,
		&t.Reference,
		&t.Amount,
		&t.Balance,
		&t.BankRef,
		&t.Status,
		&t.Version,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find bank transaction "+transactionID, err)
	}
	return &t, nil
}

// ListBankTransactions retrieves a paginated list of bank transactions.
func (r *PgxBankTransactionRepository) ListBankTransactions(ctx context.Context, organizationID string, filter portsrepo.ListBankTransactionsFilter) ([]domain.BankTransaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + bankTransactionColumns + ` FROM bank_transactions WHERE organization_id = $1`
	args := []interface{}{organizationID}

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		query += ` AND account_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += ` AND transaction_date >= $` + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += ` AND transaction_date <= $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (description ILIKE $` + n + ` OR reference ILIKE $` + n + `)`
	}

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (transaction_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY transaction_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query bank transactions for organization "+organizationID, err)
	}
	defer rows.Close()

	transactions := make([]domain.BankTransaction, 0, fetchLimit)
	for rows.Next() {
		t, err := scanBankTransactionFromRows(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan bank transaction row", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating bank transaction rows", err)
	}

	var nextTokenVal *string
	if len(transactions) > limit {
		last := transactions[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextTokenVal = &token
		transactions = transactions[:limit]
	}
	return transactions, nextTokenVal, nil
}

// ListUnmatchedTransactions returns unmatched transactions on an account dated at or before asOf.
func (r *PgxBankTransactionRepository) ListUnmatchedTransactions(ctx context.Context, organizationID string, accountID string, asOf time.Time) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + bankTransactionColumns + `
		FROM bank_transactions
		WHERE organization_id = $1 AND account_id = $2 AND status = 'unmatched' AND transaction_date <= $3
		ORDER BY transaction_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, accountID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query unmatched transactions for account "+accountID, err)
	}
	defer rows.Close()

	transactions := []domain.BankTransaction{}
	for rows.Next() {
		t, err := scanBankTransactionFromRows(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unmatched transaction row", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unmatched transaction rows", err)
	}
	return transactions, nil
}

// SaveBankTransactions inserts imported transactions, skipping duplicates by
// bank reference. It returns the number of rows actually inserted.
func (r *PgxBankTransactionRepository) SaveBankTransactions(ctx context.Context, transactions []domain.BankTransaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO bank_transactions (` + bankTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (organization_id, account_id, bank_ref) DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, t := range transactions {
		batch.Queue(query,
			t.TransactionID,
			t.OrganizationID,
			t.AccountID,
			t.Date,
			t.Description,
			t.Reference,
			t.Amount,
			t.Balance,
			t.BankRef,
			t.Status,
			t.Version,
			t.CreatedAt,
			t.CreatedBy,
			t.LastUpdatedAt,
			t.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	inserted := 0
	for range transactions {
		cmdTag, err := br.Exec()
		if err != nil {
			br.Close()
			return 0, apperrors.NewAppError(500, "failed to execute bank transaction batch", err)
		}
		inserted += int(cmdTag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return 0, apperrors.NewAppError(500, "failed to close bank transaction batch", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return inserted, nil
}

// UpdateBankTransactionStatus transitions a transaction's status guarded by its
// version. A stale version yields ErrConflict.
func (r *PgxBankTransactionRepository) UpdateBankTransactionStatus(ctx context.Context, transactionID string, status domain.BankTransactionStatus, expectedVersion int64, updatedBy string, now time.Time) error {
	query := `
		UPDATE bank_transactions
		SET status = $2,
		    version = version + 1,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE transaction_id = $1 AND version = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, status, now, updatedBy, expectedVersion)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of bank transaction "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing row from a version mismatch.
		var exists bool
		if checkErr := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bank_transactions WHERE transaction_id = $1);`, transactionID).Scan(&exists); checkErr != nil {
			return apperrors.NewAppError(500, "failed to check bank transaction "+transactionID, checkErr)
		}
		if !exists {
			return apperrors.NewNotFoundError("bank transaction " + transactionID + " not found for status update")
		}
		return apperrors.ErrConflict
	}
	return nil
}
