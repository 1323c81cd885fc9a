package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation sessions.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const reconciliationColumns = `reconciliation_id, organization_id, account_id, reconciliation_date, statement_date, statement_ending_balance, book_ending_balance, difference, status, notes, version, created_at, created_by, last_updated_at, last_updated_by`

const matchColumns = `match_id, reconciliation_id, bank_transaction_id, journal_line_item_id, match_type, confidence_score, created_at, created_by, last_updated_at, last_updated_by`

func scanReconciliation(row pgx.Row) (*domain.BankReconciliation, error) {
	var rec domain.BankReconciliation
	err := row.Scan(
		&rec.ReconciliationID,
		&rec.OrganizationID,
		&rec.AccountID,
		&rec.ReconciliationDate,
		&rec.StatementDate,
		&rec.StatementEndingBalance,
		&rec.BookEndingBalance,
		&rec.Difference,
		&rec.Status,
		&rec.Notes,
		&rec.Version,
		&rec.CreatedAt,
		&rec.CreatedBy,
		&rec.LastUpdatedAt,
		&rec.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan reconciliation row", err)
	}
	return &rec, nil
}

func scanMatchFromRows(rows pgx.Rows) (domain.ReconciliationMatch, error) {
	var m domain.ReconciliationMatch
	err := rows.Scan(
		&m.MatchID,
		&m.ReconciliationID,
		&m.BankTransactionID,
		&m.JournalLineItemID,
		&m.MatchType,
		&m.ConfidenceScore,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindReconciliationByID retrieves a reconciliation with its matches.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, organizationID string, reconciliationID string) (*domain.BankReconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM bank_reconciliations WHERE organization_id = $1 AND reconciliation_id = $2;`
	rec, err := scanReconciliation(r.Pool.QueryRow(ctx, query, organizationID, reconciliationID))
	if err != nil {
		return nil, err
	}
	matches, err := r.FindMatchesByReconciliationID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	rec.Matches = matches
	return rec, nil
}

// ListReconciliations retrieves reconciliations of an organization, newest first.
func (r *PgxReconciliationRepository) ListReconciliations(ctx context.Context, organizationID string, accountID *string, limit int) ([]domain.BankReconciliation, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + reconciliationColumns + ` FROM bank_reconciliations WHERE organization_id = $1`
	args := []interface{}{organizationID}
	if accountID != nil {
		args = append(args, *accountID)
		query += ` AND account_id = $2`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY reconciliation_date DESC, created_at DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reconciliations for organization "+organizationID, err)
	}
	defer rows.Close()

	recs := []domain.BankReconciliation{}
	for rows.Next() {
		var rec domain.BankReconciliation
		if err := rows.Scan(
			&rec.ReconciliationID,
			&rec.OrganizationID,
			&rec.AccountID,
			&rec.ReconciliationDate,
			&rec.StatementDate,
			&rec.StatementEndingBalance,
			&rec.BookEndingBalance,
			&rec.Difference,
			&rec.Status,
			&rec.Notes,
			&rec.Version,
			&rec.CreatedAt,
			&rec.CreatedBy,
			&rec.LastUpdatedAt,
			&rec.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reconciliation row", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reconciliation rows", err)
	}
	return recs, nil
}

// SaveReconciliation persists a new reconciliation session.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, recon domain.BankReconciliation) error {
	query := `
		INSERT INTO bank_reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		recon.ReconciliationID,
		recon.OrganizationID,
		recon.AccountID,
		recon.ReconciliationDate,
		recon.StatementDate,
		recon.StatementEndingBalance,
		recon.BookEndingBalance,
		recon.Difference,
		recon.Status,
		recon.Notes,
		recon.Version,
		recon.CreatedAt,
		recon.CreatedBy,
		recon.LastUpdatedAt,
		recon.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: reconciliation %s already exists", apperrors.ErrDuplicate, recon.ReconciliationID)
		}
		return apperrors.NewAppError(500, "failed to insert reconciliation "+recon.ReconciliationID, err)
	}
	return nil
}

// UpdateReconciliationStatus transitions a reconciliation's status guarded by
// its version. A stale version yields ErrConflict.
func (r *PgxReconciliationRepository) UpdateReconciliationStatus(ctx context.Context, reconciliationID string, status domain.ReconciliationStatus, difference decimal.Decimal, expectedVersion int64, updatedBy string, now time.Time) error {
	query := `
		UPDATE bank_reconciliations
		SET status = $2,
		    difference = $3,
		    version = version + 1,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE reconciliation_id = $1 AND version = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, reconciliationID, status, difference, now, updatedBy, expectedVersion)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of reconciliation "+reconciliationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if checkErr := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bank_reconciliations WHERE reconciliation_id = $1);`, reconciliationID).Scan(&exists); checkErr != nil {
			return apperrors.NewAppError(500, "failed to check reconciliation "+reconciliationID, checkErr)
		}
		if !exists {
			return apperrors.NewNotFoundError("reconciliation " + reconciliationID + " not found for status update")
		}
		return apperrors.ErrConflict
	}
	return nil
}

// SaveMatch persists a reconciliation match.
func (r *PgxReconciliationRepository) SaveMatch(ctx context.Context, match domain.ReconciliationMatch) error {
	query := `
		INSERT INTO reconciliation_matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		match.MatchID,
		match.ReconciliationID,
		match.BankTransactionID,
		match.JournalLineItemID,
		match.MatchType,
		match.ConfidenceScore,
		match.CreatedAt,
		match.CreatedBy,
		match.LastUpdatedAt,
		match.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: bank transaction %s is already matched", apperrors.ErrDuplicate, match.BankTransactionID)
		}
		return apperrors.NewAppError(500, "failed to insert match "+match.MatchID, err)
	}
	return nil
}

// DeleteMatch removes a single match.
func (r *PgxReconciliationRepository) DeleteMatch(ctx context.Context, matchID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM reconciliation_matches WHERE match_id = $1;`, matchID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete match "+matchID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("match " + matchID + " not found for deletion")
	}
	return nil
}

// DeleteMatchesByReconciliation removes all matches of a reconciliation.
func (r *PgxReconciliationRepository) DeleteMatchesByReconciliation(ctx context.Context, reconciliationID string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM reconciliation_matches WHERE reconciliation_id = $1;`, reconciliationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete matches for reconciliation "+reconciliationID, err)
	}
	return nil
}

// FindMatchesByReconciliationID retrieves all matches of a reconciliation.
func (r *PgxReconciliationRepository) FindMatchesByReconciliationID(ctx context.Context, reconciliationID string) ([]domain.ReconciliationMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM reconciliation_matches WHERE reconciliation_id = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query matches for reconciliation "+reconciliationID, err)
	}
	defer rows.Close()

	matches := []domain.ReconciliationMatch{}
	for rows.Next() {
		m, err := scanMatchFromRows(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan match row", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating match rows", err)
	}
	return matches, nil
}

// FindMatchByBankTransaction retrieves the match consuming a bank transaction
// within a reconciliation, if any.
func (r *PgxReconciliationRepository) FindMatchByBankTransaction(ctx context.Context, reconciliationID string, bankTransactionID string) (*domain.ReconciliationMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM reconciliation_matches WHERE reconciliation_id = $1 AND bank_transaction_id = $2;`
	var m domain.ReconciliationMatch
	err := r.Pool.QueryRow(ctx, query, reconciliationID, bankTransactionID).Scan(
		&m.MatchID,
		&m.ReconciliationID,
		&m.BankTransactionID,
		&m.JournalLineItemID,
		&m.MatchType,
		&m.ConfidenceScore,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find match for bank transaction "+bankTransactionID, err)
	}
	return &m, nil
}

// FindCandidateLines returns journal lines on the account with the given date
// and side amount that are not consumed by any reconciliation match.
func (r *PgxReconciliationRepository) FindCandidateLines(ctx context.Context, organizationID string, accountID string, date time.Time, debit, credit decimal.Decimal) ([]domain.JournalLineItem, error) {
	query := `
		SELECT li.line_item_id, li.entry_id, li.account_id, li.description, li.debit, li.credit,
		       li.contact_type, li.contact_id, li.tax_code_id,
		       li.created_at, li.created_by, li.last_updated_at, li.last_updated_by
		FROM journal_line_items li
		JOIN journal_entries je ON je.entry_id = li.entry_id
		WHERE je.organization_id = $1
		  AND li.account_id = $2
		  AND je.entry_date = $3
		  AND li.debit = $4
		  AND li.credit = $5
		  AND NOT EXISTS (
			SELECT 1 FROM reconciliation_matches rm WHERE rm.journal_line_item_id = li.line_item_id
		  )
		ORDER BY li.created_at;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, accountID, date, debit, credit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query candidate lines for account "+accountID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLineItem{}
	for rows.Next() {
		var l domain.JournalLineItem
		if err := rows.Scan(
			&l.LineItemID,
			&l.EntryID,
			&l.AccountID,
			&l.Description,
			&l.Debit,
			&l.Credit,
			&l.ContactType,
			&l.ContactID,
			&l.TaxCodeID,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan candidate line row", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating candidate line rows", err)
	}
	return lines, nil
}

// SumMatchedAmounts totals the bank transaction amounts matched within a reconciliation.
func (r *PgxReconciliationRepository) SumMatchedAmounts(ctx context.Context, reconciliationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(bt.amount), 0)
		FROM reconciliation_matches rm
		JOIN bank_transactions bt ON bt.transaction_id = rm.bank_transaction_id
		WHERE rm.reconciliation_id = $1;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, reconciliationID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum matched amounts for reconciliation "+reconciliationID, err)
	}
	return total, nil
}

// Summary aggregates the matching state of each bank-linked ledger account.
func (r *PgxReconciliationRepository) Summary(ctx context.Context, organizationID string, accountID *string) ([]portsrepo.ReconciliationAccountSummary, error) {
	query := `
		SELECT account_id,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'reconciled'),
		       COUNT(*) FILTER (WHERE status = 'unmatched'),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'reconciled'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'unmatched'), 0)
		FROM bank_transactions
		WHERE organization_id = $1
	`
	args := []interface{}{organizationID}
	if accountID != nil {
		args = append(args, *accountID)
		query += ` AND account_id = $2`
	}
	query += ` GROUP BY account_id ORDER BY account_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reconciliation summary for organization "+organizationID, err)
	}
	defer rows.Close()

	summaries := []portsrepo.ReconciliationAccountSummary{}
	for rows.Next() {
		var s portsrepo.ReconciliationAccountSummary
		if err := rows.Scan(
			&s.AccountID,
			&s.TotalCount,
			&s.ReconciledCount,
			&s.UnmatchedCount,
			&s.ReconciledAmount,
			&s.UnmatchedAmount,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reconciliation summary row", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reconciliation summary rows", err)
	}
	return summaries, nil
}
