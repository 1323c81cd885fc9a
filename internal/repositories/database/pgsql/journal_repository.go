package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	"github.com/quollbooks/quollbooks/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalEntryColumns = `entry_id, organization_id, entry_number, reference, entry_date, description, debit_total, credit_total, source_type, source_id, created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_item_id, entry_id, account_id, description, debit, credit, contact_type, contact_id, tax_code_id, created_at, created_by, last_updated_at, last_updated_by`

func scanJournalEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.OrganizationID,
		&e.EntryNumber,
		&e.Reference,
		&e.Date,
		&e.Description,
		&e.DebitTotal,
		&e.CreditTotal,
		&e.SourceType,
		&e.SourceID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
	}
	return &e, nil
}

func scanJournalLine(rows pgx.Rows) (domain.JournalLineItem, error) {
	var l domain.JournalLineItem
	err := rows.Scan(
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
	)
	return l, err
}

// FindEntryByID retrieves a journal entry without its line items.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	return scanJournalEntry(r.Pool.QueryRow(ctx, query, entryID))
}

// FindLineItemsByEntryID retrieves all line items of a single journal entry.
func (r *PgxJournalRepository) FindLineItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalLineItem, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_line_items WHERE entry_id = $1 ORDER BY line_item_id;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLineItem{}
	for rows.Next() {
		l, err := scanJournalLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row for entry "+entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows for entry "+entryID, err)
	}
	return lines, nil
}

// FindLineItemsByEntryIDs retrieves line items for multiple entries, grouped by entry ID.
func (r *PgxJournalRepository) FindLineItemsByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLineItem, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLineItem{}, nil
	}
	query := `SELECT ` + journalLineColumns + ` FROM journal_line_items WHERE entry_id = ANY($1) ORDER BY entry_id, line_item_id;`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for entry IDs", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.JournalLineItem)
	for rows.Next() {
		l, err := scanJournalLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row during batch fetch", err)
		}
		linesMap[l.EntryID] = append(linesMap[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows during batch fetch", err)
	}

	for _, id := range entryIDs {
		if _, exists := linesMap[id]; !exists {
			linesMap[id] = []domain.JournalLineItem{}
		}
	}
	return linesMap, nil
}

// FindLineItemByID retrieves a single journal line item.
func (r *PgxJournalRepository) FindLineItemByID(ctx context.Context, lineItemID string) (*domain.JournalLineItem, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_line_items WHERE line_item_id = $1;`
	var l domain.JournalLineItem
	err := r.Pool.QueryRow(ctx, query, lineItemID).Scan(
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
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find line item "+lineItemID, err)
	}
	return &l, nil
}

// ListEntriesByOrganization retrieves a paginated list of journal entries using token-based pagination.
func (r *PgxJournalRepository) ListEntriesByOrganization(ctx context.Context, organizationID string, filter portsrepo.ListEntriesFilter) ([]domain.JournalEntry, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE organization_id = $1`
	args := []interface{}{organizationID}

	if filter.SourceType != nil {
		args = append(args, *filter.SourceType)
		query += ` AND source_type = $` + strconv.Itoa(len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += ` AND entry_date >= $` + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += ` AND entry_date <= $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (description ILIKE $` + n + ` OR reference ILIKE $` + n + ` OR entry_number ILIKE $` + n + `)`
	}

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (entry_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY entry_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for organization "+organizationID, err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(
			&e.EntryID,
			&e.OrganizationID,
			&e.EntryNumber,
			&e.Reference,
			&e.Date,
			&e.Description,
			&e.DebitTotal,
			&e.CreditTotal,
			&e.SourceType,
			&e.SourceID,
			&e.CreatedAt,
			&e.CreatedBy,
			&e.LastUpdatedAt,
			&e.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return entries, nextTokenVal, nil
}

// NextEntryNumber returns the next sequential entry number for the organization.
func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context, organizationID string) (string, error) {
	query := `
		SELECT COALESCE(MAX(substring(entry_number FROM 3)::int), 0) + 1
		FROM journal_entries
		WHERE organization_id = $1;
	`
	var next int
	if err := r.Pool.QueryRow(ctx, query, organizationID).Scan(&next); err != nil {
		return "", apperrors.NewAppError(500, "failed to compute next entry number", err)
	}
	return fmt.Sprintf("JE%06d", next), nil
}

// HasReconciliationMatches reports whether any line of the entry is consumed by
// a reconciliation match.
func (r *PgxJournalRepository) HasReconciliationMatches(ctx context.Context, entryID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM reconciliation_matches rm
			JOIN journal_line_items li ON li.line_item_id = rm.journal_line_item_id
			WHERE li.entry_id = $1
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, entryID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check reconciliation matches for entry "+entryID, err)
	}
	return exists, nil
}

// SaveEntry persists a journal entry and its line items within a DB transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	entryQuery := `
		INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.OrganizationID,
		entry.EntryNumber,
		entry.Reference,
		entry.Date,
		entry.Description,
		entry.DebitTotal,
		entry.CreditTotal,
		entry.SourceType,
		entry.SourceID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_line_items (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, l := range entry.LineItems {
		batch.Queue(lineQuery,
			l.LineItemID,
			l.EntryID,
			l.AccountID,
			l.Description,
			l.Debit,
			l.Credit,
			l.ContactType,
			l.ContactID,
			l.TaxCodeID,
			l.CreatedAt,
			l.CreatedBy,
			l.LastUpdatedAt,
			l.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line item batch for entry "+entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// DeleteEntry removes a journal entry and its line items.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, organizationID string, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_line_items WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete line items for entry "+entryID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE organization_id = $1 AND entry_id = $2;`, organizationID, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entryID + " not found for deletion")
	}

	return r.Commit(ctx, tx)
}

// DeleteEntriesBySource removes entries produced by a given source document.
func (r *PgxJournalRepository) DeleteEntriesBySource(ctx context.Context, organizationID string, sourceType domain.JournalSourceType, sourceID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	deleteLines := `
		DELETE FROM journal_line_items
		WHERE entry_id IN (
			SELECT entry_id FROM journal_entries
			WHERE organization_id = $1 AND source_type = $2 AND source_id = $3
		);
	`
	if _, err := tx.Exec(ctx, deleteLines, organizationID, sourceType, sourceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete line items for source "+sourceID, err)
	}
	deleteEntries := `
		DELETE FROM journal_entries
		WHERE organization_id = $1 AND source_type = $2 AND source_id = $3;
	`
	if _, err := tx.Exec(ctx, deleteEntries, organizationID, sourceType, sourceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entries for source "+sourceID, err)
	}

	return r.Commit(ctx, tx)
}
