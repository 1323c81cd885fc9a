package repositories

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
)

// ListEntriesFilter narrows a journal entry listing.
type ListEntriesFilter struct {
	SourceType *domain.JournalSourceType
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string // matches description, reference or entry number
	Limit      int
	NextToken  *string
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves a specific journal entry without its line items.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLineItemsByEntryID retrieves all line items of a single journal entry.
	FindLineItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalLineItem, error)

	// FindLineItemsByEntryIDs retrieves line items for multiple entries, grouped by entry ID.
	FindLineItemsByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLineItem, error)

	// FindLineItemByID retrieves a single journal line item.
	FindLineItemByID(ctx context.Context, lineItemID string) (*domain.JournalLineItem, error)

	// ListEntriesByOrganization retrieves a paginated list of journal entries using token-based pagination.
	ListEntriesByOrganization(ctx context.Context, organizationID string, filter ListEntriesFilter) ([]domain.JournalEntry, *string, error)

	// NextEntryNumber returns the next sequential entry number (JE%06d) for the organization.
	NextEntryNumber(ctx context.Context, organizationID string) (string, error)

	// HasReconciliationMatches reports whether any line of the entry is consumed
	// by a reconciliation match.
	HasReconciliationMatches(ctx context.Context, entryID string) (bool, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveEntry persists a journal entry and its line items atomically.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry removes a journal entry and its line items.
	DeleteEntry(ctx context.Context, organizationID string, entryID string) error

	// DeleteEntriesBySource removes entries produced by a given source document.
	DeleteEntriesBySource(ctx context.Context, organizationID string, sourceType domain.JournalSourceType, sourceID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
