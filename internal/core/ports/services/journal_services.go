package services

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// PostEntryInput carries a system-generated journal entry from another service
// (invoice posting, payment recording, reconciliation) to the journal service.
type PostEntryInput struct {
	Date        time.Time
	Reference   string
	Description string
	SourceType  domain.JournalSourceType
	SourceID    *string
	LineItems   []domain.JournalLineItem
}

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntryByID retrieves a journal entry with its line items.
	GetEntryByID(ctx context.Context, organizationID string, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries.
	ListEntries(ctx context.Context, organizationID string, requestingUserID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateEntry creates a manual journal entry after validating the
	// double-entry invariants.
	CreateEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// PostEntry creates a system-generated entry on behalf of another service.
	// The caller is assumed to be authorized already.
	PostEntry(ctx context.Context, organizationID string, input PostEntryInput, creatorUserID string) (*domain.JournalEntry, error)

	// DeleteEntry removes a manual journal entry. Entries consumed by a
	// reconciliation match cannot be deleted.
	DeleteEntry(ctx context.Context, organizationID string, entryID string, requestingUserID string) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
