package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/quollbooks/quollbooks/internal/middleware"
	"github.com/quollbooks/quollbooks/internal/utils/accounting"
)

const defaultJournalPageSize = 50

// JournalService handles business logic for journal entries.
type JournalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	orgSvc      portssvc.OrganizationAuthorizer
}

// NewJournalService creates a new JournalService.
func NewJournalService(jr portsrepo.JournalRepositoryFacade, ar portsrepo.AccountRepositoryFacade, orgSvc portssvc.OrganizationAuthorizer) portssvc.JournalSvcFacade {
	return &JournalService{
		journalRepo: jr,
		accountRepo: ar,
		orgSvc:      orgSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*JournalService)(nil)

// validateLineAccounts checks that every account referenced by the lines exists
// in the organization and is active.
func (s *JournalService) validateLineAccounts(ctx context.Context, organizationID string, lines []domain.JournalLineItem) error {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, organizationID, ids)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		return err
	}
	for id, account := range accounts {
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return nil
}

func (s *JournalService) buildEntry(organizationID string, entryNumber string, input portssvc.PostEntryInput, creatorUserID string, now time.Time) domain.JournalEntry {
	entry := domain.JournalEntry{
		EntryID:        uuid.NewString(),
		OrganizationID: organizationID,
		EntryNumber:    entryNumber,
		Reference:      input.Reference,
		Date:           input.Date,
		Description:    input.Description,
		SourceType:     input.SourceType,
		SourceID:       input.SourceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	lines := make([]domain.JournalLineItem, len(input.LineItems))
	for i, line := range input.LineItems {
		line.LineItemID = uuid.NewString()
		line.EntryID = entry.EntryID
		line.CreatedAt = now
		line.CreatedBy = creatorUserID
		line.LastUpdatedAt = now
		line.LastUpdatedBy = creatorUserID
		lines[i] = line
	}
	entry.LineItems = lines
	entry.DebitTotal, entry.CreditTotal = accounting.SumLineItems(lines)
	return entry
}

// CreateEntry creates a manual journal entry.
func (s *JournalService) CreateEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	lines := make([]domain.JournalLineItem, len(req.LineItems))
	for i, l := range req.LineItems {
		lines[i] = domain.JournalLineItem{
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
			ContactType: l.ContactType,
			ContactID:   l.ContactID,
			TaxCodeID:   l.TaxCodeID,
		}
	}

	return s.postEntry(ctx, organizationID, portssvc.PostEntryInput{
		Date:        req.Date,
		Reference:   req.Reference,
		Description: req.Description,
		SourceType:  domain.SourceManual,
		LineItems:   lines,
	}, creatorUserID)
}

// PostEntry creates a system-generated entry. Authorization is the caller's
// responsibility.
func (s *JournalService) PostEntry(ctx context.Context, organizationID string, input portssvc.PostEntryInput, creatorUserID string) (*domain.JournalEntry, error) {
	return s.postEntry(ctx, organizationID, input, creatorUserID)
}

func (s *JournalService) postEntry(ctx context.Context, organizationID string, input portssvc.PostEntryInput, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := accounting.ValidateEntryBalance(input.LineItems); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	if err := s.validateLineAccounts(ctx, organizationID, input.LineItems); err != nil {
		return nil, err
	}

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx, organizationID)
	if err != nil {
		logger.Error("Failed to get next entry number", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}

	entry := s.buildEntry(organizationID, entryNumber, input, creatorUserID, time.Now())
	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("entry_number", entryNumber))
		return nil, err
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("source_type", string(entry.SourceType)))
	return &entry, nil
}

// GetEntryByID retrieves a journal entry with its line items.
func (s *JournalService) GetEntryByID(ctx context.Context, organizationID string, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.OrganizationID != organizationID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal entry with ID %s not found", entryID))
	}

	lines, err := s.journalRepo.FindLineItemsByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.LineItems = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of journal entries with line items.
func (s *JournalService) ListEntries(ctx context.Context, organizationID string, requestingUserID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultJournalPageSize
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByOrganization(ctx, organizationID, portsrepo.ListEntriesFilter{
		SourceType: params.SourceType,
		DateFrom:   params.DateFrom,
		DateTo:     params.DateTo,
		Search:     params.Search,
		Limit:      limit,
		NextToken:  params.NextToken,
	})
	if err != nil {
		return nil, err
	}

	entryIDs := make([]string, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.EntryID
	}
	linesByEntry, err := s.journalRepo.FindLineItemsByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		entries[i].LineItems = linesByEntry[entries[i].EntryID]
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	return &dto.ListJournalEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// DeleteEntry removes a manual journal entry. System-generated entries are
// managed through their source document, and entries consumed by a
// reconciliation match stay until unmatched.
func (s *JournalService) DeleteEntry(ctx context.Context, organizationID string, entryID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.OrganizationID != organizationID {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal entry with ID %s not found", entryID))
	}
	if entry.SourceType != domain.SourceManual {
		return fmt.Errorf("%w: only manual entries can be deleted directly, entry %s was created by %s", apperrors.ErrValidation, entry.EntryNumber, entry.SourceType)
	}

	matched, err := s.journalRepo.HasReconciliationMatches(ctx, entryID)
	if err != nil {
		return err
	}
	if matched {
		return fmt.Errorf("%w: entry %s is matched in a bank reconciliation", apperrors.ErrConflict, entry.EntryNumber)
	}

	if err := s.journalRepo.DeleteEntry(ctx, organizationID, entryID); err != nil {
		logger.Error("Failed to delete journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return err
	}

	logger.Info("Journal entry deleted", slog.String("entry_id", entryID), slog.String("entry_number", entry.EntryNumber))
	return nil
}
