package dto

import (
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one leg of a manual journal entry. Exactly one of
// Debit or Credit must be positive.
type CreateJournalLineRequest struct {
	AccountID   string              `json:"accountID" binding:"required"`
	Description string              `json:"description"`
	Debit       decimal.Decimal     `json:"debit"`
	Credit      decimal.Decimal     `json:"credit"`
	ContactType *domain.ContactType `json:"contactType,omitempty"`
	ContactID   *string             `json:"contactID,omitempty"`
	TaxCodeID   *string             `json:"taxCodeID,omitempty"`
}

// CreateJournalEntryRequest creates a manual journal entry.
type CreateJournalEntryRequest struct {
	Date        time.Time                  `json:"date" binding:"required" time_format:"2006-01-02"`
	Reference   string                     `json:"reference"`
	Description string                     `json:"description" binding:"required"`
	LineItems   []CreateJournalLineRequest `json:"lineItems" binding:"required,min=2,dive"`
}

// ListJournalEntriesParams narrows a journal entry listing.
type ListJournalEntriesParams struct {
	SourceType *domain.JournalSourceType `form:"sourceType"`
	DateFrom   *time.Time                `form:"dateFrom" time_format:"2006-01-02"`
	DateTo     *time.Time                `form:"dateTo" time_format:"2006-01-02"`
	Search     string                    `form:"search"`
	Limit      int                       `form:"limit"`
	NextToken  *string                   `form:"nextToken"`
}

// JournalLineResponse is one leg of an entry in responses.
type JournalLineResponse struct {
	LineItemID  string              `json:"lineItemID"`
	AccountID   string              `json:"accountID"`
	Description string              `json:"description"`
	Debit       decimal.Decimal     `json:"debit"`
	Credit      decimal.Decimal     `json:"credit"`
	ContactType *domain.ContactType `json:"contactType,omitempty"`
	ContactID   *string             `json:"contactID,omitempty"`
	TaxCodeID   *string             `json:"taxCodeID,omitempty"`
}

// JournalEntryResponse is the public view of a journal entry.
type JournalEntryResponse struct {
	EntryID     string                   `json:"entryID"`
	EntryNumber string                   `json:"entryNumber"`
	Reference   string                   `json:"reference"`
	Date        time.Time                `json:"date"`
	Description string                   `json:"description"`
	DebitTotal  decimal.Decimal          `json:"debitTotal"`
	CreditTotal decimal.Decimal          `json:"creditTotal"`
	IsBalanced  bool                     `json:"isBalanced"`
	SourceType  domain.JournalSourceType `json:"sourceType"`
	SourceID    *string                  `json:"sourceID,omitempty"`
	LineItems   []JournalLineResponse    `json:"lineItems,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	CreatedBy   string                   `json:"createdBy"`
}

// ListJournalEntriesResponse is a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalLineResponses converts line items.
func ToJournalLineResponses(lines []domain.JournalLineItem) []JournalLineResponse {
	out := make([]JournalLineResponse, len(lines))
	for i, l := range lines {
		out[i] = JournalLineResponse{
			LineItemID:  l.LineItemID,
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
			ContactType: l.ContactType,
			ContactID:   l.ContactID,
			TaxCodeID:   l.TaxCodeID,
		}
	}
	return out
}

// ToJournalEntryResponse converts a domain.JournalEntry.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:     e.EntryID,
		EntryNumber: e.EntryNumber,
		Reference:   e.Reference,
		Date:        e.Date,
		Description: e.Description,
		DebitTotal:  e.DebitTotal,
		CreditTotal: e.CreditTotal,
		IsBalanced:  e.IsBalanced(),
		SourceType:  e.SourceType,
		SourceID:    e.SourceID,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
	if len(e.LineItems) > 0 {
		resp.LineItems = ToJournalLineResponses(e.LineItems)
	}
	return resp
}
