package dto_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToJournalEntryResponse_BalanceFlag(t *testing.T) {
	entry := &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryNumber: "JE000007",
		DebitTotal:  decimal.NewFromFloat(100.00),
		CreditTotal: decimal.NewFromFloat(100.005),
		SourceType:  domain.SourceManual,
	}

	resp := dto.ToJournalEntryResponse(entry)
	assert.True(t, resp.IsBalanced, "sub-cent rounding drift still presents as balanced")

	entry.CreditTotal = decimal.NewFromFloat(100.02)
	resp = dto.ToJournalEntryResponse(entry)
	assert.False(t, resp.IsBalanced)
}

func TestToJournalEntryResponse_Lines(t *testing.T) {
	entry := &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		DebitTotal:  decimal.NewFromInt(50),
		CreditTotal: decimal.NewFromInt(50),
		LineItems: []domain.JournalLineItem{
			{LineItemID: uuid.NewString(), Debit: decimal.NewFromInt(50)},
			{LineItemID: uuid.NewString(), Credit: decimal.NewFromInt(50)},
		},
	}

	resp := dto.ToJournalEntryResponse(entry)
	assert.Len(t, resp.LineItems, 2)
	assert.True(t, resp.IsBalanced)
}
