package accounting_test

import (
	"testing"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/quollbooks/quollbooks/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitLine(amount int64) domain.JournalLineItem {
	return domain.JournalLineItem{Debit: decimal.NewFromInt(amount)}
}

func creditLine(amount int64) domain.JournalLineItem {
	return domain.JournalLineItem{Credit: decimal.NewFromInt(amount)}
}

func TestSignedLineAmount(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.JournalLineItem
		accountType domain.AccountType
		want        int64
	}{
		{"debit to asset increases", debitLine(100), domain.Asset, 100},
		{"credit to asset decreases", creditLine(100), domain.Asset, -100},
		{"debit to expense increases", debitLine(40), domain.Expense, 40},
		{"debit to liability decreases", debitLine(100), domain.Liability, -100},
		{"credit to liability increases", creditLine(100), domain.Liability, 100},
		{"credit to equity increases", creditLine(500), domain.Equity, 500},
		{"credit to income increases", creditLine(250), domain.Income, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedLineAmount(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s, want %d", got, tt.want)
		})
	}
}

func TestSignedLineAmount_UnknownAccountType(t *testing.T) {
	_, err := accounting.SignedLineAmount(debitLine(10), domain.AccountType("MYSTERY"))
	assert.Error(t, err)
}

func TestValidateLineItem(t *testing.T) {
	assert.NoError(t, accounting.ValidateLineItem(debitLine(100)))
	assert.NoError(t, accounting.ValidateLineItem(creditLine(100)))

	bothSides := domain.JournalLineItem{Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(5)}
	assert.Error(t, accounting.ValidateLineItem(bothSides))

	assert.Error(t, accounting.ValidateLineItem(domain.JournalLineItem{}))

	negative := domain.JournalLineItem{Debit: decimal.NewFromInt(-10)}
	assert.Error(t, accounting.ValidateLineItem(negative))
}

func TestSumLineItems(t *testing.T) {
	debits, credits := accounting.SumLineItems([]domain.JournalLineItem{
		debitLine(100),
		debitLine(50),
		creditLine(150),
	})
	assert.True(t, debits.Equal(decimal.NewFromInt(150)), "debits %s", debits)
	assert.True(t, credits.Equal(decimal.NewFromInt(150)), "credits %s", credits)
}

func TestValidateEntryBalance(t *testing.T) {
	balanced := []domain.JournalLineItem{debitLine(100), creditLine(100)}
	assert.NoError(t, accounting.ValidateEntryBalance(balanced))

	unbalanced := []domain.JournalLineItem{debitLine(100), creditLine(90)}
	assert.Error(t, accounting.ValidateEntryBalance(unbalanced))

	single := []domain.JournalLineItem{debitLine(100)}
	assert.Error(t, accounting.ValidateEntryBalance(single))

	// Cent differences are real imbalances, never tolerated.
	offByCent := []domain.JournalLineItem{
		{Debit: decimal.NewFromFloat(100.00)},
		{Credit: decimal.NewFromFloat(99.99)},
	}
	assert.Error(t, accounting.ValidateEntryBalance(offByCent))
}
