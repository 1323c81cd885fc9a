package accounting

import (
	"fmt"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GSTDivisor converts a GST-inclusive amount to the GST portion for the
// Australian 10% rate: gst = inclusive / 11.
var GSTDivisor = decimal.NewFromInt(11)

// SignedLineAmount returns the balance effect of a journal line on its account,
// following the accounting convention:
// DEBIT to ASSET/EXPENSE -> positive, CREDIT to ASSET/EXPENSE -> negative,
// DEBIT to LIABILITY/EQUITY/INCOME -> negative, CREDIT -> positive.
func SignedLineAmount(line domain.JournalLineItem, accountType domain.AccountType) (decimal.Decimal, error) {
	amount := line.Debit.Sub(line.Credit)
	switch accountType {
	case domain.Asset, domain.Expense:
		return amount, nil
	case domain.Liability, domain.Equity, domain.Income:
		return amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
}

// ValidateLineItem checks the one-sided amount rule: exactly one of debit and
// credit must be positive, and neither may be negative.
func ValidateLineItem(line domain.JournalLineItem) error {
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("debit and credit amounts cannot be negative")
	}
	if line.Debit.IsPositive() && line.Credit.IsPositive() {
		return fmt.Errorf("line item cannot have both debit and credit amounts")
	}
	if line.Debit.IsZero() && line.Credit.IsZero() {
		return fmt.Errorf("line item must have either debit or credit amount")
	}
	return nil
}

// SumLineItems returns the debit and credit totals for a set of lines.
func SumLineItems(lines []domain.JournalLineItem) (decimal.Decimal, decimal.Decimal) {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits, credits
}

// ValidateEntryBalance checks that the lines of an entry are individually
// well-formed and balance exactly. Display-level tolerance never applies here.
func ValidateEntryBalance(lines []domain.JournalLineItem) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least 2 line items")
	}
	for _, line := range lines {
		if err := ValidateLineItem(line); err != nil {
			return err
		}
	}
	debits, credits := SumLineItems(lines)
	if !debits.Equal(credits) {
		return fmt.Errorf("journal entry is not balanced: debit total %s, credit total %s", debits, credits)
	}
	return nil
}
