package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/quollbooks/quollbooks/internal/importer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_AmountColumn(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Reference,Amount,Balance,Bank Ref",
		"2025-06-15,EFTPOS PURCHASE,INV-42,-45.50,\"1,954.50\",TX001",
		"16/06/2025,DIRECT CREDIT WAGES,,\"$2,500.00\",\"4,454.50\",TX002",
	}, "\n")

	rows, err := importer.ParseCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, "EFTPOS PURCHASE", rows[0].Description)
	assert.Equal(t, "INV-42", rows[0].Reference)
	assert.Equal(t, "TX001", rows[0].BankRef)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromFloat(-45.50)), "amount %s", rows[0].Amount)
	require.NotNil(t, rows[0].Balance)
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromFloat(1954.50)), "balance %s", rows[0].Balance)

	// Day-first date and currency formatting.
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), rows[1].Date)
	assert.True(t, rows[1].Amount.Equal(decimal.NewFromInt(2500)), "amount %s", rows[1].Amount)
}

func TestParseCSV_DebitCreditColumns(t *testing.T) {
	input := strings.Join([]string{
		"Transaction Date,Narrative,Withdrawal,Deposit",
		"02/07/2025,ATM WITHDRAWAL,200.00,",
		"03/07/2025,CUSTOMER PAYMENT,,350.00",
		"04/07/2025,BANK FEE,-10.00,",
	}, "\n")

	rows, err := importer.ParseCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(-200)), "amount %s", rows[0].Amount)
	assert.True(t, rows[1].Amount.Equal(decimal.NewFromInt(350)), "amount %s", rows[1].Amount)
	// Some banks export withdrawals already negated.
	assert.True(t, rows[2].Amount.Equal(decimal.NewFromInt(-10)), "amount %s", rows[2].Amount)
	assert.Nil(t, rows[0].Balance)
}

func TestParseCSV_SkipsBlankRows(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount",
		"2025-06-15,COFFEE,-4.50",
		",,",
		"2025-06-16,LUNCH,-18.00",
	}, "\n")

	rows, err := importer.ParseCSV(strings.NewReader(input))

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParseCSV_MissingDateColumn(t *testing.T) {
	input := strings.Join([]string{
		"Description,Amount",
		"COFFEE,-4.50",
	}, "\n")

	_, err := importer.ParseCSV(strings.NewReader(input))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no date column")
}

func TestParseCSV_MissingAmountColumns(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description",
		"2025-06-15,COFFEE",
	}, "\n")

	_, err := importer.ParseCSV(strings.NewReader(input))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no amount or debit/credit columns")
}

func TestParseCSV_BadDateReportsRow(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount",
		"2025-06-15,COFFEE,-4.50",
		"not a date,LUNCH,-18.00",
	}, "\n")

	_, err := importer.ParseCSV(strings.NewReader(input))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestParseCSV_EmptyFile(t *testing.T) {
	rows, err := importer.ParseCSV(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := importer.Parse("statement.pdf", strings.NewReader("whatever"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported statement format")
}

func TestParse_DispatchesCSVByExtension(t *testing.T) {
	input := "Date,Amount\n2025-06-15,-4.50\n"

	rows, err := importer.Parse("Statement-June.CSV", strings.NewReader(input))

	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
