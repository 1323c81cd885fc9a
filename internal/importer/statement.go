// Package importer parses uploaded bank statement files into rows the banking
// service can ingest.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/quollbooks/quollbooks/internal/dto"
)

// statementDateFormats are tried in order. Day-first formats come before
// month-first since Australian banks export dd/mm/yyyy.
var statementDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
	"02 Jan 2006",
}

type columnMap struct {
	date        int
	description int
	reference   int
	amount      int
	debit       int
	credit      int
	balance     int
	bankRef     int
}

// mapColumns resolves the header row into column indexes. A date column and
// either an amount column or a debit/credit pair are required.
func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{date: -1, description: -1, reference: -1, amount: -1, debit: -1, credit: -1, balance: -1, bankRef: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "transaction date", "value date":
			cols.date = i
		case "description", "narrative", "details", "transaction details":
			cols.description = i
		case "reference", "ref":
			cols.reference = i
		case "amount":
			cols.amount = i
		case "debit", "withdrawal", "debit amount":
			cols.debit = i
		case "credit", "deposit", "credit amount":
			cols.credit = i
		case "balance", "running balance":
			cols.balance = i
		case "bank ref", "bankref", "transaction id", "id":
			cols.bankRef = i
		}
	}
	if cols.date == -1 {
		return cols, fmt.Errorf("statement has no date column")
	}
	if cols.amount == -1 && cols.debit == -1 && cols.credit == -1 {
		return cols, fmt.Errorf("statement has no amount or debit/credit columns")
	}
	return cols, nil
}

func parseStatementDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, format := range statementDateFormats {
		if date, err := time.Parse(format, raw); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func parseOptionalDecimal(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	raw = strings.TrimPrefix(raw, "$")
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func parseStatementRow(rec []string, cols columnMap) (dto.StatementRow, error) {
	date, err := parseStatementDate(cell(rec, cols.date))
	if err != nil {
		return dto.StatementRow{}, err
	}

	var amount decimal.Decimal
	if cols.amount >= 0 && strings.TrimSpace(cell(rec, cols.amount)) != "" {
		amount, err = parseOptionalDecimal(cell(rec, cols.amount))
		if err != nil {
			return dto.StatementRow{}, fmt.Errorf("parsing amount %q: %w", cell(rec, cols.amount), err)
		}
	} else {
		debit, err := parseOptionalDecimal(cell(rec, cols.debit))
		if err != nil {
			return dto.StatementRow{}, fmt.Errorf("parsing debit %q: %w", cell(rec, cols.debit), err)
		}
		credit, err := parseOptionalDecimal(cell(rec, cols.credit))
		if err != nil {
			return dto.StatementRow{}, fmt.Errorf("parsing credit %q: %w", cell(rec, cols.credit), err)
		}
		amount = credit.Sub(debit.Abs())
	}

	row := dto.StatementRow{
		Date:        date,
		Description: strings.TrimSpace(cell(rec, cols.description)),
		Reference:   strings.TrimSpace(cell(rec, cols.reference)),
		Amount:      amount,
		BankRef:     strings.TrimSpace(cell(rec, cols.bankRef)),
	}

	if cols.balance >= 0 && strings.TrimSpace(cell(rec, cols.balance)) != "" {
		balance, err := parseOptionalDecimal(cell(rec, cols.balance))
		if err != nil {
			return dto.StatementRow{}, fmt.Errorf("parsing balance %q: %w", cell(rec, cols.balance), err)
		}
		row.Balance = &balance
	}
	return row, nil
}

func parseRecords(records [][]string) ([]dto.StatementRow, error) {
	if len(records) == 0 {
		return nil, nil
	}
	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]dto.StatementRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) == 0 {
			continue
		}
		empty := true
		for _, field := range rec {
			if strings.TrimSpace(field) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		row, err := parseStatementRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseCSV reads a headered CSV statement export.
func ParseCSV(r io.Reader) ([]dto.StatementRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	return parseRecords(records)
}

// ParseXLSX reads the first sheet of an XLSX statement export.
func ParseXLSX(r io.Reader) ([]dto.StatementRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening statement workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("statement workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading statement sheet: %w", err)
	}
	return parseRecords(records)
}

// Parse picks the parser from the uploaded filename.
func Parse(filename string, r io.Reader) ([]dto.StatementRow, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		return ParseXLSX(r)
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return ParseCSV(r)
	default:
		return nil, fmt.Errorf("unsupported statement format %q, expected .csv or .xlsx", filename)
	}
}
