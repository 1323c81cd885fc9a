package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportAccountLine is one account row on a financial report.
type ReportAccountLine struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// ProfitLossReport is the income statement over a period.
type ProfitLossReport struct {
	From          time.Time           `json:"from"`
	To            time.Time           `json:"to"`
	Income        []ReportAccountLine `json:"income"`
	Expenses      []ReportAccountLine `json:"expenses"`
	TotalIncome   decimal.Decimal     `json:"totalIncome"`
	TotalExpenses decimal.Decimal     `json:"totalExpenses"`
	NetProfit     decimal.Decimal     `json:"netProfit"`
}

// BalanceSheetReport is the statement of financial position as of a date.
type BalanceSheetReport struct {
	AsOf                      time.Time           `json:"asOf"`
	Assets                    []ReportAccountLine `json:"assets"`
	Liabilities               []ReportAccountLine `json:"liabilities"`
	Equity                    []ReportAccountLine `json:"equity"`
	TotalAssets               decimal.Decimal     `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal     `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal     `json:"totalEquity"`
	RetainedEarnings          decimal.Decimal     `json:"retainedEarnings"`
	TotalLiabilitiesAndEquity decimal.Decimal     `json:"totalLiabilitiesAndEquity"`
}

// AgingBuckets splits an outstanding balance by days past due.
type AgingBuckets struct {
	Current   decimal.Decimal `json:"current"`
	Days1_30  decimal.Decimal `json:"days_1_30"`
	Days31_60 decimal.Decimal `json:"days_31_60"`
	Days61_90 decimal.Decimal `json:"days_61_90"`
	Over90    decimal.Decimal `json:"over_90"`
}

// Total sums all buckets.
func (b AgingBuckets) Total() decimal.Decimal {
	return b.Current.Add(b.Days1_30).Add(b.Days31_60).Add(b.Days61_90).Add(b.Over90)
}

// CustomerAgingRow is one customer's aged receivables.
type CustomerAgingRow struct {
	CustomerID   string          `json:"customerID"`
	CustomerName string          `json:"customerName"`
	Buckets      AgingBuckets    `json:"buckets"`
	Total        decimal.Decimal `json:"total"`
}

// CustomerAgingReport buckets outstanding invoice balances by days past due.
type CustomerAgingReport struct {
	AsOf      time.Time          `json:"asOf"`
	Customers []CustomerAgingRow `json:"customers"`
	Totals    AgingBuckets       `json:"totals"`
	Total     decimal.Decimal    `json:"total"`
}

// BASValidation is one self-check on the BAS figures.
type BASValidation struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// BASReport is the Australian GST Business Activity Statement for a period.
// Field names follow the ATO BAS labels.
type BASReport struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Quarter string    `json:"quarter"` // e.g. "Q1 2025-26"

	// Sales (GST on sales)
	G1 decimal.Decimal `json:"g1"` // total sales including GST
	G2 decimal.Decimal `json:"g2"` // export sales
	G3 decimal.Decimal `json:"g3"` // other GST-free sales
	G4 decimal.Decimal `json:"g4"` // input taxed sales
	G7 decimal.Decimal `json:"g7"` // sales adjustments, GST inclusive

	// Purchases (GST on purchases)
	G10 decimal.Decimal `json:"g10"` // capital purchases including GST
	G11 decimal.Decimal `json:"g11"` // non-capital purchases including GST
	G13 decimal.Decimal `json:"g13"` // purchases for input taxed sales
	G14 decimal.Decimal `json:"g14"` // purchases without GST

	GSTOnSales     decimal.Decimal `json:"gstOnSales"`     // 1A = (G1 - G2 - G3 - G4 + G7) / 11
	GSTOnPurchases decimal.Decimal `json:"gstOnPurchases"` // 1B = (G10 + G11) / 11
	NetGST         decimal.Decimal `json:"netGst"`         // 1A - 1B

	Validations []BASValidation `json:"validations"`
}
