package services

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/shopspring/decimal"
)

// ReportingSvcFacade defines the financial reports.
type ReportingSvcFacade interface {
	// ProfitLoss builds an income statement over the period.
	ProfitLoss(ctx context.Context, organizationID string, from, to time.Time, requestingUserID string) (*dto.ProfitLossReport, error)

	// BalanceSheet builds a balance sheet as of a date, including year-to-date
	// retained earnings.
	BalanceSheet(ctx context.Context, organizationID string, asOf time.Time, requestingUserID string) (*dto.BalanceSheetReport, error)

	// CustomerAging buckets outstanding invoice balances by days past due.
	CustomerAging(ctx context.Context, organizationID string, asOf time.Time, requestingUserID string) (*dto.CustomerAgingReport, error)

	// BAS builds the Australian GST Business Activity Statement for the period.
	// adjustments is the G7 sales adjustment figure, GST inclusive.
	BAS(ctx context.Context, organizationID string, from, to time.Time, adjustments decimal.Decimal, requestingUserID string) (*dto.BASReport, error)
}
