package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockAccountRepo   *MockAccountRepository
	mockCustomerRepo  *MockCustomerRepository
	mockOrgSvc        *MockOrganizationAuthorizer
	service           portssvc.ReportingSvcFacade
	organizationID    string
	userID            string
	salesAccount      domain.Account
	rentAccount       domain.Account
	bankAccount       domain.Account
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockOrgSvc = new(MockOrganizationAuthorizer)
	suite.service = services.NewReportingService(
		suite.mockReportingRepo,
		suite.mockAccountRepo,
		suite.mockCustomerRepo,
		suite.mockOrgSvc,
	)

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.salesAccount = domain.Account{AccountID: uuid.NewString(), Code: "4000", Name: "Sales", AccountType: domain.Income, IsActive: true}
	suite.rentAccount = domain.Account{AccountID: uuid.NewString(), Code: "6100", Name: "Rent", AccountType: domain.Expense, IsActive: true}
	suite.bankAccount = domain.Account{AccountID: uuid.NewString(), Code: "1010", Name: "Business Cheque Account", AccountType: domain.Asset, IsActive: true}
}

func (suite *ReportingServiceTestSuite) TestProfitLoss() {
	ctx := context.Background()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

	// Income carries a credit balance, so its net movement is negative.
	movements := map[string]decimal.Decimal{
		suite.salesAccount.AccountID: decimal.NewFromInt(-1000),
		suite.rentAccount.AccountID:  decimal.NewFromInt(400),
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAccountRepo.On("ListAccounts", ctx, suite.organizationID, true).Return([]domain.Account{suite.salesAccount, suite.rentAccount, suite.bankAccount}, nil).Once()
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.organizationID, &from, to).Return(movements, nil).Once()

	report, err := suite.service.ProfitLoss(ctx, suite.organizationID, from, to, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Income, 1)
	suite.Require().Len(report.Expenses, 1)
	suite.True(report.TotalIncome.Equal(decimal.NewFromInt(1000)), "income %s", report.TotalIncome)
	suite.True(report.TotalExpenses.Equal(decimal.NewFromInt(400)), "expenses %s", report.TotalExpenses)
	suite.True(report.NetProfit.Equal(decimal.NewFromInt(600)), "net profit %s", report.NetProfit)
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_Balances() {
	ctx := context.Background()
	asOf := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

	// Assets 600 are funded entirely by accumulated profit (1000 - 400).
	movements := map[string]decimal.Decimal{
		suite.bankAccount.AccountID:  decimal.NewFromInt(600),
		suite.salesAccount.AccountID: decimal.NewFromInt(-1000),
		suite.rentAccount.AccountID:  decimal.NewFromInt(400),
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAccountRepo.On("ListAccounts", ctx, suite.organizationID, true).Return([]domain.Account{suite.salesAccount, suite.rentAccount, suite.bankAccount}, nil).Once()
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.organizationID, (*time.Time)(nil), asOf).Return(movements, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.organizationID, asOf, suite.userID)

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(600)))
	suite.True(report.RetainedEarnings.Equal(decimal.NewFromInt(600)))
	suite.True(report.TotalLiabilitiesAndEquity.Equal(report.TotalAssets), "liabilities+equity %s vs assets %s", report.TotalLiabilitiesAndEquity, report.TotalAssets)
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestCustomerAging_Buckets() {
	ctx := context.Background()
	asOf := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	customer := domain.Customer{CustomerID: uuid.NewString(), DisplayName: "Wattle Designs", IsActive: true}
	invoices := []domain.Invoice{
		{
			InvoiceID:  uuid.NewString(),
			CustomerID: customer.CustomerID,
			DueDate:    asOf.AddDate(0, 0, -10),
			Balance:    decimal.NewFromInt(100),
			Status:     domain.InvoiceOverdue,
		},
		{
			InvoiceID:  uuid.NewString(),
			CustomerID: customer.CustomerID,
			DueDate:    asOf.AddDate(0, 0, -45),
			Balance:    decimal.NewFromInt(200),
			Status:     domain.InvoiceOverdue,
		},
		{
			InvoiceID:  uuid.NewString(),
			CustomerID: customer.CustomerID,
			DueDate:    asOf.AddDate(0, 0, 14),
			Balance:    decimal.NewFromInt(50),
			Status:     domain.InvoiceSent,
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockReportingRepo.On("ListOpenInvoices", ctx, suite.organizationID).Return(invoices, nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.organizationID, customer.CustomerID).Return(&customer, nil).Once()

	report, err := suite.service.CustomerAging(ctx, suite.organizationID, asOf, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Customers, 1)
	row := report.Customers[0]
	suite.Equal("Wattle Designs", row.CustomerName)
	suite.True(row.Buckets.Current.Equal(decimal.NewFromInt(50)), "current %s", row.Buckets.Current)
	suite.True(row.Buckets.Days1_30.Equal(decimal.NewFromInt(100)), "1-30 %s", row.Buckets.Days1_30)
	suite.True(row.Buckets.Days31_60.Equal(decimal.NewFromInt(200)), "31-60 %s", row.Buckets.Days31_60)
	suite.True(row.Total.Equal(decimal.NewFromInt(350)))
	suite.True(report.Total.Equal(decimal.NewFromInt(350)))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestBAS_GSTFigures() {
	ctx := context.Background()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

	sales := map[domain.TaxType]decimal.Decimal{
		domain.TaxGSTStandard: decimal.NewFromInt(1100),
		domain.TaxGSTFree:     decimal.NewFromInt(200),
		domain.TaxExport:      decimal.NewFromInt(300),
	}
	purchases := map[domain.TaxType]decimal.Decimal{
		domain.TaxGSTStandard:        decimal.NewFromInt(550),
		domain.TaxCapitalAcquisition: decimal.NewFromInt(220),
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockReportingRepo.On("SalesByTaxType", ctx, suite.organizationID, from, to).Return(sales, nil).Once()
	suite.mockReportingRepo.On("PurchasesByTaxType", ctx, suite.organizationID, from, to).Return(purchases, nil).Once()
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.organizationID, &from, to).Return(map[string]decimal.Decimal{}, nil).Once()

	// No tagged GST accounts configured, so the ledger checks are skipped.
	suite.mockAccountRepo.On("FindAccountBySystemTag", ctx, suite.organizationID, domain.TagGSTCollected).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountBySystemTag", ctx, suite.organizationID, domain.TagGSTPaid).Return(nil, apperrors.ErrNotFound).Once()

	report, err := suite.service.BAS(ctx, suite.organizationID, from, to, decimal.Zero, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("Q1 2025-26", report.Quarter)
	suite.True(report.G1.Equal(decimal.NewFromInt(1600)), "G1 %s", report.G1)
	suite.True(report.G2.Equal(decimal.NewFromInt(300)))
	suite.True(report.G3.Equal(decimal.NewFromInt(200)))
	suite.True(report.GSTOnSales.Equal(decimal.NewFromInt(100)), "1A %s", report.GSTOnSales)
	suite.True(report.GSTOnPurchases.Equal(decimal.NewFromInt(70)), "1B %s", report.GSTOnPurchases)
	suite.True(report.NetGST.Equal(decimal.NewFromInt(30)), "net GST %s", report.NetGST)

	suite.Require().Len(report.Validations, 3)
	for _, validation := range report.Validations {
		suite.True(validation.Passed, "validation %q failed: %s", validation.Check, validation.Message)
	}
	suite.mockReportingRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestBAS_SalesAdjustmentsFeedG7() {
	ctx := context.Background()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

	sales := map[domain.TaxType]decimal.Decimal{
		domain.TaxGSTStandard: decimal.NewFromInt(1100),
	}
	purchases := map[domain.TaxType]decimal.Decimal{}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockReportingRepo.On("SalesByTaxType", ctx, suite.organizationID, from, to).Return(sales, nil).Once()
	suite.mockReportingRepo.On("PurchasesByTaxType", ctx, suite.organizationID, from, to).Return(purchases, nil).Once()
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.organizationID, &from, to).Return(map[string]decimal.Decimal{}, nil).Once()
	suite.mockAccountRepo.On("FindAccountBySystemTag", ctx, suite.organizationID, domain.TagGSTCollected).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountBySystemTag", ctx, suite.organizationID, domain.TagGSTPaid).Return(nil, apperrors.ErrNotFound).Once()

	// A $110 GST-inclusive sales adjustment adds $10 of GST to 1A.
	report, err := suite.service.BAS(ctx, suite.organizationID, from, to, decimal.NewFromInt(110), suite.userID)

	suite.Require().NoError(err)
	suite.True(report.G7.Equal(decimal.NewFromInt(110)))
	suite.True(report.GSTOnSales.Equal(decimal.NewFromInt(110)), "1A %s", report.GSTOnSales)
	suite.True(report.NetGST.Equal(decimal.NewFromInt(110)), "net GST %s", report.NetGST)
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestProfitLoss_AuthorizationFailure() {
	ctx := context.Background()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ProfitLoss(ctx, suite.organizationID, from, to, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "AccountMovements", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
