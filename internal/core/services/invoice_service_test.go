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
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockCustomerRepo *MockCustomerRepository
	mockItemRepo     *MockItemRepository
	mockTaxCodeRepo  *MockTaxCodeRepository
	mockJournalRepo  *MockJournalRepository
	mockJournalSvc   *MockJournalWriterSvc
	mockAccountSvc   *MockAccountSvc
	mockOrgSvc       *MockOrganizationAuthorizer
	service          portssvc.InvoiceSvcFacade
	organizationID   string
	userID           string
	customer         domain.Customer
	gstCode          domain.TaxCode
	receivable       domain.Account
	sales            domain.Account
	gstCollected     domain.Account
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockItemRepo = new(MockItemRepository)
	suite.mockTaxCodeRepo = new(MockTaxCodeRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockJournalSvc = new(MockJournalWriterSvc)
	suite.mockAccountSvc = new(MockAccountSvc)
	suite.mockOrgSvc = new(MockOrganizationAuthorizer)
	suite.service = services.NewInvoiceService(
		suite.mockInvoiceRepo,
		suite.mockCustomerRepo,
		suite.mockItemRepo,
		suite.mockTaxCodeRepo,
		suite.mockJournalRepo,
		suite.mockJournalSvc,
		suite.mockAccountSvc,
		suite.mockOrgSvc,
	)

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.customer = domain.Customer{
		CustomerID:     uuid.NewString(),
		OrganizationID: suite.organizationID,
		DisplayName:    "Wattle Designs",
		Currency:       "AUD",
		IsActive:       true,
	}
	suite.gstCode = domain.TaxCode{
		TaxCodeID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "GST",
		TaxType:        domain.TaxGSTStandard,
		Rate:           decimal.NewFromInt(10),
		IsActive:       true,
	}
	suite.receivable = domain.Account{AccountID: uuid.NewString(), OrganizationID: suite.organizationID, AccountType: domain.Asset, IsActive: true}
	suite.sales = domain.Account{AccountID: uuid.NewString(), OrganizationID: suite.organizationID, AccountType: domain.Income, IsActive: true}
	suite.gstCollected = domain.Account{AccountID: uuid.NewString(), OrganizationID: suite.organizationID, AccountType: domain.Liability, IsActive: true}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	invoiceDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateInvoiceRequest{
		CustomerID:  suite.customer.CustomerID,
		InvoiceDate: invoiceDate,
		DueDate:     invoiceDate.AddDate(0, 0, 14),
		LineItems: []dto.InvoiceLineRequest{
			{Description: "Design work", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(150), TaxCodeID: &suite.gstCode.TaxCodeID},
			{Description: "Travel", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(200)},
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.organizationID, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockInvoiceRepo.On("NextInvoiceNumber", ctx, suite.organizationID).Return("INV-00001", nil).Once()
	suite.mockTaxCodeRepo.On("FindTaxCodeByID", ctx, suite.organizationID, suite.gstCode.TaxCodeID).Return(&suite.gstCode, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.Equal("INV-00001", invoice.InvoiceNumber)
	suite.Equal(domain.InvoiceDraft, invoice.Status)
	suite.Equal("AUD", invoice.Currency)
	suite.True(invoice.Subtotal.Equal(decimal.NewFromInt(500)), "subtotal %s", invoice.Subtotal)
	suite.True(invoice.TaxAmount.Equal(decimal.NewFromInt(30)), "tax %s", invoice.TaxAmount)
	suite.True(invoice.Total.Equal(decimal.NewFromInt(530)), "total %s", invoice.Total)
	suite.True(invoice.Balance.Equal(decimal.NewFromInt(530)))
	suite.Len(invoice.LineItems, 2)
	suite.True(invoice.LineItems[0].TaxAmount.Equal(decimal.NewFromInt(30)))
	suite.True(invoice.LineItems[1].TaxAmount.IsZero())

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockTaxCodeRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DueDateBeforeInvoiceDate() {
	ctx := context.Background()
	invoiceDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateInvoiceRequest{
		CustomerID:  suite.customer.CustomerID,
		InvoiceDate: invoiceDate,
		DueDate:     invoiceDate.AddDate(0, 0, -1),
		LineItems: []dto.InvoiceLineRequest{
			{Description: "Design work", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(100)},
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_InactiveCustomer() {
	ctx := context.Background()
	inactive := suite.customer
	inactive.IsActive = false
	invoiceDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateInvoiceRequest{
		CustomerID:  inactive.CustomerID,
		InvoiceDate: invoiceDate,
		DueDate:     invoiceDate.AddDate(0, 0, 7),
		LineItems: []dto.InvoiceLineRequest{
			{Description: "Design work", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(100)},
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.organizationID, inactive.CustomerID).Return(&inactive, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DiscountExceedsSubtotal() {
	ctx := context.Background()
	invoiceDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	discount := decimal.NewFromInt(1000)
	req := dto.CreateInvoiceRequest{
		CustomerID:     suite.customer.CustomerID,
		InvoiceDate:    invoiceDate,
		DueDate:        invoiceDate.AddDate(0, 0, 7),
		DiscountAmount: &discount,
		LineItems: []dto.InvoiceLineRequest{
			{Description: "Design work", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(100)},
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.organizationID, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockInvoiceRepo.On("NextInvoiceNumber", ctx, suite.organizationID).Return("INV-00002", nil).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_Success() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:      invoiceID,
		OrganizationID: suite.organizationID,
		InvoiceNumber:  "INV-00003",
		InvoiceDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CustomerID:     suite.customer.CustomerID,
		Subtotal:       decimal.NewFromInt(500),
		TaxAmount:      decimal.NewFromInt(30),
		DiscountAmount: decimal.NewFromInt(50),
		Total:          decimal.NewFromInt(480),
		Balance:        decimal.NewFromInt(480),
		Status:         domain.InvoiceDraft,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.organizationID, invoiceID).Return(invoice, nil).Once()
	suite.mockAccountSvc.On("ResolveTaggedAccount", ctx, suite.organizationID, domain.TagReceivable, suite.userID).Return(&suite.receivable, nil).Once()
	suite.mockAccountSvc.On("ResolveTaggedAccount", ctx, suite.organizationID, domain.TagSales, suite.userID).Return(&suite.sales, nil).Once()
	suite.mockAccountSvc.On("ResolveTaggedAccount", ctx, suite.organizationID, domain.TagGSTCollected, suite.userID).Return(&suite.gstCollected, nil).Once()

	suite.mockJournalSvc.On("PostEntry", ctx, suite.organizationID, mock.MatchedBy(func(input portssvc.PostEntryInput) bool {
		if input.SourceType != domain.SourceInvoice || input.SourceID == nil || *input.SourceID != invoiceID {
			return false
		}
		if len(input.LineItems) != 3 {
			return false
		}
		return input.LineItems[0].Debit.Equal(decimal.NewFromInt(480)) &&
			input.LineItems[1].Credit.Equal(decimal.NewFromInt(450)) &&
			input.LineItems[2].Credit.Equal(decimal.NewFromInt(30))
	}), suite.userID).Return(&domain.JournalEntry{EntryID: uuid.NewString()}, nil).Once()

	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, suite.organizationID, invoiceID, domain.InvoiceSent, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	sent, err := suite.service.SendInvoice(ctx, suite.organizationID, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, sent.Status)
	suite.mockJournalSvc.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_NotDraft() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:      invoiceID,
		OrganizationID: suite.organizationID,
		InvoiceNumber:  "INV-00004",
		Status:         domain.InvoiceSent,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.organizationID, invoiceID).Return(invoice, nil).Once()

	_, err := suite.service.SendInvoice(ctx, suite.organizationID, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_Success() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:      invoiceID,
		OrganizationID: suite.organizationID,
		InvoiceNumber:  "INV-00005",
		Status:         domain.InvoiceSent,
		PaidAmount:     decimal.Zero,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.organizationID, invoiceID).Return(invoice, nil).Once()
	suite.mockJournalRepo.On("DeleteEntriesBySource", ctx, suite.organizationID, domain.SourceInvoice, invoiceID).Return(nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, suite.organizationID, invoiceID, domain.InvoiceCancelled, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	cancelled, err := suite.service.CancelInvoice(ctx, suite.organizationID, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceCancelled, cancelled.Status)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_WithPayments() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:      invoiceID,
		OrganizationID: suite.organizationID,
		InvoiceNumber:  "INV-00006",
		Status:         domain.InvoiceSent,
		PaidAmount:     decimal.NewFromInt(100),
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.organizationID, invoiceID).Return(invoice, nil).Once()

	_, err := suite.service.CancelInvoice(ctx, suite.organizationID, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteEntriesBySource", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_NotDraft() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:      invoiceID,
		OrganizationID: suite.organizationID,
		InvoiceNumber:  "INV-00007",
		Status:         domain.InvoiceSent,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.organizationID, invoiceID).Return(invoice, nil).Once()

	err := suite.service.DeleteInvoice(ctx, suite.organizationID, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "DeleteInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestMarkOverdueInvoices() {
	ctx := context.Background()
	asOf := time.Date(2025, 8, 1, 2, 0, 0, 0, time.UTC)
	sentInvoice := domain.Invoice{
		InvoiceID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Status:         domain.InvoiceSent,
	}
	draftInvoice := domain.Invoice{
		InvoiceID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Status:         domain.InvoiceDraft,
	}

	suite.mockInvoiceRepo.On("ListPastDueInvoices", ctx, asOf).Return([]domain.Invoice{sentInvoice, draftInvoice}, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, suite.organizationID, sentInvoice.InvoiceID, domain.InvoiceOverdue, "system", asOf).Return(nil).Once()

	updated, err := suite.service.MarkOverdueInvoices(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(1, updated)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
