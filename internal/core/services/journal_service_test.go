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

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	mockOrgSvc       *MockOrganizationAuthorizer
	service          portssvc.JournalSvcFacade
	organizationID   string
	userID           string
	assetAccount     domain.Account
	liabilityAccount domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockOrgSvc = new(MockOrganizationAuthorizer)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockOrgSvc)

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.assetAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "1010",
		Name:           "Business Cheque Account",
		AccountType:    domain.Asset,
		IsActive:       true,
	}
	suite.liabilityAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "2100",
		Name:           "Business Loan",
		AccountType:    domain.Liability,
		IsActive:       true,
	}
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date:        time.Now(),
		Description: "Loan drawdown",
		LineItems: []dto.CreateJournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(5000)},
			{AccountID: suite.liabilityAccount.AccountID, Credit: decimal.NewFromInt(5000)},
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()

	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID:     suite.assetAccount,
		suite.liabilityAccount.AccountID: suite.liabilityAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.organizationID, []string{suite.assetAccount.AccountID, suite.liabilityAccount.AccountID}).Return(accountsMap, nil).Once()

	suite.mockJournalRepo.On("NextEntryNumber", ctx, suite.organizationID).Return("JE000001", nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal("JE000001", entry.EntryNumber)
	suite.Equal(domain.SourceManual, entry.SourceType)
	suite.Equal(suite.userID, entry.CreatedBy)
	suite.True(entry.DebitTotal.Equal(decimal.NewFromInt(5000)))
	suite.True(entry.CreditTotal.Equal(decimal.NewFromInt(5000)))
	suite.Len(entry.LineItems, 2)
	suite.Equal(entry.EntryID, entry.LineItems[0].EntryID)

	suite.mockOrgSvc.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date:        time.Now(),
		Description: "Does not balance",
		LineItems: []dto.CreateJournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.liabilityAccount.AccountID, Credit: decimal.NewFromInt(90)},
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
	suite.mockOrgSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_LineWithBothSides() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date:        time.Now(),
		Description: "Two-sided line",
		LineItems: []dto.CreateJournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)},
			{AccountID: suite.liabilityAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrgSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.assetAccount
	inactive.IsActive = false
	req := dto.CreateJournalEntryRequest{
		Date:        time.Now(),
		Description: "Posting to closed account",
		LineItems: []dto.CreateJournalLineRequest{
			{AccountID: inactive.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.liabilityAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()

	accountsMap := map[string]domain.Account{
		inactive.AccountID:               inactive,
		suite.liabilityAccount.AccountID: suite.liabilityAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.organizationID, []string{inactive.AccountID, suite.liabilityAccount.AccountID}).Return(accountsMap, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_AuthorizationFailure() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date:        time.Now(),
		Description: "No access",
		LineItems: []dto.CreateJournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.liabilityAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockOrgSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestGetEntryByID_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		EntryNumber:    "JE000007",
		SourceType:     domain.SourceManual,
	}
	lines := []domain.JournalLineItem{
		{LineItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(42)},
		{LineItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.liabilityAccount.AccountID, Credit: decimal.NewFromInt(42)},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLineItemsByEntryID", ctx, entryID).Return(lines, nil).Once()

	found, err := suite.service.GetEntryByID(ctx, suite.organizationID, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.Len(found.LineItems, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestGetEntryByID_WrongOrganization() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: uuid.NewString(),
		SourceType:     domain.SourceManual,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(entry, nil).Once()

	found, err := suite.service.GetEntryByID(ctx, suite.organizationID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(found)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindLineItemsByEntryID", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		EntryNumber:    "JE000003",
		SourceType:     domain.SourceManual,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("HasReconciliationMatches", ctx, entryID).Return(false, nil).Once()
	suite.mockJournalRepo.On("DeleteEntry", ctx, suite.organizationID, entryID).Return(nil).Once()

	err := suite.service.DeleteEntry(ctx, suite.organizationID, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_SystemGenerated() {
	ctx := context.Background()
	entryID := uuid.NewString()
	sourceID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		EntryNumber:    "JE000004",
		SourceType:     domain.SourceInvoice,
		SourceID:       &sourceID,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(entry, nil).Once()

	err := suite.service.DeleteEntry(ctx, suite.organizationID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_ConsumedByReconciliation() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		EntryNumber:    "JE000005",
		SourceType:     domain.SourceManual,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("HasReconciliationMatches", ctx, entryID).Return(true, nil).Once()

	err := suite.service.DeleteEntry(ctx, suite.organizationID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
