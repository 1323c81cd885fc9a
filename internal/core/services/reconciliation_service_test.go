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

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconRepo   *MockReconciliationRepository
	mockBankTxnRepo *MockBankTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockJournalRepo *MockJournalRepository
	mockJournalSvc  *MockJournalWriterSvc
	mockOrgSvc      *MockOrganizationAuthorizer
	service         portssvc.ReconciliationSvcFacade
	organizationID  string
	userID          string
	bankAccount     domain.Account
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockBankTxnRepo = new(MockBankTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockJournalSvc = new(MockJournalWriterSvc)
	suite.mockOrgSvc = new(MockOrganizationAuthorizer)
	suite.service = services.NewReconciliationService(
		suite.mockReconRepo,
		suite.mockBankTxnRepo,
		suite.mockAccountRepo,
		suite.mockJournalRepo,
		suite.mockJournalSvc,
		suite.mockOrgSvc,
	)

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.bankAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "1010",
		Name:           "Business Cheque Account",
		AccountType:    domain.Asset,
		IsActive:       true,
	}
}

func (suite *ReconciliationServiceTestSuite) openReconciliation() *domain.BankReconciliation {
	return &domain.BankReconciliation{
		ReconciliationID:       uuid.NewString(),
		OrganizationID:         suite.organizationID,
		AccountID:              suite.bankAccount.AccountID,
		StatementDate:          time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		StatementEndingBalance: decimal.NewFromInt(10050),
		BookEndingBalance:      decimal.NewFromInt(10000),
		Difference:             decimal.NewFromInt(50),
		Status:                 domain.ReconInProgress,
		Version:                1,
	}
}

func (suite *ReconciliationServiceTestSuite) TestStartReconciliation() {
	ctx := context.Background()
	req := dto.StartReconciliationRequest{
		AccountID:              suite.bankAccount.AccountID,
		StatementDate:          time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		StatementEndingBalance: decimal.NewFromInt(10050),
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.organizationID, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockAccountRepo.On("CalculateAccountBalance", ctx, suite.organizationID, suite.bankAccount.AccountID, mock.AnythingOfType("*time.Time")).Return(decimal.NewFromInt(10000), nil).Once()
	suite.mockReconRepo.On("SaveReconciliation", ctx, mock.AnythingOfType("domain.BankReconciliation")).Return(nil).Once()

	recon, err := suite.service.StartReconciliation(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(recon)
	suite.Equal(domain.ReconInProgress, recon.Status)
	suite.Equal(int64(1), recon.Version)
	suite.True(recon.BookEndingBalance.Equal(decimal.NewFromInt(10000)))
	suite.True(recon.Difference.Equal(decimal.NewFromInt(50)), "difference %s", recon.Difference)

	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestAutoMatch_MatchesByDateAndAmount() {
	ctx := context.Background()
	recon := suite.openReconciliation()
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	deposit := domain.BankTransaction{
		TransactionID:  uuid.NewString(),
		OrganizationID: suite.organizationID,
		AccountID:      suite.bankAccount.AccountID,
		Date:           date,
		Amount:         decimal.NewFromInt(500),
		Status:         domain.TxnUnmatched,
		Version:        1,
	}
	withdrawal := domain.BankTransaction{
		TransactionID:  uuid.NewString(),
		OrganizationID: suite.organizationID,
		AccountID:      suite.bankAccount.AccountID,
		Date:           date,
		Amount:         decimal.NewFromInt(-200),
		Status:         domain.TxnUnmatched,
		Version:        1,
	}
	candidate := domain.JournalLineItem{
		LineItemID: uuid.NewString(),
		AccountID:  suite.bankAccount.AccountID,
		Debit:      decimal.NewFromInt(500),
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.organizationID, recon.ReconciliationID).Return(recon, nil).Once()
	suite.mockBankTxnRepo.On("ListUnmatchedTransactions", ctx, suite.organizationID, recon.AccountID, recon.StatementDate).Return([]domain.BankTransaction{deposit, withdrawal}, nil).Once()

	// The deposit finds a matching debit line; the withdrawal finds nothing.
	suite.mockReconRepo.On("FindCandidateLines", ctx, suite.organizationID, recon.AccountID, date, decimalEqual(500), decimalEqual(0)).Return([]domain.JournalLineItem{candidate}, nil).Once()
	suite.mockReconRepo.On("FindCandidateLines", ctx, suite.organizationID, recon.AccountID, date, decimalEqual(0), decimalEqual(200)).Return([]domain.JournalLineItem{}, nil).Once()

	suite.mockReconRepo.On("SaveMatch", ctx, mock.MatchedBy(func(match domain.ReconciliationMatch) bool {
		return match.BankTransactionID == deposit.TransactionID &&
			match.JournalLineItemID == candidate.LineItemID &&
			match.MatchType == domain.MatchAutomatic
	})).Return(nil).Once()
	suite.mockBankTxnRepo.On("UpdateBankTransactionStatus", ctx, deposit.TransactionID, domain.TxnMatched, int64(1), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.AutoMatch(ctx, suite.organizationID, recon.ReconciliationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Matched)
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockBankTxnRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestAutoMatch_SkipsConsumedTransaction() {
	ctx := context.Background()
	recon := suite.openReconciliation()
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	deposit := domain.BankTransaction{
		TransactionID:  uuid.NewString(),
		OrganizationID: suite.organizationID,
		AccountID:      suite.bankAccount.AccountID,
		Date:           date,
		Amount:         decimal.NewFromInt(500),
		Status:         domain.TxnUnmatched,
		Version:        1,
	}
	candidate := domain.JournalLineItem{
		LineItemID: uuid.NewString(),
		AccountID:  suite.bankAccount.AccountID,
		Debit:      decimal.NewFromInt(500),
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.organizationID, recon.ReconciliationID).Return(recon, nil).Once()
	suite.mockBankTxnRepo.On("ListUnmatchedTransactions", ctx, suite.organizationID, recon.AccountID, recon.StatementDate).Return([]domain.BankTransaction{deposit}, nil).Once()
	suite.mockReconRepo.On("FindCandidateLines", ctx, suite.organizationID, recon.AccountID, date, decimalEqual(500), decimalEqual(0)).Return([]domain.JournalLineItem{candidate}, nil).Once()
	suite.mockReconRepo.On("SaveMatch", ctx, mock.AnythingOfType("domain.ReconciliationMatch")).Return(apperrors.ErrDuplicate).Once()

	result, err := suite.service.AutoMatch(ctx, suite.organizationID, recon.ReconciliationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, result.Matched)
	suite.mockBankTxnRepo.AssertNotCalled(suite.T(), "UpdateBankTransactionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestManualMatch_ClosedReconciliation() {
	ctx := context.Background()
	recon := suite.openReconciliation()
	recon.Status = domain.ReconCompleted

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.organizationID, recon.ReconciliationID).Return(recon, nil).Once()

	_, err := suite.service.ManualMatch(ctx, suite.organizationID, recon.ReconciliationID, dto.ManualMatchRequest{
		BankTransactionID: uuid.NewString(),
		JournalLineItemID: uuid.NewString(),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveMatch", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCreateEntryFromTransaction_Withdrawal() {
	ctx := context.Background()
	recon := suite.openReconciliation()
	contraAccount := domain.Account{AccountID: uuid.NewString(), OrganizationID: suite.organizationID, AccountType: domain.Expense, IsActive: true}
	txn := &domain.BankTransaction{
		TransactionID:  uuid.NewString(),
		OrganizationID: suite.organizationID,
		AccountID:      suite.bankAccount.AccountID,
		Date:           time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Description:    "Account keeping fee",
		Amount:         decimal.NewFromInt(-50),
		Status:         domain.TxnUnmatched,
		Version:        3,
	}
	bankLineID := uuid.NewString()
	postedEntry := &domain.JournalEntry{
		EntryID: uuid.NewString(),
		LineItems: []domain.JournalLineItem{
			{LineItemID: uuid.NewString(), AccountID: contraAccount.AccountID, Debit: decimal.NewFromInt(50)},
			{LineItemID: bankLineID, AccountID: suite.bankAccount.AccountID, Credit: decimal.NewFromInt(50)},
		},
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.organizationID, recon.ReconciliationID).Return(recon, nil).Once()
	suite.mockBankTxnRepo.On("FindBankTransactionByID", ctx, suite.organizationID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.organizationID, contraAccount.AccountID).Return(&contraAccount, nil).Once()

	suite.mockJournalSvc.On("PostEntry", ctx, suite.organizationID, mock.MatchedBy(func(input portssvc.PostEntryInput) bool {
		if input.SourceType != domain.SourceReconciliation || len(input.LineItems) != 2 {
			return false
		}
		return input.LineItems[0].AccountID == contraAccount.AccountID &&
			input.LineItems[0].Debit.Equal(decimal.NewFromInt(50)) &&
			input.LineItems[1].AccountID == suite.bankAccount.AccountID &&
			input.LineItems[1].Credit.Equal(decimal.NewFromInt(50))
	}), suite.userID).Return(postedEntry, nil).Once()

	suite.mockReconRepo.On("SaveMatch", ctx, mock.MatchedBy(func(match domain.ReconciliationMatch) bool {
		return match.MatchType == domain.MatchCreated && match.JournalLineItemID == bankLineID
	})).Return(nil).Once()
	suite.mockBankTxnRepo.On("UpdateBankTransactionStatus", ctx, txn.TransactionID, domain.TxnMatched, int64(3), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	match, err := suite.service.CreateEntryFromTransaction(ctx, suite.organizationID, recon.ReconciliationID, dto.CreateEntryFromTransactionRequest{
		BankTransactionID: txn.TransactionID,
		ContraAccountID:   contraAccount.AccountID,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.MatchCreated, match.MatchType)
	suite.mockJournalSvc.AssertExpectations(suite.T())
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockBankTxnRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestComplete_WithinTolerance() {
	ctx := context.Background()
	recon := suite.openReconciliation()
	recon.Version = 2
	txn := &domain.BankTransaction{
		TransactionID:  uuid.NewString(),
		OrganizationID: suite.organizationID,
		AccountID:      suite.bankAccount.AccountID,
		Status:         domain.TxnMatched,
		Version:        4,
	}
	match := domain.ReconciliationMatch{
		MatchID:           uuid.NewString(),
		ReconciliationID:  recon.ReconciliationID,
		BankTransactionID: txn.TransactionID,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.organizationID, recon.ReconciliationID).Return(recon, nil).Once()

	// The matched $50 deposit explains the full statement gap.
	suite.mockReconRepo.On("SumMatchedAmounts", ctx, recon.ReconciliationID).Return(decimal.NewFromInt(50), nil).Once()

	suite.mockReconRepo.On("FindMatchesByReconciliationID", ctx, recon.ReconciliationID).Return([]domain.ReconciliationMatch{match}, nil).Once()
	suite.mockBankTxnRepo.On("FindBankTransactionByID", ctx, suite.organizationID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockBankTxnRepo.On("UpdateBankTransactionStatus", ctx, txn.TransactionID, domain.TxnReconciled, int64(4), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReconRepo.On("UpdateReconciliationStatus", ctx, recon.ReconciliationID, domain.ReconCompleted, decimalEqual(0), int64(2), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	completed, err := suite.service.Complete(ctx, suite.organizationID, recon.ReconciliationID, dto.CompleteReconciliationRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconCompleted, completed.Status)
	suite.Equal(int64(3), completed.Version)
	suite.True(completed.Difference.IsZero())
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockBankTxnRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestComplete_NothingMatchedRejected() {
	ctx := context.Background()
	recon := suite.openReconciliation()

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.organizationID, recon.ReconciliationID).Return(recon, nil).Once()
	suite.mockReconRepo.On("SumMatchedAmounts", ctx, recon.ReconciliationID).Return(decimal.Zero, nil).Once()

	_, err := suite.service.Complete(ctx, suite.organizationID, recon.ReconciliationID, dto.CompleteReconciliationRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	// Completion judges the session's own figures only; the live ledger balance
	// must never substitute for the matched amounts.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "CalculateAccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "UpdateReconciliationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestComplete_PartiallyMatchedRejected() {
	ctx := context.Background()
	recon := suite.openReconciliation()

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.organizationID, recon.ReconciliationID).Return(recon, nil).Once()

	// Only $30 of the $50 statement gap is explained by matches.
	suite.mockReconRepo.On("SumMatchedAmounts", ctx, recon.ReconciliationID).Return(decimal.NewFromInt(30), nil).Once()

	_, err := suite.service.Complete(ctx, suite.organizationID, recon.ReconciliationID, dto.CompleteReconciliationRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "UpdateReconciliationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestDiscard_ReleasesTransactions() {
	ctx := context.Background()
	recon := suite.openReconciliation()
	txn := &domain.BankTransaction{
		TransactionID:  uuid.NewString(),
		OrganizationID: suite.organizationID,
		AccountID:      suite.bankAccount.AccountID,
		Status:         domain.TxnMatched,
		Version:        2,
	}
	match := domain.ReconciliationMatch{
		MatchID:           uuid.NewString(),
		ReconciliationID:  recon.ReconciliationID,
		BankTransactionID: txn.TransactionID,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.organizationID, recon.ReconciliationID).Return(recon, nil).Once()
	suite.mockReconRepo.On("FindMatchesByReconciliationID", ctx, recon.ReconciliationID).Return([]domain.ReconciliationMatch{match}, nil).Once()
	suite.mockBankTxnRepo.On("FindBankTransactionByID", ctx, suite.organizationID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockBankTxnRepo.On("UpdateBankTransactionStatus", ctx, txn.TransactionID, domain.TxnUnmatched, int64(2), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReconRepo.On("DeleteMatchesByReconciliation", ctx, recon.ReconciliationID).Return(nil).Once()
	suite.mockReconRepo.On("UpdateReconciliationStatus", ctx, recon.ReconciliationID, domain.ReconDiscarded, recon.Difference, int64(1), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	discarded, err := suite.service.Discard(ctx, suite.organizationID, recon.ReconciliationID, dto.DiscardReconciliationRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconDiscarded, discarded.Status)
	suite.Nil(discarded.Matches)
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockBankTxnRepo.AssertExpectations(suite.T())
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
