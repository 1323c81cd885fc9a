package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/quollbooks/quollbooks/internal/middleware"
)

const defaultBankTxnPageSize = 50

// BankingService handles bank accounts and imported bank transactions.
type BankingService struct {
	bankAccountRepo portsrepo.BankAccountRepositoryFacade
	bankTxnRepo     portsrepo.BankTransactionRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	orgSvc          portssvc.OrganizationAuthorizer
}

// NewBankingService creates a new BankingService.
func NewBankingService(
	bar portsrepo.BankAccountRepositoryFacade,
	btr portsrepo.BankTransactionRepositoryFacade,
	ar portsrepo.AccountRepositoryFacade,
	orgSvc portssvc.OrganizationAuthorizer,
) portssvc.BankingSvcFacade {
	return &BankingService{
		bankAccountRepo: bar,
		bankTxnRepo:     btr,
		accountRepo:     ar,
		orgSvc:          orgSvc,
	}
}

var _ portssvc.BankingSvcFacade = (*BankingService)(nil)

// CreateBankAccount registers a bank account linked to an asset ledger account.
func (s *BankingService) CreateBankAccount(ctx context.Context, organizationID string, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	ledgerAccount, err := s.accountRepo.FindAccountByID(ctx, organizationID, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ledger account %s not found", apperrors.ErrValidation, req.AccountID)
		}
		return nil, err
	}
	if ledgerAccount.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: ledger account %s must be an asset account", apperrors.ErrValidation, ledgerAccount.Code)
	}

	currency := req.Currency
	if currency == "" {
		currency = "AUD"
	}

	now := time.Now()
	bankAccount := domain.BankAccount{
		BankAccountID:  uuid.NewString(),
		OrganizationID: organizationID,
		AccountID:      req.AccountID,
		Name:           req.Name,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		BSB:            req.BSB,
		Currency:       currency,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.bankAccountRepo.SaveBankAccount(ctx, bankAccount); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save bank account", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		}
		return nil, err
	}

	logger.Info("Bank account created", slog.String("bank_account_id", bankAccount.BankAccountID))
	return &bankAccount, nil
}

// GetBankAccountByID retrieves a bank account.
func (s *BankingService) GetBankAccountByID(ctx context.Context, organizationID string, bankAccountID string, requestingUserID string) (*domain.BankAccount, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.bankAccountRepo.FindBankAccountByID(ctx, organizationID, bankAccountID)
}

// ListBankAccounts retrieves the organization's bank accounts.
func (s *BankingService) ListBankAccounts(ctx context.Context, organizationID string, requestingUserID string) ([]domain.BankAccount, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.bankAccountRepo.ListBankAccounts(ctx, organizationID)
}

// SetFeedsPaused pauses or resumes statement imports for a bank account.
func (s *BankingService) SetFeedsPaused(ctx context.Context, organizationID string, bankAccountID string, paused bool, requestingUserID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	bankAccount, err := s.bankAccountRepo.FindBankAccountByID(ctx, organizationID, bankAccountID)
	if err != nil {
		return nil, err
	}

	bankAccount.FeedsPaused = paused
	bankAccount.LastUpdatedAt = time.Now()
	bankAccount.LastUpdatedBy = requestingUserID

	if err := s.bankAccountRepo.UpdateBankAccount(ctx, *bankAccount); err != nil {
		logger.Error("Failed to update bank account", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, err
	}

	logger.Info("Bank account feeds toggled", slog.String("bank_account_id", bankAccountID), slog.Bool("paused", paused))
	return bankAccount, nil
}

// ImportStatement inserts parsed statement rows as unmatched bank transactions.
// Rows whose bank reference was imported before are skipped.
func (s *BankingService) ImportStatement(ctx context.Context, organizationID string, bankAccountID string, rows []dto.StatementRow, requestingUserID string) (*dto.ImportStatementResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	bankAccount, err := s.bankAccountRepo.FindBankAccountByID(ctx, organizationID, bankAccountID)
	if err != nil {
		return nil, err
	}
	if bankAccount.FeedsPaused {
		return nil, fmt.Errorf("%w: statement imports are paused for bank account %s", apperrors.ErrValidation, bankAccount.Name)
	}
	if len(rows) == 0 {
		return &dto.ImportStatementResult{}, nil
	}

	now := time.Now()
	transactions := make([]domain.BankTransaction, len(rows))
	for i, row := range rows {
		if row.Amount.IsZero() {
			return nil, fmt.Errorf("%w: statement row %d has a zero amount", apperrors.ErrValidation, i+1)
		}
		bankRef := row.BankRef
		if bankRef == "" {
			// Rows without a feed reference get a deterministic key so the
			// same file can be re-imported safely.
			bankRef = fmt.Sprintf("%s|%s|%s", row.Date.Format("2006-01-02"), row.Amount.String(), row.Description)
		}
		transactions[i] = domain.BankTransaction{
			TransactionID:  uuid.NewString(),
			OrganizationID: organizationID,
			AccountID:      bankAccount.AccountID,
			Date:           row.Date,
			Description:    row.Description,
			Reference:      row.Reference,
			Amount:         row.Amount,
			Balance:        row.Balance,
			BankRef:        bankRef,
			Status:         domain.TxnUnmatched,
			Version:        1,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requestingUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: requestingUserID,
			},
		}
	}

	inserted, err := s.bankTxnRepo.SaveBankTransactions(ctx, transactions)
	if err != nil {
		logger.Error("Failed to import bank transactions", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, err
	}

	result := &dto.ImportStatementResult{
		Imported: inserted,
		Skipped:  len(transactions) - inserted,
	}
	logger.Info("Statement imported",
		slog.String("bank_account_id", bankAccountID),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

// GetBankTransactionByID retrieves a bank transaction.
func (s *BankingService) GetBankTransactionByID(ctx context.Context, organizationID string, transactionID string, requestingUserID string) (*domain.BankTransaction, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.bankTxnRepo.FindBankTransactionByID(ctx, organizationID, transactionID)
}

// ListBankTransactions retrieves a page of bank transactions.
func (s *BankingService) ListBankTransactions(ctx context.Context, organizationID string, requestingUserID string, params dto.ListBankTransactionsParams) (*dto.ListBankTransactionsResponse, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultBankTxnPageSize
	}

	transactions, nextToken, err := s.bankTxnRepo.ListBankTransactions(ctx, organizationID, portsrepo.ListBankTransactionsFilter{
		AccountID: params.AccountID,
		Status:    params.Status,
		DateFrom:  params.DateFrom,
		DateTo:    params.DateTo,
		Search:    params.Search,
		Limit:     limit,
		NextToken: params.NextToken,
	})
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []domain.BankTransaction{}
	}
	return &dto.ListBankTransactionsResponse{Transactions: transactions, NextToken: nextToken}, nil
}
