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
	"github.com/shopspring/decimal"
)

// taggedAccountDefaults holds the canonical code, name and type used when a
// tagged account has to be created on demand.
var taggedAccountDefaults = map[domain.SystemTag]struct {
	Code        string
	Name        string
	AccountType domain.AccountType
}{
	domain.TagReceivable:       {Code: "1200", Name: "Accounts Receivable", AccountType: domain.Asset},
	domain.TagSales:            {Code: "4000", Name: "Sales Revenue", AccountType: domain.Income},
	domain.TagCustomerDeposits: {Code: "2300", Name: "Customer Deposits", AccountType: domain.Liability},
	domain.TagGSTCollected:     {Code: "2150", Name: "GST Collected", AccountType: domain.Liability},
	domain.TagGSTPaid:          {Code: "1150", Name: "GST Paid", AccountType: domain.Asset},
}

// AccountService handles business logic for the chart of accounts.
type AccountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	orgSvc      portssvc.OrganizationAuthorizer
}

// NewAccountService creates a new AccountService.
func NewAccountService(ar portsrepo.AccountRepositoryFacade, orgSvc portssvc.OrganizationAuthorizer) portssvc.AccountSvcFacade {
	return &AccountService{
		accountRepo: ar,
		orgSvc:      orgSvc,
	}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// CreateAccount creates a new account.
func (s *AccountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, organizationID, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, *req.ParentAccountID)
			}
			return nil, err
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent account type %s does not match %s", apperrors.ErrValidation, parent.AccountType, req.AccountType)
		}
	}

	if req.SystemTag != nil {
		existing, err := s.accountRepo.FindAccountBySystemTag(ctx, organizationID, *req.SystemTag)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: system tag %s is already assigned to account %s", apperrors.ErrValidation, *req.SystemTag, existing.Code)
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		OrganizationID:  organizationID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		SystemTag:       req.SystemTag,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_code", req.Code))
		}
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a specific account.
func (s *AccountService) GetAccountByID(ctx context.Context, organizationID string, accountID string, requestingUserID string) (*domain.Account, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.accountRepo.FindAccountByID(ctx, organizationID, accountID)
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID.
func (s *AccountService) GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.accountRepo.FindAccountsByIDs(ctx, organizationID, accountIDs)
}

// ListAccounts retrieves the chart of accounts.
func (s *AccountService) ListAccounts(ctx context.Context, organizationID string, includeInactive bool, requestingUserID string) ([]domain.Account, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccounts(ctx, organizationID, includeInactive)
}

// GetAccountBalance sums debit minus credit over the account's journal lines.
func (s *AccountService) GetAccountBalance(ctx context.Context, organizationID string, accountID string, asOf *time.Time, requestingUserID string) (decimal.Decimal, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return decimal.Zero, err
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, organizationID, accountID); err != nil {
		return decimal.Zero, err
	}
	return s.accountRepo.CalculateAccountBalance(ctx, organizationID, accountID, asOf)
}

// UpdateAccount updates account details. Code and type are immutable.
func (s *AccountService) UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.SystemTag != nil {
		existing, err := s.accountRepo.FindAccountBySystemTag(ctx, organizationID, *req.SystemTag)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.AccountID != accountID {
			return nil, fmt.Errorf("%w: system tag %s is already assigned to account %s", apperrors.ErrValidation, *req.SystemTag, existing.Code)
		}
		account.SystemTag = req.SystemTag
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

// DeactivateAccount marks an account as inactive.
func (s *AccountService) DeactivateAccount(ctx context.Context, organizationID string, accountID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.accountRepo.DeactivateAccount(ctx, organizationID, accountID, requestingUserID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// ResolveTaggedAccount returns the account carrying the system tag, creating it
// with canonical code and name when the organization has none.
func (s *AccountService) ResolveTaggedAccount(ctx context.Context, organizationID string, tag domain.SystemTag, requestingUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountBySystemTag(ctx, organizationID, tag)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	defaults, ok := taggedAccountDefaults[tag]
	if !ok {
		return nil, fmt.Errorf("%w: unknown system tag %s", apperrors.ErrValidation, tag)
	}

	// Fall back to the account holding the canonical code, tagging it in place.
	now := time.Now()
	existing, err := s.accountRepo.FindAccountByCode(ctx, organizationID, defaults.Code)
	if err == nil {
		existing.SystemTag = &tag
		existing.LastUpdatedAt = now
		existing.LastUpdatedBy = requestingUserID
		if err := s.accountRepo.UpdateAccount(ctx, *existing); err != nil {
			return nil, err
		}
		logger.Info("Tagged existing account", slog.String("account_id", existing.AccountID), slog.String("system_tag", string(tag)))
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	account = &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Code:           defaults.Code,
		Name:           defaults.Name,
		AccountType:    defaults.AccountType,
		SystemTag:      &tag,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, *account); err != nil {
		logger.Error("Failed to create tagged account", slog.String("error", err.Error()), slog.String("system_tag", string(tag)))
		return nil, err
	}

	logger.Info("Tagged account created", slog.String("account_id", account.AccountID), slog.String("system_tag", string(tag)))
	return account, nil
}
