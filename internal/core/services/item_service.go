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

// ItemService handles business logic for items.
type ItemService struct {
	itemRepo    portsrepo.ItemRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	orgSvc      portssvc.OrganizationAuthorizer
}

// NewItemService creates a new ItemService.
func NewItemService(ir portsrepo.ItemRepositoryFacade, ar portsrepo.AccountRepositoryFacade, orgSvc portssvc.OrganizationAuthorizer) portssvc.ItemSvcFacade {
	return &ItemService{
		itemRepo:    ir,
		accountRepo: ar,
		orgSvc:      orgSvc,
	}
}

var _ portssvc.ItemSvcFacade = (*ItemService)(nil)

func (s *ItemService) validateItemAccount(ctx context.Context, organizationID string, accountID string, wantType domain.AccountType) error {
	account, err := s.accountRepo.FindAccountByID(ctx, organizationID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, accountID)
		}
		return err
	}
	if account.AccountType != wantType {
		return fmt.Errorf("%w: account %s must be of type %s", apperrors.ErrValidation, account.Code, wantType)
	}
	return nil
}

// CreateItem creates a new item.
func (s *ItemService) CreateItem(ctx context.Context, organizationID string, req dto.CreateItemRequest, creatorUserID string) (*domain.Item, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.IncomeAccountID != nil {
		if err := s.validateItemAccount(ctx, organizationID, *req.IncomeAccountID, domain.Income); err != nil {
			return nil, err
		}
	}
	if req.ExpenseAccountID != nil {
		if err := s.validateItemAccount(ctx, organizationID, *req.ExpenseAccountID, domain.Expense); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	item := domain.Item{
		ItemID:           uuid.NewString(),
		OrganizationID:   organizationID,
		Name:             req.Name,
		SKU:              req.SKU,
		Description:      req.Description,
		ItemType:         req.ItemType,
		SellPrice:        req.SellPrice,
		CostPrice:        req.CostPrice,
		IncomeAccountID:  req.IncomeAccountID,
		ExpenseAccountID: req.ExpenseAccountID,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.itemRepo.SaveItem(ctx, item); err != nil {
		logger.Error("Failed to save item", slog.String("error", err.Error()), slog.String("item_name", req.Name))
		return nil, err
	}

	logger.Info("Item created", slog.String("item_id", item.ItemID))
	return &item, nil
}

// GetItemByID retrieves a specific item.
func (s *ItemService) GetItemByID(ctx context.Context, organizationID string, itemID string, requestingUserID string) (*domain.Item, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.itemRepo.FindItemByID(ctx, organizationID, itemID)
}

// ListItems retrieves the organization's items.
func (s *ItemService) ListItems(ctx context.Context, organizationID string, includeInactive bool, requestingUserID string) ([]domain.Item, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.itemRepo.ListItems(ctx, organizationID, includeInactive)
}

// UpdateItem updates item details.
func (s *ItemService) UpdateItem(ctx context.Context, organizationID string, itemID string, req dto.UpdateItemRequest, requestingUserID string) (*domain.Item, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindItemByID(ctx, organizationID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.SKU != nil {
		item.SKU = *req.SKU
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.SellPrice != nil {
		item.SellPrice = *req.SellPrice
	}
	if req.CostPrice != nil {
		item.CostPrice = *req.CostPrice
	}
	if req.IncomeAccountID != nil {
		if err := s.validateItemAccount(ctx, organizationID, *req.IncomeAccountID, domain.Income); err != nil {
			return nil, err
		}
		item.IncomeAccountID = req.IncomeAccountID
	}
	if req.ExpenseAccountID != nil {
		if err := s.validateItemAccount(ctx, organizationID, *req.ExpenseAccountID, domain.Expense); err != nil {
			return nil, err
		}
		item.ExpenseAccountID = req.ExpenseAccountID
	}
	item.LastUpdatedAt = time.Now()
	item.LastUpdatedBy = requestingUserID

	if err := s.itemRepo.UpdateItem(ctx, *item); err != nil {
		logger.Error("Failed to update item", slog.String("error", err.Error()), slog.String("item_id", itemID))
		return nil, err
	}
	return item, nil
}

// DeactivateItem marks an item as inactive.
func (s *ItemService) DeactivateItem(ctx context.Context, organizationID string, itemID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.itemRepo.DeactivateItem(ctx, organizationID, itemID, requestingUserID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate item", slog.String("error", err.Error()), slog.String("item_id", itemID))
		}
		return err
	}

	logger.Info("Item deactivated", slog.String("item_id", itemID))
	return nil
}
