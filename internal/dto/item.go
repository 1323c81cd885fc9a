package dto

import (
	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateItemRequest creates a sellable or purchasable item.
type CreateItemRequest struct {
	Name             string          `json:"name" binding:"required"`
	SKU              string          `json:"sku"`
	Description      string          `json:"description"`
	ItemType         domain.ItemType `json:"itemType" binding:"required,oneof=service product"`
	SellPrice        decimal.Decimal `json:"sellPrice"`
	CostPrice        decimal.Decimal `json:"costPrice"`
	IncomeAccountID  *string         `json:"incomeAccountID,omitempty"`
	ExpenseAccountID *string         `json:"expenseAccountID,omitempty"`
}

// UpdateItemRequest updates item details.
type UpdateItemRequest struct {
	Name             *string          `json:"name,omitempty"`
	SKU              *string          `json:"sku,omitempty"`
	Description      *string          `json:"description,omitempty"`
	SellPrice        *decimal.Decimal `json:"sellPrice,omitempty"`
	CostPrice        *decimal.Decimal `json:"costPrice,omitempty"`
	IncomeAccountID  *string          `json:"incomeAccountID,omitempty"`
	ExpenseAccountID *string          `json:"expenseAccountID,omitempty"`
}
