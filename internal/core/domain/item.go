package domain

import "github.com/shopspring/decimal"

// ItemType distinguishes goods from services.
type ItemType string

const (
	ItemService ItemType = "service"
	ItemProduct ItemType = "product"
)

// Item is a sellable or purchasable product/service line.
type Item struct {
	ItemID           string          `json:"itemID"`
	OrganizationID   string          `json:"organizationID"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Description      string          `json:"description"`
	ItemType         ItemType        `json:"itemType"`
	SellPrice        decimal.Decimal `json:"sellPrice"`
	CostPrice        decimal.Decimal `json:"costPrice"`
	IncomeAccountID  *string         `json:"incomeAccountID,omitempty"`
	ExpenseAccountID *string         `json:"expenseAccountID,omitempty"`
	IsActive         bool            `json:"isActive"`
	AuditFields
}
