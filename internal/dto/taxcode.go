package dto

import (
	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTaxCodeRequest creates a tax code.
type CreateTaxCodeRequest struct {
	Code    string          `json:"code" binding:"required"`
	Name    string          `json:"name" binding:"required"`
	TaxType domain.TaxType  `json:"taxType" binding:"required,oneof=GST_STANDARD GST_FREE EXPORT INPUT_TAXED CAPITAL_ACQUISITION"`
	Rate    decimal.Decimal `json:"rate"`
}

// UpdateTaxCodeRequest updates tax code details. Type and code are immutable
// once lines reference the code; only name and rate may change.
type UpdateTaxCodeRequest struct {
	Name *string          `json:"name,omitempty"`
	Rate *decimal.Decimal `json:"rate,omitempty"`
}
