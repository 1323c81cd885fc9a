package domain

import "github.com/shopspring/decimal"

// TaxType classifies a tax code for Australian GST reporting.
type TaxType string

const (
	TaxGSTStandard        TaxType = "GST_STANDARD"
	TaxGSTFree            TaxType = "GST_FREE"
	TaxExport             TaxType = "EXPORT"
	TaxInputTaxed         TaxType = "INPUT_TAXED"
	TaxCapitalAcquisition TaxType = "CAPITAL_ACQUISITION"
)

// TaxCode carries the rate and BAS classification applied to invoice and journal lines.
type TaxCode struct {
	TaxCodeID      string          `json:"taxCodeID"`
	OrganizationID string          `json:"organizationID"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	TaxType        TaxType         `json:"taxType"`
	Rate           decimal.Decimal `json:"rate"` // percent, e.g. 10 for GST
	IsActive       bool            `json:"isActive"`
	AuditFields
}
