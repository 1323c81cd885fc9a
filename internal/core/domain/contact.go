package domain

import "github.com/shopspring/decimal"

// ContactType distinguishes the two kinds of trading partner.
type ContactType string

const (
	ContactCustomer ContactType = "customer"
	ContactVendor   ContactType = "vendor"
)

// Customer is a party the organization sells to.
type Customer struct {
	CustomerID     string          `json:"customerID"`
	OrganizationID string          `json:"organizationID"`
	DisplayName    string          `json:"displayName"`
	CompanyName    string          `json:"companyName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	TaxNumber      string          `json:"taxNumber"`
	Currency       string          `json:"currency"`
	AddressLine1   string          `json:"addressLine1"`
	AddressLine2   string          `json:"addressLine2"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	Postcode       string          `json:"postcode"`
	Country        string          `json:"country"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// Vendor is a party the organization buys from.
type Vendor struct {
	VendorID       string          `json:"vendorID"`
	OrganizationID string          `json:"organizationID"`
	DisplayName    string          `json:"displayName"`
	CompanyName    string          `json:"companyName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	TaxNumber      string          `json:"taxNumber"`
	Currency       string          `json:"currency"`
	AddressLine1   string          `json:"addressLine1"`
	AddressLine2   string          `json:"addressLine2"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	Postcode       string          `json:"postcode"`
	Country        string          `json:"country"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}
