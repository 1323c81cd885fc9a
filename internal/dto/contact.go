package dto

import (
	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListContactsParams narrows a customer or vendor listing.
type ListContactsParams struct {
	Search    string  `form:"search"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// CreateCustomerRequest creates a customer.
type CreateCustomerRequest struct {
	DisplayName    string           `json:"displayName" binding:"required"`
	CompanyName    string           `json:"companyName"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Phone          string           `json:"phone"`
	TaxNumber      string           `json:"taxNumber"`
	Currency       string           `json:"currency" binding:"omitempty,len=3"`
	AddressLine1   string           `json:"addressLine1"`
	AddressLine2   string           `json:"addressLine2"`
	City           string           `json:"city"`
	State          string           `json:"state"`
	Postcode       string           `json:"postcode"`
	Country        string           `json:"country"`
	OpeningBalance *decimal.Decimal `json:"openingBalance,omitempty"`
}

// UpdateCustomerRequest updates customer details.
type UpdateCustomerRequest struct {
	DisplayName  *string `json:"displayName,omitempty"`
	CompanyName  *string `json:"companyName,omitempty"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string `json:"phone,omitempty"`
	TaxNumber    *string `json:"taxNumber,omitempty"`
	AddressLine1 *string `json:"addressLine1,omitempty"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Postcode     *string `json:"postcode,omitempty"`
	Country      *string `json:"country,omitempty"`
}

// CreateVendorRequest creates a vendor.
type CreateVendorRequest struct {
	DisplayName    string           `json:"displayName" binding:"required"`
	CompanyName    string           `json:"companyName"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Phone          string           `json:"phone"`
	TaxNumber      string           `json:"taxNumber"`
	Currency       string           `json:"currency" binding:"omitempty,len=3"`
	AddressLine1   string           `json:"addressLine1"`
	AddressLine2   string           `json:"addressLine2"`
	City           string           `json:"city"`
	State          string           `json:"state"`
	Postcode       string           `json:"postcode"`
	Country        string           `json:"country"`
	OpeningBalance *decimal.Decimal `json:"openingBalance,omitempty"`
}

// UpdateVendorRequest updates vendor details.
type UpdateVendorRequest struct {
	DisplayName  *string `json:"displayName,omitempty"`
	CompanyName  *string `json:"companyName,omitempty"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string `json:"phone,omitempty"`
	TaxNumber    *string `json:"taxNumber,omitempty"`
	AddressLine1 *string `json:"addressLine1,omitempty"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Postcode     *string `json:"postcode,omitempty"`
	Country      *string `json:"country,omitempty"`
}

// ListCustomersResponse is a page of customers.
type ListCustomersResponse struct {
	Customers []domain.Customer `json:"customers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListVendorsResponse is a page of vendors.
type ListVendorsResponse struct {
	Vendors   []domain.Vendor `json:"vendors"`
	NextToken *string         `json:"nextToken,omitempty"`
}
