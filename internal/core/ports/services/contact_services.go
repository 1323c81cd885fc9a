package services

import (
	"context"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// CustomerSvcFacade defines customer operations.
type CustomerSvcFacade interface {
	CreateCustomer(ctx context.Context, organizationID string, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, organizationID string, customerID string, requestingUserID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, organizationID string, requestingUserID string, params dto.ListContactsParams) (*dto.ListCustomersResponse, error)
	UpdateCustomer(ctx context.Context, organizationID string, customerID string, req dto.UpdateCustomerRequest, requestingUserID string) (*domain.Customer, error)
	DeactivateCustomer(ctx context.Context, organizationID string, customerID string, requestingUserID string) error
}

// VendorSvcFacade defines vendor operations.
type VendorSvcFacade interface {
	CreateVendor(ctx context.Context, organizationID string, req dto.CreateVendorRequest, creatorUserID string) (*domain.Vendor, error)
	GetVendorByID(ctx context.Context, organizationID string, vendorID string, requestingUserID string) (*domain.Vendor, error)
	ListVendors(ctx context.Context, organizationID string, requestingUserID string, params dto.ListContactsParams) (*dto.ListVendorsResponse, error)
	UpdateVendor(ctx context.Context, organizationID string, vendorID string, req dto.UpdateVendorRequest, requestingUserID string) (*domain.Vendor, error)
	DeactivateVendor(ctx context.Context, organizationID string, vendorID string, requestingUserID string) error
}

// ItemSvcFacade defines item operations.
type ItemSvcFacade interface {
	CreateItem(ctx context.Context, organizationID string, req dto.CreateItemRequest, creatorUserID string) (*domain.Item, error)
	GetItemByID(ctx context.Context, organizationID string, itemID string, requestingUserID string) (*domain.Item, error)
	ListItems(ctx context.Context, organizationID string, includeInactive bool, requestingUserID string) ([]domain.Item, error)
	UpdateItem(ctx context.Context, organizationID string, itemID string, req dto.UpdateItemRequest, requestingUserID string) (*domain.Item, error)
	DeactivateItem(ctx context.Context, organizationID string, itemID string, requestingUserID string) error
}

// TaxCodeSvcFacade defines tax code operations.
type TaxCodeSvcFacade interface {
	CreateTaxCode(ctx context.Context, organizationID string, req dto.CreateTaxCodeRequest, creatorUserID string) (*domain.TaxCode, error)
	GetTaxCodeByID(ctx context.Context, organizationID string, taxCodeID string, requestingUserID string) (*domain.TaxCode, error)
	ListTaxCodes(ctx context.Context, organizationID string, includeInactive bool, requestingUserID string) ([]domain.TaxCode, error)
	UpdateTaxCode(ctx context.Context, organizationID string, taxCodeID string, req dto.UpdateTaxCodeRequest, requestingUserID string) (*domain.TaxCode, error)
	DeactivateTaxCode(ctx context.Context, organizationID string, taxCodeID string, requestingUserID string) error

	// SeedAustralianDefaults creates the standard Australian GST code set
	// (GST, FRE, EXP, INP, CAP), skipping codes that already exist.
	SeedAustralianDefaults(ctx context.Context, organizationID string, requestingUserID string) ([]domain.TaxCode, error)
}
