package repositories

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
)

// CustomerRepositoryFacade defines persistence operations for customers.
type CustomerRepositoryFacade interface {
	// FindCustomerByID retrieves a specific customer scoped to an organization.
	FindCustomerByID(ctx context.Context, organizationID string, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves a paginated list of customers, optionally filtered by a search term.
	ListCustomers(ctx context.Context, organizationID string, search string, limit int, nextToken *string) ([]domain.Customer, *string, error)

	// SaveCustomer persists a new customer.
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// UpdateCustomer updates an existing customer's details.
	UpdateCustomer(ctx context.Context, customer domain.Customer) error

	// DeactivateCustomer marks a customer as inactive.
	DeactivateCustomer(ctx context.Context, organizationID string, customerID string, updatedBy string, now time.Time) error
}

// VendorRepositoryFacade defines persistence operations for vendors.
type VendorRepositoryFacade interface {
	// FindVendorByID retrieves a specific vendor scoped to an organization.
	FindVendorByID(ctx context.Context, organizationID string, vendorID string) (*domain.Vendor, error)

	// ListVendors retrieves a paginated list of vendors, optionally filtered by a search term.
	ListVendors(ctx context.Context, organizationID string, search string, limit int, nextToken *string) ([]domain.Vendor, *string, error)

	// SaveVendor persists a new vendor.
	SaveVendor(ctx context.Context, vendor domain.Vendor) error

	// UpdateVendor updates an existing vendor's details.
	UpdateVendor(ctx context.Context, vendor domain.Vendor) error

	// DeactivateVendor marks a vendor as inactive.
	DeactivateVendor(ctx context.Context, organizationID string, vendorID string, updatedBy string, now time.Time) error
}
