package repositories

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
)

// TaxCodeRepositoryFacade defines persistence operations for tax codes.
type TaxCodeRepositoryFacade interface {
	// FindTaxCodeByID retrieves a specific tax code scoped to an organization.
	FindTaxCodeByID(ctx context.Context, organizationID string, taxCodeID string) (*domain.TaxCode, error)

	// FindTaxCodeByCode retrieves a tax code by its short code (e.g. "GST").
	FindTaxCodeByCode(ctx context.Context, organizationID string, code string) (*domain.TaxCode, error)

	// ListTaxCodes retrieves all tax codes of an organization.
	ListTaxCodes(ctx context.Context, organizationID string, includeInactive bool) ([]domain.TaxCode, error)

	// SaveTaxCode persists a new tax code.
	SaveTaxCode(ctx context.Context, taxCode domain.TaxCode) error

	// UpdateTaxCode updates an existing tax code's details.
	UpdateTaxCode(ctx context.Context, taxCode domain.TaxCode) error

	// DeactivateTaxCode marks a tax code as inactive.
	DeactivateTaxCode(ctx context.Context, organizationID string, taxCodeID string, updatedBy string, now time.Time) error
}
