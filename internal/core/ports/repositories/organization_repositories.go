package repositories

import (
	"context"

	"github.com/quollbooks/quollbooks/internal/core/domain"
)

// OrganizationReader defines read operations for organization data
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its unique identifier.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListOrganizationsByUserID retrieves all organizations a user is a member of.
	ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error)

	// FindMembership retrieves the membership record of a user within an organization.
	FindMembership(ctx context.Context, userID string, organizationID string) (*domain.UserOrganization, error)

	// ListMembers retrieves all memberships of an organization.
	ListMembers(ctx context.Context, organizationID string) ([]domain.UserOrganization, error)
}

// OrganizationWriter defines write operations for organization data
type OrganizationWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, org domain.Organization) error

	// UpdateOrganization updates an existing organization's details.
	UpdateOrganization(ctx context.Context, org domain.Organization) error

	// AddMember adds a user to an organization with a role.
	AddMember(ctx context.Context, membership domain.UserOrganization) error
}

// OrganizationRepositoryFacade combines all organization-related repository interfaces
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}
