package services

import (
	"context"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// OrganizationAuthorizer is the single check every tenant-scoped operation runs
// before touching data: is the user a member of the organization with at least
// the required role.
type OrganizationAuthorizer interface {
	// AuthorizeUserAction returns nil when userID holds at least requiredRole in
	// the organization, apperrors.ErrNotFound when there is no membership, and
	// apperrors.ErrForbidden when the role is insufficient.
	AuthorizeUserAction(ctx context.Context, userID string, organizationID string, requiredRole domain.OrganizationRole) error
}

// OrganizationSvcFacade combines all organization-related service operations.
type OrganizationSvcFacade interface {
	OrganizationAuthorizer

	// CreateOrganization creates an organization and makes the creator its admin.
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)

	// GetOrganizationByID retrieves an organization the user belongs to.
	GetOrganizationByID(ctx context.Context, organizationID string, requestingUserID string) (*domain.Organization, error)

	// ListUserOrganizations lists the organizations the user is a member of.
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)

	// UpdateOrganization updates organization details. Requires admin.
	UpdateOrganization(ctx context.Context, organizationID string, req dto.UpdateOrganizationRequest, requestingUserID string) (*domain.Organization, error)

	// AddMember adds a user to the organization with a role. Requires admin.
	AddMember(ctx context.Context, organizationID string, req dto.AddMemberRequest, addingUserID string) error

	// ListMembers lists the organization's memberships.
	ListMembers(ctx context.Context, organizationID string, requestingUserID string) ([]domain.UserOrganization, error)
}
