package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/quollbooks/quollbooks/internal/middleware"
)

// OrganizationService handles business logic related to organizations and memberships.
type OrganizationService struct {
	orgRepo  portsrepo.OrganizationRepositoryFacade
	userRepo portsrepo.UserRepositoryFacade
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(or portsrepo.OrganizationRepositoryFacade, ur portsrepo.UserRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &OrganizationService{
		orgRepo:  or,
		userRepo: ur,
	}
}

var _ portssvc.OrganizationSvcFacade = (*OrganizationService)(nil)

// AuthorizeUserAction checks whether the user holds at least requiredRole in the
// organization. ErrNotFound means no membership; ErrForbidden an insufficient role.
func (s *OrganizationService) AuthorizeUserAction(ctx context.Context, userID string, organizationID string, requiredRole domain.OrganizationRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.orgRepo.FindMembership(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s is not a member of organization %s", apperrors.ErrNotFound, userID, organizationID)
		}
		logger.Error("Failed to find membership for authorization", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("organization_id", organizationID))
		return err
	}

	if !membership.Role.Covers(requiredRole) {
		logger.Warn("User role insufficient for action",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return fmt.Errorf("%w: requires %s role", apperrors.ErrForbidden, requiredRole)
	}
	return nil
}

// CreateOrganization creates an organization and makes the creator its admin.
func (s *OrganizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	org := domain.Organization{
		OrganizationID:  uuid.NewString(),
		Name:            req.Name,
		LegalName:       req.LegalName,
		TaxNumber:       req.TaxNumber,
		BaseCurrency:    req.BaseCurrency,
		FiscalYearStart: req.FiscalYearStart,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		logger.Error("Failed to save organization", slog.String("error", err.Error()), slog.String("organization_name", req.Name))
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	membership := domain.UserOrganization{
		UserID:         creatorUserID,
		OrganizationID: org.OrganizationID,
		Role:           domain.RoleAdmin,
		JoinedAt:       now,
	}
	if err := s.orgRepo.AddMember(ctx, membership); err != nil {
		logger.Error("Failed to add creator as admin to new organization", slog.String("error", err.Error()), slog.String("organization_id", org.OrganizationID), slog.String("user_id", creatorUserID))
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}

	logger.Info("Organization created", slog.String("organization_id", org.OrganizationID), slog.String("creator_user_id", creatorUserID))
	return &org, nil
}

// GetOrganizationByID retrieves an organization the user belongs to.
func (s *OrganizationService) GetOrganizationByID(ctx context.Context, organizationID string, requestingUserID string) (*domain.Organization, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.orgRepo.FindOrganizationByID(ctx, organizationID)
}

// ListUserOrganizations lists the organizations the user is a member of.
func (s *OrganizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	orgs, err := s.orgRepo.ListOrganizationsByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list organizations for user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, err
	}
	if orgs == nil {
		return []domain.Organization{}, nil
	}
	return orgs, nil
}

// UpdateOrganization updates organization details. Requires admin.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, organizationID string, req dto.UpdateOrganizationRequest, requestingUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.LegalName != nil {
		org.LegalName = *req.LegalName
	}
	if req.TaxNumber != nil {
		org.TaxNumber = *req.TaxNumber
	}
	if req.FiscalYearStart != nil {
		org.FiscalYearStart = req.FiscalYearStart
	}
	org.LastUpdatedAt = time.Now()
	org.LastUpdatedBy = requestingUserID

	if err := s.orgRepo.UpdateOrganization(ctx, *org); err != nil {
		logger.Error("Failed to update organization", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}
	return org, nil
}

// AddMember adds a user to the organization with a role. Requires admin.
func (s *OrganizationService) AddMember(ctx context.Context, organizationID string, req dto.AddMemberRequest, addingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, addingUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.userRepo.FindUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s not found", apperrors.ErrValidation, req.UserID)
		}
		return err
	}

	membership := domain.UserOrganization{
		UserID:         req.UserID,
		OrganizationID: organizationID,
		Role:           req.Role,
		JoinedAt:       time.Now(),
	}
	if err := s.orgRepo.AddMember(ctx, membership); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to add member", slog.String("error", err.Error()), slog.String("target_user_id", req.UserID), slog.String("organization_id", organizationID))
		}
		return err
	}

	logger.Info("Member added to organization", slog.String("organization_id", organizationID), slog.String("target_user_id", req.UserID), slog.String("role", string(req.Role)))
	return nil
}

// ListMembers lists the organization's memberships.
func (s *OrganizationService) ListMembers(ctx context.Context, organizationID string, requestingUserID string) ([]domain.UserOrganization, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.orgRepo.ListMembers(ctx, organizationID)
}
