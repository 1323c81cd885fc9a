package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/quollbooks/quollbooks/internal/middleware"
	"github.com/shopspring/decimal"
)

// VendorService handles business logic for vendors.
type VendorService struct {
	vendorRepo portsrepo.VendorRepositoryFacade
	orgSvc     portssvc.OrganizationAuthorizer
}

// NewVendorService creates a new VendorService.
func NewVendorService(vr portsrepo.VendorRepositoryFacade, orgSvc portssvc.OrganizationAuthorizer) portssvc.VendorSvcFacade {
	return &VendorService{
		vendorRepo: vr,
		orgSvc:     orgSvc,
	}
}

var _ portssvc.VendorSvcFacade = (*VendorService)(nil)

// CreateVendor creates a new vendor.
func (s *VendorService) CreateVendor(ctx context.Context, organizationID string, req dto.CreateVendorRequest, creatorUserID string) (*domain.Vendor, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "AUD"
	}
	openingBalance := decimal.Zero
	if req.OpeningBalance != nil {
		openingBalance = *req.OpeningBalance
	}

	now := time.Now()
	vendor := domain.Vendor{
		VendorID:       uuid.NewString(),
		OrganizationID: organizationID,
		DisplayName:    req.DisplayName,
		CompanyName:    req.CompanyName,
		Email:          req.Email,
		Phone:          req.Phone,
		TaxNumber:      req.TaxNumber,
		Currency:       currency,
		AddressLine1:   req.AddressLine1,
		AddressLine2:   req.AddressLine2,
		City:           req.City,
		State:          req.State,
		Postcode:       req.Postcode,
		Country:        req.Country,
		OpeningBalance: openingBalance,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.vendorRepo.SaveVendor(ctx, vendor); err != nil {
		logger.Error("Failed to save vendor", slog.String("error", err.Error()), slog.String("display_name", req.DisplayName))
		return nil, err
	}

	logger.Info("Vendor created", slog.String("vendor_id", vendor.VendorID))
	return &vendor, nil
}

// GetVendorByID retrieves a specific vendor.
func (s *VendorService) GetVendorByID(ctx context.Context, organizationID string, vendorID string, requestingUserID string) (*domain.Vendor, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.vendorRepo.FindVendorByID(ctx, organizationID, vendorID)
}

// ListVendors retrieves a page of vendors.
func (s *VendorService) ListVendors(ctx context.Context, organizationID string, requestingUserID string, params dto.ListContactsParams) (*dto.ListVendorsResponse, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultContactPageSize
	}

	vendors, nextToken, err := s.vendorRepo.ListVendors(ctx, organizationID, params.Search, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	if vendors == nil {
		vendors = []domain.Vendor{}
	}
	return &dto.ListVendorsResponse{Vendors: vendors, NextToken: nextToken}, nil
}

// UpdateVendor updates vendor details.
func (s *VendorService) UpdateVendor(ctx context.Context, organizationID string, vendorID string, req dto.UpdateVendorRequest, requestingUserID string) (*domain.Vendor, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	vendor, err := s.vendorRepo.FindVendorByID(ctx, organizationID, vendorID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		vendor.DisplayName = *req.DisplayName
	}
	if req.CompanyName != nil {
		vendor.CompanyName = *req.CompanyName
	}
	if req.Email != nil {
		vendor.Email = *req.Email
	}
	if req.Phone != nil {
		vendor.Phone = *req.Phone
	}
	if req.TaxNumber != nil {
		vendor.TaxNumber = *req.TaxNumber
	}
	if req.AddressLine1 != nil {
		vendor.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		vendor.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		vendor.City = *req.City
	}
	if req.State != nil {
		vendor.State = *req.State
	}
	if req.Postcode != nil {
		vendor.Postcode = *req.Postcode
	}
	if req.Country != nil {
		vendor.Country = *req.Country
	}
	vendor.LastUpdatedAt = time.Now()
	vendor.LastUpdatedBy = requestingUserID

	if err := s.vendorRepo.UpdateVendor(ctx, *vendor); err != nil {
		logger.Error("Failed to update vendor", slog.String("error", err.Error()), slog.String("vendor_id", vendorID))
		return nil, err
	}
	return vendor, nil
}

// DeactivateVendor marks a vendor as inactive.
func (s *VendorService) DeactivateVendor(ctx context.Context, organizationID string, vendorID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.vendorRepo.DeactivateVendor(ctx, organizationID, vendorID, requestingUserID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate vendor", slog.String("error", err.Error()), slog.String("vendor_id", vendorID))
		}
		return err
	}

	logger.Info("Vendor deactivated", slog.String("vendor_id", vendorID))
	return nil
}
