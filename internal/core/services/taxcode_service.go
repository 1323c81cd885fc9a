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

// australianDefaultTaxCodes is the standard code set seeded for new
// organizations reporting GST on an Australian BAS.
var australianDefaultTaxCodes = []struct {
	Code    string
	Name    string
	TaxType domain.TaxType
	Rate    int64
}{
	{Code: "GST", Name: "GST on Income/Expenses", TaxType: domain.TaxGSTStandard, Rate: 10},
	{Code: "FRE", Name: "GST Free", TaxType: domain.TaxGSTFree, Rate: 0},
	{Code: "EXP", Name: "Export Sales", TaxType: domain.TaxExport, Rate: 0},
	{Code: "INP", Name: "Input Taxed", TaxType: domain.TaxInputTaxed, Rate: 0},
	{Code: "CAP", Name: "Capital Acquisitions", TaxType: domain.TaxCapitalAcquisition, Rate: 10},
}

// TaxCodeService handles business logic for tax codes.
type TaxCodeService struct {
	taxCodeRepo portsrepo.TaxCodeRepositoryFacade
	orgSvc      portssvc.OrganizationAuthorizer
}

// NewTaxCodeService creates a new TaxCodeService.
func NewTaxCodeService(tr portsrepo.TaxCodeRepositoryFacade, orgSvc portssvc.OrganizationAuthorizer) portssvc.TaxCodeSvcFacade {
	return &TaxCodeService{
		taxCodeRepo: tr,
		orgSvc:      orgSvc,
	}
}

var _ portssvc.TaxCodeSvcFacade = (*TaxCodeService)(nil)

// CreateTaxCode creates a new tax code.
func (s *TaxCodeService) CreateTaxCode(ctx context.Context, organizationID string, req dto.CreateTaxCodeRequest, creatorUserID string) (*domain.TaxCode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now()
	taxCode := domain.TaxCode{
		TaxCodeID:      uuid.NewString(),
		OrganizationID: organizationID,
		Code:           req.Code,
		Name:           req.Name,
		TaxType:        req.TaxType,
		Rate:           req.Rate,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.taxCodeRepo.SaveTaxCode(ctx, taxCode); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save tax code", slog.String("error", err.Error()), slog.String("tax_code", req.Code))
		}
		return nil, err
	}

	logger.Info("Tax code created", slog.String("tax_code_id", taxCode.TaxCodeID), slog.String("tax_code", taxCode.Code))
	return &taxCode, nil
}

// GetTaxCodeByID retrieves a specific tax code.
func (s *TaxCodeService) GetTaxCodeByID(ctx context.Context, organizationID string, taxCodeID string, requestingUserID string) (*domain.TaxCode, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.taxCodeRepo.FindTaxCodeByID(ctx, organizationID, taxCodeID)
}

// ListTaxCodes retrieves the organization's tax codes.
func (s *TaxCodeService) ListTaxCodes(ctx context.Context, organizationID string, includeInactive bool, requestingUserID string) ([]domain.TaxCode, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.taxCodeRepo.ListTaxCodes(ctx, organizationID, includeInactive)
}

// UpdateTaxCode updates a tax code's name and rate.
func (s *TaxCodeService) UpdateTaxCode(ctx context.Context, organizationID string, taxCodeID string, req dto.UpdateTaxCodeRequest, requestingUserID string) (*domain.TaxCode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	taxCode, err := s.taxCodeRepo.FindTaxCodeByID(ctx, organizationID, taxCodeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		taxCode.Name = *req.Name
	}
	if req.Rate != nil {
		taxCode.Rate = *req.Rate
	}
	taxCode.LastUpdatedAt = time.Now()
	taxCode.LastUpdatedBy = requestingUserID

	if err := s.taxCodeRepo.UpdateTaxCode(ctx, *taxCode); err != nil {
		logger.Error("Failed to update tax code", slog.String("error", err.Error()), slog.String("tax_code_id", taxCodeID))
		return nil, err
	}
	return taxCode, nil
}

// DeactivateTaxCode marks a tax code as inactive.
func (s *TaxCodeService) DeactivateTaxCode(ctx context.Context, organizationID string, taxCodeID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.taxCodeRepo.DeactivateTaxCode(ctx, organizationID, taxCodeID, requestingUserID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate tax code", slog.String("error", err.Error()), slog.String("tax_code_id", taxCodeID))
		}
		return err
	}

	logger.Info("Tax code deactivated", slog.String("tax_code_id", taxCodeID))
	return nil
}

// SeedAustralianDefaults creates the standard Australian GST code set, skipping
// any code the organization already has.
func (s *TaxCodeService) SeedAustralianDefaults(ctx context.Context, organizationID string, requestingUserID string) ([]domain.TaxCode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now()
	created := make([]domain.TaxCode, 0, len(australianDefaultTaxCodes))
	for _, def := range australianDefaultTaxCodes {
		existing, err := s.taxCodeRepo.FindTaxCodeByCode(ctx, organizationID, def.Code)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			continue
		}

		taxCode := domain.TaxCode{
			TaxCodeID:      uuid.NewString(),
			OrganizationID: organizationID,
			Code:           def.Code,
			Name:           def.Name,
			TaxType:        def.TaxType,
			Rate:           decimal.NewFromInt(def.Rate),
			IsActive:       true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requestingUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: requestingUserID,
			},
		}
		if err := s.taxCodeRepo.SaveTaxCode(ctx, taxCode); err != nil {
			logger.Error("Failed to seed tax code", slog.String("error", err.Error()), slog.String("tax_code", def.Code))
			return nil, err
		}
		created = append(created, taxCode)
	}

	logger.Info("Seeded default tax codes", slog.String("organization_id", organizationID), slog.Int("created", len(created)))
	return created, nil
}
