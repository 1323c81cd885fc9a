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

const defaultContactPageSize = 50

// CustomerService handles business logic for customers.
type CustomerService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
	orgSvc       portssvc.OrganizationAuthorizer
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(cr portsrepo.CustomerRepositoryFacade, orgSvc portssvc.OrganizationAuthorizer) portssvc.CustomerSvcFacade {
	return &CustomerService{
		customerRepo: cr,
		orgSvc:       orgSvc,
	}
}

var _ portssvc.CustomerSvcFacade = (*CustomerService)(nil)

// CreateCustomer creates a new customer.
func (s *CustomerService) CreateCustomer(ctx context.Context, organizationID string, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error) {
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
	customer := domain.Customer{
		CustomerID:     uuid.NewString(),
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

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		logger.Error("Failed to save customer", slog.String("error", err.Error()), slog.String("display_name", req.DisplayName))
		return nil, err
	}

	logger.Info("Customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

// GetCustomerByID retrieves a specific customer.
func (s *CustomerService) GetCustomerByID(ctx context.Context, organizationID string, customerID string, requestingUserID string) (*domain.Customer, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.customerRepo.FindCustomerByID(ctx, organizationID, customerID)
}

// ListCustomers retrieves a page of customers.
func (s *CustomerService) ListCustomers(ctx context.Context, organizationID string, requestingUserID string, params dto.ListContactsParams) (*dto.ListCustomersResponse, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultContactPageSize
	}

	customers, nextToken, err := s.customerRepo.ListCustomers(ctx, organizationID, params.Search, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return &dto.ListCustomersResponse{Customers: customers, NextToken: nextToken}, nil
}

// UpdateCustomer updates customer details.
func (s *CustomerService) UpdateCustomer(ctx context.Context, organizationID string, customerID string, req dto.UpdateCustomerRequest, requestingUserID string) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, organizationID, customerID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		customer.DisplayName = *req.DisplayName
	}
	if req.CompanyName != nil {
		customer.CompanyName = *req.CompanyName
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.TaxNumber != nil {
		customer.TaxNumber = *req.TaxNumber
	}
	if req.AddressLine1 != nil {
		customer.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		customer.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.State != nil {
		customer.State = *req.State
	}
	if req.Postcode != nil {
		customer.Postcode = *req.Postcode
	}
	if req.Country != nil {
		customer.Country = *req.Country
	}
	customer.LastUpdatedAt = time.Now()
	customer.LastUpdatedBy = requestingUserID

	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		logger.Error("Failed to update customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		return nil, err
	}
	return customer, nil
}

// DeactivateCustomer marks a customer as inactive.
func (s *CustomerService) DeactivateCustomer(ctx context.Context, organizationID string, customerID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.customerRepo.DeactivateCustomer(ctx, organizationID, customerID, requestingUserID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		}
		return err
	}

	logger.Info("Customer deactivated", slog.String("customer_id", customerID))
	return nil
}
