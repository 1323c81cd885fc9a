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
	"github.com/shopspring/decimal"
)

const defaultPaymentPageSize = 50

// PaymentService handles customer payments, invoice allocations and the
// corresponding journal postings.
type PaymentService struct {
	paymentRepo  portsrepo.PaymentRepositoryFacade
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	customerRepo portsrepo.CustomerRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	journalRepo  portsrepo.JournalRepositoryFacade
	journalSvc   portssvc.JournalWriterSvc
	accountSvc   portssvc.AccountSvcFacade
	orgSvc       portssvc.OrganizationAuthorizer
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	pr portsrepo.PaymentRepositoryFacade,
	ir portsrepo.InvoiceRepositoryFacade,
	cr portsrepo.CustomerRepositoryFacade,
	ar portsrepo.AccountRepositoryFacade,
	jr portsrepo.JournalRepositoryFacade,
	journalSvc portssvc.JournalWriterSvc,
	accountSvc portssvc.AccountSvcFacade,
	orgSvc portssvc.OrganizationAuthorizer,
) portssvc.PaymentSvcFacade {
	return &PaymentService{
		paymentRepo:  pr,
		invoiceRepo:  ir,
		customerRepo: cr,
		accountRepo:  ar,
		journalRepo:  jr,
		journalSvc:   journalSvc,
		accountSvc:   accountSvc,
		orgSvc:       orgSvc,
	}
}

var _ portssvc.PaymentSvcFacade = (*PaymentService)(nil)

// CreatePayment records a customer payment. Allocations are clamped to each
// invoice's open balance and the remainder is credited to customer deposits.
func (s *PaymentService) CreatePayment(ctx context.Context, organizationID string, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, organizationID, req.CustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %s not found", apperrors.ErrValidation, req.CustomerID)
		}
		return nil, err
	}

	depositAccount, err := s.accountRepo.FindAccountByID(ctx, organizationID, req.DepositAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: deposit account %s not found", apperrors.ErrValidation, req.DepositAccountID)
		}
		return nil, err
	}
	if depositAccount.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: deposit account %s must be an asset account", apperrors.ErrValidation, depositAccount.Code)
	}

	paymentNumber, err := s.paymentRepo.NextPaymentNumber(ctx, organizationID)
	if err != nil {
		logger.Error("Failed to get next payment number", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}

	now := time.Now()
	payment := domain.Payment{
		PaymentID:        uuid.NewString(),
		OrganizationID:   organizationID,
		PaymentNumber:    paymentNumber,
		PaymentDate:      req.PaymentDate,
		Amount:           req.Amount,
		Method:           req.Method,
		Reference:        req.Reference,
		BankName:         req.BankName,
		ChequeNumber:     req.ChequeNumber,
		Notes:            req.Notes,
		CustomerID:       req.CustomerID,
		DepositAccountID: req.DepositAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// Clamp each allocation to the invoice's open balance and to the payment
	// amount still unallocated.
	type invoiceUpdate struct {
		invoice   *domain.Invoice
		allocated decimal.Decimal
	}
	updates := make([]invoiceUpdate, 0, len(req.Allocations))
	remaining := req.Amount
	for _, alloc := range req.Allocations {
		if !alloc.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: allocation amount must be positive", apperrors.ErrValidation)
		}

		invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, organizationID, alloc.InvoiceID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: invoice %s not found", apperrors.ErrValidation, alloc.InvoiceID)
			}
			return nil, err
		}
		if !invoice.Status.IsOpen() {
			return nil, fmt.Errorf("%w: invoice %s is not open for payment", apperrors.ErrValidation, invoice.InvoiceNumber)
		}
		if invoice.CustomerID != req.CustomerID {
			return nil, fmt.Errorf("%w: invoice %s belongs to a different customer", apperrors.ErrValidation, invoice.InvoiceNumber)
		}

		applied := decimal.Min(alloc.Amount, invoice.Balance, remaining)
		if !applied.IsPositive() {
			continue
		}
		remaining = remaining.Sub(applied)

		payment.Allocations = append(payment.Allocations, domain.PaymentAllocation{
			AllocationID: uuid.NewString(),
			PaymentID:    payment.PaymentID,
			InvoiceID:    invoice.InvoiceID,
			Amount:       applied,
		})
		updates = append(updates, invoiceUpdate{invoice: invoice, allocated: applied})
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()), slog.String("payment_number", paymentNumber))
		return nil, err
	}

	for _, u := range updates {
		paid := u.invoice.PaidAmount.Add(u.allocated)
		balance := u.invoice.Total.Sub(paid)
		projected := *u.invoice
		projected.PaidAmount = paid
		projected.Balance = balance
		status := projected.StatusForBalance()
		if err := s.invoiceRepo.UpdateInvoicePayment(ctx, organizationID, u.invoice.InvoiceID, paid, balance, status, creatorUserID, now); err != nil {
			logger.Error("Failed to update invoice payment state", slog.String("error", err.Error()), slog.String("invoice_id", u.invoice.InvoiceID))
			return nil, err
		}
	}

	if err := s.postPaymentEntry(ctx, organizationID, &payment, customer, creatorUserID); err != nil {
		return nil, err
	}

	logger.Info("Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("payment_number", payment.PaymentNumber),
		slog.Int("allocations", len(payment.Allocations)))
	return &payment, nil
}

// postPaymentEntry posts the receipt: debit the deposit account for the full
// amount, credit receivable for the allocated part and credit customer
// deposits for any unallocated remainder.
func (s *PaymentService) postPaymentEntry(ctx context.Context, organizationID string, payment *domain.Payment, customer *domain.Customer, creatorUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	contactType := domain.ContactCustomer
	customerID := payment.CustomerID
	lines := []domain.JournalLineItem{
		{
			AccountID:   payment.DepositAccountID,
			Description: fmt.Sprintf("Payment %s from %s", payment.PaymentNumber, customer.DisplayName),
			Debit:       payment.Amount,
			ContactType: &contactType,
			ContactID:   &customerID,
		},
	}

	allocated := payment.AllocatedTotal()
	if allocated.IsPositive() {
		receivable, err := s.accountSvc.ResolveTaggedAccount(ctx, organizationID, domain.TagReceivable, creatorUserID)
		if err != nil {
			return err
		}
		lines = append(lines, domain.JournalLineItem{
			AccountID:   receivable.AccountID,
			Description: fmt.Sprintf("Payment %s applied to invoices", payment.PaymentNumber),
			Credit:      allocated,
			ContactType: &contactType,
			ContactID:   &customerID,
		})
	}

	unallocated := payment.UnallocatedAmount()
	if unallocated.IsPositive() {
		deposits, err := s.accountSvc.ResolveTaggedAccount(ctx, organizationID, domain.TagCustomerDeposits, creatorUserID)
		if err != nil {
			return err
		}
		lines = append(lines, domain.JournalLineItem{
			AccountID:   deposits.AccountID,
			Description: fmt.Sprintf("Unapplied portion of payment %s", payment.PaymentNumber),
			Credit:      unallocated,
			ContactType: &contactType,
			ContactID:   &customerID,
		})
	}

	sourceID := payment.PaymentID
	if _, err := s.journalSvc.PostEntry(ctx, organizationID, portssvc.PostEntryInput{
		Date:        payment.PaymentDate,
		Reference:   payment.PaymentNumber,
		Description: fmt.Sprintf("Payment %s received", payment.PaymentNumber),
		SourceType:  domain.SourcePayment,
		SourceID:    &sourceID,
		LineItems:   lines,
	}, creatorUserID); err != nil {
		logger.Error("Failed to post payment journal entry", slog.String("error", err.Error()), slog.String("payment_id", payment.PaymentID))
		return err
	}
	return nil
}

// GetPaymentByID retrieves a payment with its allocations.
func (s *PaymentService) GetPaymentByID(ctx context.Context, organizationID string, paymentID string, requestingUserID string) (*domain.Payment, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.paymentRepo.FindPaymentByID(ctx, organizationID, paymentID)
}

// ListPayments retrieves a page of payments.
func (s *PaymentService) ListPayments(ctx context.Context, organizationID string, requestingUserID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPaymentPageSize
	}

	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, organizationID, params.CustomerID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return &dto.ListPaymentsResponse{Payments: payments, NextToken: nextToken}, nil
}

// DeletePayment reverses the payment: invoice balances are restored, the
// journal entry removed and the payment deleted.
func (s *PaymentService) DeletePayment(ctx context.Context, organizationID string, paymentID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	payment, err := s.paymentRepo.FindPaymentByID(ctx, organizationID, paymentID)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, alloc := range payment.Allocations {
		invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, organizationID, alloc.InvoiceID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return err
		}

		paid := invoice.PaidAmount.Sub(alloc.Amount)
		if paid.IsNegative() {
			paid = decimal.Zero
		}
		balance := invoice.Total.Sub(paid)
		projected := *invoice
		projected.PaidAmount = paid
		projected.Balance = balance
		status := projected.StatusForBalance()
		if err := s.invoiceRepo.UpdateInvoicePayment(ctx, organizationID, invoice.InvoiceID, paid, balance, status, requestingUserID, now); err != nil {
			logger.Error("Failed to restore invoice balance", slog.String("error", err.Error()), slog.String("invoice_id", invoice.InvoiceID))
			return err
		}
	}

	if err := s.journalRepo.DeleteEntriesBySource(ctx, organizationID, domain.SourcePayment, paymentID); err != nil {
		logger.Error("Failed to delete payment journal entries", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return err
	}

	if err := s.paymentRepo.DeletePayment(ctx, organizationID, paymentID); err != nil {
		logger.Error("Failed to delete payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return err
	}

	logger.Info("Payment deleted", slog.String("payment_id", paymentID), slog.String("payment_number", payment.PaymentNumber))
	return nil
}
