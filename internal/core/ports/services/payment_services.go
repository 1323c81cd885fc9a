package services

import (
	"context"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// PaymentSvcFacade defines payment operations.
type PaymentSvcFacade interface {
	// CreatePayment records a customer payment, applies allocations to invoices
	// (clamped to each invoice's balance) and posts the journal entry.
	CreatePayment(ctx context.Context, organizationID string, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, error)

	// GetPaymentByID retrieves a payment with its allocations.
	GetPaymentByID(ctx context.Context, organizationID string, paymentID string, requestingUserID string) (*domain.Payment, error)

	// ListPayments retrieves a paginated list of payments.
	ListPayments(ctx context.Context, organizationID string, requestingUserID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)

	// DeletePayment reverses the payment's allocations, restores invoice
	// balances and removes its journal entry.
	DeletePayment(ctx context.Context, organizationID string, paymentID string, requestingUserID string) error
}
