package repositories

import (
	"context"

	"github.com/quollbooks/quollbooks/internal/core/domain"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a payment with its allocations.
	FindPaymentByID(ctx context.Context, organizationID string, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a paginated list of payments using token-based pagination.
	ListPayments(ctx context.Context, organizationID string, customerID *string, limit int, nextToken *string) ([]domain.Payment, *string, error)

	// NextPaymentNumber returns the next sequential payment number (PAY-%05d) for the organization.
	NextPaymentNumber(ctx context.Context, organizationID string) (string, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment persists a payment and its allocations atomically.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// DeletePayment removes a payment and its allocations.
	DeletePayment(ctx context.Context, organizationID string, paymentID string) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
