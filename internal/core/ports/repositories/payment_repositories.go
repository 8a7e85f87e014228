package repositories

import (
	"context"

	"compromisos/internal/core/domain"
)

// PaymentReader defines read operations for payment records
type PaymentReader interface {
	// FindPaymentByID retrieves a payment by its ID.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentsByCommitment retrieves all payment records of a commitment,
	// ordered by period.
	FindPaymentsByCommitment(ctx context.Context, commitmentID string) ([]domain.Payment, error)

	// FindPaymentsByUser retrieves payment records across all of the user's
	// commitments. from/to bound the period range when not nil.
	FindPaymentsByUser(ctx context.Context, userID string, from, to *domain.Period) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payment records
type PaymentWriter interface {
	// UpsertPayment inserts the payment or, when a record already exists for
	// the same commitment and period, replaces its mutable fields. The stored
	// row is returned; on conflict it keeps its original PaymentID and TermID.
	UpsertPayment(ctx context.Context, userID string, payment domain.Payment) (*domain.Payment, error)

	// DeletePayment removes a payment record.
	DeletePayment(ctx context.Context, userID string, paymentID string) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
