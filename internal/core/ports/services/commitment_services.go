package services

import (
	"context"

	"compromisos/internal/core/domain"
	"compromisos/internal/dto"
)

// CommitmentReaderSvc defines read operations for commitments
type CommitmentReaderSvc interface {
	// GetCommitmentByID retrieves a commitment with its terms, enforcing
	// ownership.
	GetCommitmentByID(ctx context.Context, userID, commitmentID string) (*domain.Commitment, error)

	// ListCommitments retrieves a page of the user's commitments.
	ListCommitments(ctx context.Context, userID string, limit int, nextToken string) ([]domain.Commitment, string, error)
}

// CommitmentWriterSvc defines write operations for commitments and terms
type CommitmentWriterSvc interface {
	// CreateCommitment creates a commitment together with its initial term.
	CreateCommitment(ctx context.Context, userID string, req dto.CreateCommitmentRequest) (*domain.Commitment, error)

	// UpdateCommitment updates descriptive fields, enforcing ownership.
	UpdateCommitment(ctx context.Context, userID, commitmentID string, req dto.UpdateCommitmentRequest) (*domain.Commitment, error)

	// ChangeTerms registers new conditions from a given period on: the open
	// term is closed the month before and a new version is inserted.
	ChangeTerms(ctx context.Context, userID, commitmentID string, req dto.ChangeTermsRequest) (*domain.Commitment, error)

	// DeleteCommitment marks a commitment as deleted, enforcing ownership.
	DeleteCommitment(ctx context.Context, userID, commitmentID string) error
}

// CommitmentPaymentSvc defines payment record operations on a commitment
type CommitmentPaymentSvc interface {
	// UpsertPayment records or corrects the payment of one period. The term
	// governing the period is resolved once and frozen on the record.
	UpsertPayment(ctx context.Context, userID, commitmentID string, req dto.UpsertPaymentRequest) (*domain.Payment, error)

	// ListPayments retrieves all payment records of a commitment, enforcing
	// ownership.
	ListPayments(ctx context.Context, userID, commitmentID string) ([]domain.Payment, error)

	// ListPaymentsInRange retrieves the user's payment records across all
	// commitments whose period falls within [from, to].
	ListPaymentsInRange(ctx context.Context, userID string, from, to domain.Period) ([]domain.Payment, error)

	// DeletePayment removes a payment record, enforcing ownership.
	DeletePayment(ctx context.Context, userID, commitmentID, paymentID string) error
}

// CommitmentSvcFacade combines all commitment-related service interfaces
type CommitmentSvcFacade interface {
	CommitmentReaderSvc
	CommitmentWriterSvc
	CommitmentPaymentSvc
}
