package repositories

import (
	"context"
	"time"

	"compromisos/internal/core/domain"
)

// CommitmentReader defines read operations for commitments and their terms
type CommitmentReader interface {
	// FindCommitmentByID retrieves a commitment with all its term versions.
	FindCommitmentByID(ctx context.Context, commitmentID string) (*domain.Commitment, error)

	// FindCommitmentsByUser retrieves a page of the user's commitments, terms
	// attached, ordered by creation time. nextToken is an opaque cursor; the
	// returned token is empty on the last page.
	FindCommitmentsByUser(ctx context.Context, userID string, limit int, nextToken string) ([]domain.Commitment, string, error)

	// FindAllCommitmentsByUser retrieves every live commitment of the user with
	// terms attached. Used by projection, which needs the complete set.
	FindAllCommitmentsByUser(ctx context.Context, userID string) ([]domain.Commitment, error)

	// FindTermsByCommitment retrieves all term versions for a commitment,
	// ordered by version.
	FindTermsByCommitment(ctx context.Context, commitmentID string) ([]domain.Term, error)
}

// CommitmentWriter defines write operations for commitments and their terms
type CommitmentWriter interface {
	// SaveCommitment persists a new commitment together with its initial term,
	// atomically.
	SaveCommitment(ctx context.Context, commitment domain.Commitment, initialTerm domain.Term) error

	// UpdateCommitment updates a commitment's descriptive fields. Terms are
	// never touched here.
	UpdateCommitment(ctx context.Context, commitment domain.Commitment) error

	// SaveTermVersion inserts a new term version and, when closeUntil is not
	// nil, closes the currently open term at that period. Both happen in one
	// transaction.
	SaveTermVersion(ctx context.Context, userID string, closeUntil *domain.Period, term domain.Term) error

	// MarkCommitmentDeleted marks a commitment as deleted (soft delete).
	MarkCommitmentDeleted(ctx context.Context, userID string, commitmentID string, deletedAt time.Time, deletedBy string) error
}

// CommitmentRepositoryFacade combines all commitment-related repository interfaces
type CommitmentRepositoryFacade interface {
	CommitmentReader
	CommitmentWriter
}
