// Package projection computes what a set of financial commitments expects,
// what was paid, and what lifecycle state each commitment is in, for any
// calendar period. Every function is pure: inputs are immutable snapshots
// already fetched by the caller, the as-of time and the currency converter
// are always parameters, and nothing here performs I/O or retains state
// between calls. Callers re-invoke after their data changes.
package projection

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
)

// Converter turns an amount in the given currency into the base currency.
// It is always injected; the engine never reads rates from global state, so
// amounts recompute live against current rates instead of freezing at the
// value they had when saved.
type Converter func(amount decimal.Decimal, currencyCode string) (decimal.Decimal, error)

// ResolvedAmount is the outcome of amount resolution. InBase is false when
// not even a stored base-currency value was available; such values must not
// be added into base-currency sums. Stale means the live conversion failed
// and a previously stored value was used instead.
type ResolvedAmount struct {
	Value  decimal.Decimal
	InBase bool
	Stale  bool
}

// Unreliable reports whether the value should be flagged to the caller.
func (r ResolvedAmount) Unreliable() bool {
	return !r.InBase || r.Stale
}

func validateAsOf(asOf time.Time) error {
	if asOf.IsZero() {
		return fmt.Errorf("%w: as-of time must be provided", apperrors.ErrValidation)
	}
	return nil
}

func validateConverter(conv Converter) error {
	if conv == nil {
		return fmt.Errorf("%w: currency converter must be provided", apperrors.ErrValidation)
	}
	return nil
}

func validateCommitment(c domain.Commitment) error {
	if c.CommitmentID == "" {
		return fmt.Errorf("%w: commitment id must not be empty", apperrors.ErrValidation)
	}
	return nil
}

func validatePeriod(p domain.Period) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

// paymentsFor filters a mixed snapshot down to one commitment's payments,
// preserving order.
func paymentsFor(payments []domain.Payment, commitmentID string) []domain.Payment {
	out := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		if p.CommitmentID == commitmentID {
			out = append(out, p)
		}
	}
	return out
}

// paymentsByCommitment indexes a snapshot by commitment id.
func paymentsByCommitment(payments []domain.Payment) map[string][]domain.Payment {
	out := make(map[string][]domain.Payment, len(payments))
	for _, p := range payments {
		out[p.CommitmentID] = append(out[p.CommitmentID], p)
	}
	return out
}

// historyForTerm returns the payments recorded under a specific term. TermID
// is frozen at record time, so this is the term's own settlement history.
func historyForTerm(payments []domain.Payment, termID string) []domain.Payment {
	out := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		if p.TermID == termID {
			out = append(out, p)
		}
	}
	return out
}
