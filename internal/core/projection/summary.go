package projection

import (
	"fmt"
	"time"

	"compromisos/internal/core/domain"
)

// Summarize classifies one commitment at an as-of time into its lifecycle
// state and resolves its per-period amount. asOf is always caller-supplied;
// the engine never reads the system clock.
//
// The latest-version term decides which lineage the commitment is in. While
// that term still covers the current period (or is open) the commitment is
// live and the most recent occurrence at or before the current period is
// classified ok / pending / overdue / no_payments. Once the final term's
// range lies wholly in the past the lineage has ended: completed when every
// occurrence of that term was paid, terminated when a finite multi-payment
// run was cut short, paused otherwise.
func Summarize(c domain.Commitment, payments []domain.Payment, asOf time.Time, conv Converter) (domain.CommitmentSummary, error) {
	if err := validateCommitment(c); err != nil {
		return domain.CommitmentSummary{}, err
	}
	if err := validateAsOf(asOf); err != nil {
		return domain.CommitmentSummary{}, err
	}
	if err := validateConverter(conv); err != nil {
		return domain.CommitmentSummary{}, err
	}

	own := paymentsFor(payments, c.CommitmentID)
	current := domain.PeriodOf(asOf)

	summary := domain.CommitmentSummary{
		CommitmentID: c.CommitmentID,
		Name:         c.Name,
		CategoryID:   c.CategoryID,
		Flow:         c.Flow,
		Important:    c.Important,
		Period:       current,
		CreatedAt:    c.CreatedAt,
		Warnings:     CheckInvariants(c, own),
	}

	latest := c.LatestTerm()
	if latest == nil {
		summary.State = domain.StateNoPayments
		return summary, nil
	}

	if latest.EffectiveUntil != nil && latest.EffectiveUntil.Before(current) {
		classifyEnded(&summary, c, *latest, own, conv)
	} else {
		classifyActive(&summary, c, own, current, asOf, conv)
	}
	return summary, nil
}

// classifyEnded handles a lineage whose final term lies wholly in the past.
func classifyEnded(summary *domain.CommitmentSummary, c domain.Commitment, last domain.Term, payments []domain.Payment, conv Converter) {
	occurrences := occurrencePeriods(c, last)

	allPaid := len(occurrences) > 0
	for _, p := range occurrences {
		if !MatchPayment(payments, c.CommitmentID, p, last.DueDay).IsPaid {
			allPaid = false
			break
		}
	}

	switch {
	case allPaid:
		summary.State = domain.StateCompleted
	case last.InstallmentsCount != nil && *last.InstallmentsCount > 1:
		summary.State = domain.StateTerminated
	default:
		summary.State = domain.StatePaused
	}

	if len(occurrences) > 0 {
		summary.Period = occurrences[len(occurrences)-1]
	} else {
		summary.Period = *last.EffectiveUntil
	}
	summary.DueDay = last.DueDay
	summary.Payment = MatchPayment(payments, c.CommitmentID, summary.Period, last.DueDay)
	due := summary.Payment.DueDate
	summary.DueDate = &due
	fillAmount(summary, last, payments, conv)
}

// classifyActive handles a live lineage: find the occurrence the state
// refers to and compare it against payment records and the due date.
func classifyActive(summary *domain.CommitmentSummary, c domain.Commitment, payments []domain.Payment, current domain.Period, asOf time.Time, conv Converter) {
	occ, ok := latestOccurrenceOnOrBefore(c, current)
	if !ok {
		// Starts in the future: nothing has ever been due.
		if next, found := firstOccurrenceAfter(c, current); found {
			summary.Period = next
			if term, has := FindTermForPeriod(c, next); has {
				summary.DueDay = term.DueDay
				due := next.DueDate(term.DueDay)
				summary.DueDate = &due
				summary.Payment = MatchPayment(payments, c.CommitmentID, next, term.DueDay)
				fillAmount(summary, term, payments, conv)
			}
		}
		if len(payments) == 0 {
			summary.State = domain.StateNoPayments
		} else {
			summary.State = domain.StatePending
		}
		return
	}

	term, has := FindTermForPeriod(c, occ)
	if !has {
		// latestOccurrenceOnOrBefore only returns covered periods; guard
		// against inconsistent data anyway.
		summary.State = domain.StateNoPayments
		return
	}

	summary.Period = occ
	summary.DueDay = term.DueDay
	status := MatchPayment(payments, c.CommitmentID, occ, term.DueDay)
	summary.Payment = status
	due := status.DueDate
	summary.DueDate = &due
	fillAmount(summary, term, payments, conv)

	switch {
	case status.IsPaid:
		summary.State = domain.StateOK
	case asOf.After(status.DueDate):
		// occ never lies in the future here, so past-due is decisive.
		summary.State = domain.StateOverdue
	case len(payments) == 0:
		summary.State = domain.StateNoPayments
	default:
		summary.State = domain.StatePending
	}
}

func fillAmount(summary *domain.CommitmentSummary, term domain.Term, payments []domain.Payment, conv Converter) {
	resolved := ResolveAmount(term, historyForTerm(payments, term.TermID), conv)
	summary.PerPeriodAmount = resolved.Value
	summary.AmountUnreliable = resolved.Unreliable()
	if !resolved.InBase {
		summary.Warnings = append(summary.Warnings, domain.Warning{
			Code:         domain.WarnConversionFailed,
			CommitmentID: summary.CommitmentID,
			Message:      fmt.Sprintf("amount for %q could not be expressed in base currency", summary.Name),
		})
	} else if resolved.Stale {
		summary.Warnings = append(summary.Warnings, domain.Warning{
			Code:         domain.WarnStaleConversion,
			CommitmentID: summary.CommitmentID,
			Message:      fmt.Sprintf("amount for %q uses a stored conversion, live rate unavailable", summary.Name),
		})
	}
}

// SummarizeAll projects a whole snapshot. The payments slice may mix
// commitments; it is indexed once.
func SummarizeAll(commitments []domain.Commitment, payments []domain.Payment, asOf time.Time, conv Converter) ([]domain.CommitmentSummary, error) {
	byCommitment := paymentsByCommitment(payments)
	out := make([]domain.CommitmentSummary, 0, len(commitments))
	for _, c := range commitments {
		s, err := Summarize(c, byCommitment[c.CommitmentID], asOf, conv)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", c.CommitmentID, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CountByState tallies summaries per lifecycle state for KPI widgets.
func CountByState(summaries []domain.CommitmentSummary) map[domain.LifecycleState]int {
	out := make(map[domain.LifecycleState]int, len(summaries))
	for _, s := range summaries {
		out[s.State]++
	}
	return out
}
