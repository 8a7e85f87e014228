package projection

import (
	"compromisos/internal/core/domain"
)

// MatchPayment finds the payment record settling the given period, if any,
// and derives paid/on-time status. Period matching is by (year, month) only.
// PaidOnTime is true while unpaid; a per-payment due-date override beats the
// due day derived from the term. Overdue is not decided here: that needs the
// real as-of time and is combined one level up.
func MatchPayment(payments []domain.Payment, commitmentID string, period domain.Period, dueDay *int) domain.PaymentStatus {
	status := domain.PaymentStatus{
		DueDate:    period.DueDate(dueDay),
		PaidOnTime: true,
	}

	record := findPaymentRecord(payments, commitmentID, period)
	if record == nil {
		return status
	}

	if record.DueDateOverride != nil {
		status.DueDate = *record.DueDateOverride
	}
	status.HasRecord = true
	status.IsPaid = record.IsSettled()
	status.PaymentDate = record.PaymentDate

	// Display amount: stored base value, original as fallback. Aggregation
	// re-derives base amounts itself and never trusts this fallback.
	if !record.BaseAmount.IsZero() {
		status.Amount = record.BaseAmount
	} else {
		status.Amount = record.OriginalAmount
	}

	if status.IsPaid {
		status.PaidOnTime = !record.PaymentDate.After(status.DueDate)
	}
	return status
}

// findPaymentRecord locates the record for (commitment, period). With
// duplicate rows (an upstream invariant violation) the first in snapshot
// order wins; CheckInvariants surfaces the duplication as a warning.
func findPaymentRecord(payments []domain.Payment, commitmentID string, period domain.Period) *domain.Payment {
	for i := range payments {
		p := &payments[i]
		if p.CommitmentID == commitmentID && p.PeriodDate.Equal(period) {
			return p
		}
	}
	return nil
}
