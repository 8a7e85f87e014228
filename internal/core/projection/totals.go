package projection

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
)

// maxTotalsRange caps ComputeTotalsRange; dashboards chart at most a few
// years of months.
const maxTotalsRange = 120

// ComputeMonthTotals aggregates one month across commitments into the
// dashboard buckets, all in base currency. Commitments active in the period
// contribute their resolved amount to comprometido (expenses) or ingresos
// (income); the expense status buckets fill independently from payment
// matching: pagado at the actually-paid amount, vencido when unpaid and past
// due as of asOf, pendiente otherwise. A value that cannot be expressed in
// base currency contributes zero and surfaces a warning instead of poisoning
// the sums.
func ComputeMonthTotals(commitments []domain.Commitment, payments []domain.Payment, period domain.Period, asOf time.Time, conv Converter) (domain.MonthTotals, error) {
	if err := validatePeriod(period); err != nil {
		return domain.MonthTotals{}, err
	}
	if err := validateAsOf(asOf); err != nil {
		return domain.MonthTotals{}, err
	}
	if err := validateConverter(conv); err != nil {
		return domain.MonthTotals{}, err
	}

	totals := domain.MonthTotals{Period: period}
	byCommitment := paymentsByCommitment(payments)
	periodIsFuture := period.After(domain.PeriodOf(asOf))

	for _, c := range commitments {
		if err := validateCommitment(c); err != nil {
			return domain.MonthTotals{}, err
		}
		if !IsActiveInPeriod(c, period) {
			continue
		}
		term, _ := FindTermForPeriod(c, period)
		own := byCommitment[c.CommitmentID]

		resolved := ResolveAmount(term, historyForTerm(own, term.TermID), conv)
		expected := resolved.Value
		if !resolved.InBase {
			expected = decimal.Zero
			totals.Warnings = append(totals.Warnings, conversionWarning(c))
		} else if resolved.Stale {
			totals.Warnings = append(totals.Warnings, staleWarning(c))
		}

		if c.Flow == domain.Income {
			totals.Income = totals.Income.Add(expected)
			continue
		}
		totals.Committed = totals.Committed.Add(expected)

		status := MatchPayment(own, c.CommitmentID, period, term.DueDay)
		switch {
		case status.IsPaid:
			record := findPaymentRecord(own, c.CommitmentID, period)
			paid, ok := paymentBaseAmount(*record, conv)
			if !ok {
				totals.Warnings = append(totals.Warnings, conversionWarning(c))
				continue
			}
			totals.Paid = totals.Paid.Add(paid)
		case !periodIsFuture && asOf.After(status.DueDate):
			totals.Overdue = totals.Overdue.Add(expected)
		default:
			totals.Pending = totals.Pending.Add(expected)
		}
	}

	totals.Balance = totals.Income.Sub(totals.Committed)
	return totals, nil
}

// ComputeTotalsRange aggregates consecutive months from one snapshot, for
// charting. Totals are additive: the range result equals each month computed
// independently.
func ComputeTotalsRange(commitments []domain.Commitment, payments []domain.Payment, from, to domain.Period, asOf time.Time, conv Converter) ([]domain.MonthTotals, error) {
	if err := validatePeriod(from); err != nil {
		return nil, err
	}
	if err := validatePeriod(to); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: range start %s is after end %s", apperrors.ErrValidation, from, to)
	}
	if months := to.MonthsSince(from) + 1; months > maxTotalsRange {
		return nil, fmt.Errorf("%w: range of %d months exceeds the %d month limit", apperrors.ErrValidation, months, maxTotalsRange)
	}

	var out []domain.MonthTotals
	for p := from; !p.After(to); p = p.Next() {
		totals, err := ComputeMonthTotals(commitments, payments, p, asOf, conv)
		if err != nil {
			return nil, err
		}
		out = append(out, totals)
	}
	return out, nil
}

func conversionWarning(c domain.Commitment) domain.Warning {
	return domain.Warning{
		Code:         domain.WarnConversionFailed,
		CommitmentID: c.CommitmentID,
		Message:      fmt.Sprintf("amount for %q could not be expressed in base currency, counted as zero", c.Name),
	}
}

func staleWarning(c domain.Commitment) domain.Warning {
	return domain.Warning{
		Code:         domain.WarnStaleConversion,
		CommitmentID: c.CommitmentID,
		Message:      fmt.Sprintf("amount for %q uses a stored conversion, live rate unavailable", c.Name),
	}
}
