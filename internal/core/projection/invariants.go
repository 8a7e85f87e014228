package projection

import (
	"fmt"

	"compromisos/internal/core/domain"
)

// CheckInvariants inspects one commitment's terms and payments for the data
// invariants the write path is supposed to enforce. Violations come back as
// warnings: the projection keeps classifying best-effort over dirty data,
// and the caller decides whether to surface them.
func CheckInvariants(c domain.Commitment, payments []domain.Payment) []domain.Warning {
	var warnings []domain.Warning
	warn := func(code domain.WarningCode, format string, args ...any) {
		warnings = append(warnings, domain.Warning{
			Code:         code,
			CommitmentID: c.CommitmentID,
			Message:      fmt.Sprintf(format, args...),
		})
	}

	if len(c.Terms) == 0 {
		warn(domain.WarnNoTerms, "commitment %q has no terms", c.Name)
		return append(warnings, checkPayments(c, payments)...)
	}

	openCount := 0
	for _, t := range c.Terms {
		if t.IsOpen() {
			openCount++
		}
		if t.Frequency == domain.Once {
			if t.InstallmentsCount == nil || *t.InstallmentsCount != 1 {
				warn(domain.WarnBadOnceTerm, "ONCE term v%d must have exactly one installment", t.Version)
			} else if t.EffectiveUntil == nil || !t.EffectiveUntil.Equal(t.EffectiveFrom) {
				warn(domain.WarnBadOnceTerm, "ONCE term v%d must end in its starting period", t.Version)
			}
		}
	}
	if openCount > 1 {
		warn(domain.WarnMultipleOpenTerms, "%d terms are open-ended, expected at most one", openCount)
	}

	if a, b, overlap := firstOverlap(c.Terms); overlap {
		warn(domain.WarnOverlappingTerms, "terms v%d and v%d overlap; highest version wins", a.Version, b.Version)
	}

	return append(warnings, checkPayments(c, payments)...)
}

func checkPayments(c domain.Commitment, payments []domain.Payment) []domain.Warning {
	var warnings []domain.Warning

	termIDs := make(map[string]struct{}, len(c.Terms))
	for _, t := range c.Terms {
		termIDs[t.TermID] = struct{}{}
	}

	seen := make(map[domain.Period]bool, len(payments))
	for _, p := range payments {
		if p.CommitmentID != c.CommitmentID {
			continue
		}
		if _, ok := termIDs[p.TermID]; !ok {
			warnings = append(warnings, domain.Warning{
				Code:         domain.WarnOrphanPayment,
				CommitmentID: c.CommitmentID,
				Message:      fmt.Sprintf("payment %s references unknown term %s", p.PaymentID, p.TermID),
			})
		}
		if seen[p.PeriodDate] {
			warnings = append(warnings, domain.Warning{
				Code:         domain.WarnDuplicatePayment,
				CommitmentID: c.CommitmentID,
				Message:      fmt.Sprintf("more than one payment settles period %s", p.PeriodDate),
			})
		}
		seen[p.PeriodDate] = true
	}
	return warnings
}

// firstOverlap finds the first pair of terms whose effective ranges
// intersect. One warning per commitment is enough for the dashboard.
func firstOverlap(terms []domain.Term) (domain.Term, domain.Term, bool) {
	for i := 0; i < len(terms); i++ {
		for j := i + 1; j < len(terms); j++ {
			if rangesIntersect(terms[i], terms[j]) {
				return terms[i], terms[j], true
			}
		}
	}
	return domain.Term{}, domain.Term{}, false
}

func rangesIntersect(a, b domain.Term) bool {
	aCoversBStart := a.Covers(b.EffectiveFrom)
	bCoversAStart := b.Covers(a.EffectiveFrom)
	return aCoversBStart || bCoversAStart
}
