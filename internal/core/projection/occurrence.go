package projection

import (
	"compromisos/internal/core/domain"
)

// maxOccurrenceScan bounds backward/forward walks over periods. A hundred
// years of months is far beyond any real commitment's lifetime.
const maxOccurrenceScan = 1200

// IsActiveInPeriod reports whether the commitment expects an occurrence
// (a charge or an income event) in the given period. The cadence anchors to
// the governing term's effective_from, not to calendar quarters: moving
// effective_from shifts the whole recurrence pattern.
func IsActiveInPeriod(c domain.Commitment, period domain.Period) bool {
	term, ok := FindTermForPeriod(c, period)
	if !ok {
		return false
	}
	monthsDiff := period.MonthsSince(term.EffectiveFrom)
	if monthsDiff < 0 {
		return false
	}
	switch term.Frequency {
	case domain.Once:
		return monthsDiff == 0
	case domain.Monthly:
		return true
	case domain.Bimonthly:
		return monthsDiff%2 == 0
	case domain.Quarterly:
		return monthsDiff%3 == 0
	case domain.Semiannually:
		return monthsDiff%6 == 0
	case domain.Annually:
		return monthsDiff%12 == 0
	default:
		// Unknown frequency: assume active rather than silently dropping
		// the commitment from every view.
		return true
	}
}

// latestOccurrenceOnOrBefore walks backward from limit to the most recent
// period in which the commitment is active. Returns false when the
// commitment has no occurrence at or before limit (it starts in the future,
// or has no terms).
func latestOccurrenceOnOrBefore(c domain.Commitment, limit domain.Period) (domain.Period, bool) {
	earliest, ok := earliestEffectiveFrom(c)
	if !ok {
		return domain.Period{}, false
	}
	p := limit
	for i := 0; i < maxOccurrenceScan && !p.Before(earliest); i++ {
		if IsActiveInPeriod(c, p) {
			return p, true
		}
		p = p.AddMonths(-1)
	}
	return domain.Period{}, false
}

// firstOccurrenceAfter walks forward from start (exclusive) to the next
// period in which the commitment is active.
func firstOccurrenceAfter(c domain.Commitment, start domain.Period) (domain.Period, bool) {
	p := start.Next()
	for i := 0; i < maxOccurrenceScan; i++ {
		if IsActiveInPeriod(c, p) {
			return p, true
		}
		p = p.AddMonths(1)
	}
	return domain.Period{}, false
}

// occurrencePeriods lists a closed term's occurrence periods in order. Open
// terms and terms that never produce an occurrence return an empty slice.
func occurrencePeriods(c domain.Commitment, t domain.Term) []domain.Period {
	if t.EffectiveUntil == nil {
		return nil
	}
	var out []domain.Period
	p := t.EffectiveFrom
	for i := 0; i < maxOccurrenceScan && !p.After(*t.EffectiveUntil); i++ {
		if term, ok := FindTermForPeriod(c, p); ok && term.TermID == t.TermID && IsActiveInPeriod(c, p) {
			out = append(out, p)
		}
		p = p.Next()
	}
	return out
}

func earliestEffectiveFrom(c domain.Commitment) (domain.Period, bool) {
	var (
		found bool
		min   domain.Period
	)
	for _, t := range c.Terms {
		if !found || t.EffectiveFrom.Before(min) {
			min = t.EffectiveFrom
			found = true
		}
	}
	return min, found
}
