package projection

import (
	"compromisos/internal/core/domain"
)

// FindTermForPeriod selects the term governing the given period: the one
// whose effective range covers it. When overlapping data leaves several
// candidates, the highest version wins. The second return is false when no
// term covers the period, which is a normal outcome, not an error.
func FindTermForPeriod(c domain.Commitment, period domain.Period) (domain.Term, bool) {
	var (
		found bool
		best  domain.Term
	)
	for _, t := range c.Terms {
		if !t.Covers(period) {
			continue
		}
		if !found || t.Version > best.Version {
			best = t
			found = true
		}
	}
	return best, found
}
