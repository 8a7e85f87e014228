package projection_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"compromisos/internal/core/domain"
	"compromisos/internal/core/projection"
)

func TestCompare_TierOrdering(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	opts := projection.RankOptions{Now: now}

	justCreated := summaryFixture("c1", "Nueva", domain.StatePending, func(s *domain.CommitmentSummary) {
		s.CreatedAt = now.Add(-2 * time.Minute)
	})
	important := summaryFixture("c2", "Importante", domain.StatePending, func(s *domain.CommitmentSummary) {
		s.Important = true
	})
	overdue := summaryFixture("c3", "Vencida", domain.StateOverdue, nil)
	pending := summaryFixture("c4", "Pendiente", domain.StatePending, nil)
	settled := summaryFixture("c5", "Pagada", domain.StateOK, nil)
	paused := summaryFixture("c6", "Pausada", domain.StatePaused, nil)

	ordered := []domain.CommitmentSummary{justCreated, important, overdue, pending, settled, paused}
	for i := 0; i < len(ordered)-1; i++ {
		// paused and settled share the bottom tier
		if i == len(ordered)-2 {
			continue
		}
		assert.Negative(t, projection.Compare(ordered[i], ordered[i+1], opts),
			"%s should sort before %s", ordered[i].Name, ordered[i+1].Name)
	}
}

func TestCompare_RecencyTierDisabledWithoutNow(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	fresh := summaryFixture("c1", "Nueva", domain.StatePending, func(s *domain.CommitmentSummary) {
		s.CreatedAt = now.Add(-1 * time.Minute)
	})
	overdue := summaryFixture("c2", "Vencida", domain.StateOverdue, nil)

	// with Now injected the fresh one floats to the top
	assert.Negative(t, projection.Compare(fresh, overdue, projection.RankOptions{Now: now}))
	// without Now the rule is off and overdue wins
	assert.Positive(t, projection.Compare(fresh, overdue, projection.RankOptions{}))
}

func TestCompare_RecencyOnlyBoostsUnpaid(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	freshPaid := summaryFixture("c1", "Nueva pagada", domain.StateOK, func(s *domain.CommitmentSummary) {
		s.CreatedAt = now.Add(-1 * time.Minute)
	})
	pending := summaryFixture("c2", "Pendiente", domain.StatePending, nil)

	assert.Positive(t, projection.Compare(freshPaid, pending, projection.RankOptions{Now: now}))
}

func TestCompare_DueDayThenAmountThenName(t *testing.T) {
	opts := projection.RankOptions{}

	early := summaryFixture("c1", "B", domain.StatePending, func(s *domain.CommitmentSummary) { s.DueDay = intPtr(5) })
	late := summaryFixture("c2", "A", domain.StatePending, func(s *domain.CommitmentSummary) { s.DueDay = intPtr(20) })
	noDay := summaryFixture("c3", "A", domain.StatePending, nil)

	assert.Negative(t, projection.Compare(early, late, opts), "earlier due day first")
	assert.Negative(t, projection.Compare(late, noDay, opts), "missing due day sorts last")

	big := summaryFixture("c4", "Z", domain.StatePending, func(s *domain.CommitmentSummary) { s.PerPeriodAmount = clp(50000) })
	small := summaryFixture("c5", "A", domain.StatePending, func(s *domain.CommitmentSummary) { s.PerPeriodAmount = clp(1000) })
	assert.Negative(t, projection.Compare(big, small, opts), "larger amount first")

	// amounts within tolerance fall through to the name
	a := summaryFixture("c6", "Agua", domain.StatePending, func(s *domain.CommitmentSummary) { s.PerPeriodAmount = clp(10000) })
	b := summaryFixture("c7", "Luz", domain.StatePending, func(s *domain.CommitmentSummary) {
		s.PerPeriodAmount = clp(10000).Add(clpCents(1)) // inside the 0.01 band
	})
	assert.Negative(t, projection.Compare(a, b, opts))
}

func TestCompare_LocaleAwareNames(t *testing.T) {
	opts := projection.RankOptions{}
	enie := summaryFixture("c1", "Ñuñoa gastos comunes", domain.StatePending, nil)
	zeta := summaryFixture("c2", "Zapatos", domain.StatePending, nil)

	// Spanish collation places Ñ before Z, unlike byte order
	assert.Negative(t, projection.Compare(enie, zeta, opts))
}

func TestCompare_IDBreaksFinalTies(t *testing.T) {
	opts := projection.RankOptions{}
	a := summaryFixture("c-aaa", "Igual", domain.StatePending, nil)
	b := summaryFixture("c-bbb", "Igual", domain.StatePending, nil)

	assert.Negative(t, projection.Compare(a, b, opts))
	assert.Positive(t, projection.Compare(b, a, opts))
	assert.Zero(t, projection.Compare(a, a, opts))
}

func TestCompare_TotalOrder(t *testing.T) {
	opts := projection.RankOptions{}
	states := []domain.LifecycleState{
		domain.StatePending, domain.StateOverdue, domain.StateOK,
		domain.StatePaused, domain.StateTerminated, domain.StateNoPayments,
	}

	var all []domain.CommitmentSummary
	for i, st := range states {
		s := summaryFixture(
			"c-"+string(rune('a'+i)), "Item "+string(rune('A'+i)), st,
			func(s *domain.CommitmentSummary) { s.PerPeriodAmount = clp(int64(1000 * (i + 1))) },
		)
		if i%2 == 0 {
			s.DueDay = intPtr(i + 1)
		}
		all = append(all, s)
	}

	// antisymmetry
	for _, x := range all {
		for _, y := range all {
			assert.Equal(t, projection.Compare(x, y, opts), -projection.Compare(y, x, opts))
		}
	}
	// transitivity
	for _, x := range all {
		for _, y := range all {
			for _, z := range all {
				if projection.Compare(x, y, opts) < 0 && projection.Compare(y, z, opts) < 0 {
					assert.Negative(t, projection.Compare(x, z, opts))
				}
			}
		}
	}
}

func TestSort_StableUnderRepeats(t *testing.T) {
	opts := projection.RankOptions{}
	rng := rand.New(rand.NewSource(42))

	var list []domain.CommitmentSummary
	names := []string{"Arriendo", "Netflix", "Luz", "Agua", "Gimnasio", "Seguro"}
	states := []domain.LifecycleState{domain.StateOverdue, domain.StatePending, domain.StateOK}
	for i, n := range names {
		s := summaryFixture("c-"+n, n, states[i%len(states)], func(s *domain.CommitmentSummary) {
			s.PerPeriodAmount = clp(int64(5000 + 1000*i))
		})
		list = append(list, s)
	}

	projection.Sort(list, opts)
	first := append([]domain.CommitmentSummary(nil), list...)

	for i := 0; i < 5; i++ {
		rng.Shuffle(len(list), func(a, b int) { list[a], list[b] = list[b], list[a] })
		projection.Sort(list, opts)
		assert.Equal(t, first, list, "sort %d diverged", i)
	}
}

func TestSplitByFlow(t *testing.T) {
	exp := summaryFixture("c1", "Arriendo", domain.StatePending, nil)
	inc := summaryFixture("c2", "Sueldo", domain.StateOK, func(s *domain.CommitmentSummary) { s.Flow = domain.Income })

	expenses, incomes := projection.SplitByFlow([]domain.CommitmentSummary{exp, inc})
	assert.Len(t, expenses, 1)
	assert.Len(t, incomes, 1)
	assert.Equal(t, "c1", expenses[0].CommitmentID)
	assert.Equal(t, "c2", incomes[0].CommitmentID)
}
