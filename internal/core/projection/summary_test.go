package projection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
	"compromisos/internal/core/projection"
)

func TestSummarize_OKWhenCurrentOccurrencePaid(t *testing.T) {
	c := netflix()
	c.Terms[0].DueDay = intPtr(5)
	jun := domain.NewPeriod(2024, time.June)
	payments := []domain.Payment{
		settledPayment("pay-1", c.CommitmentID, "term-netflix-v1", jun, 9990, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)),
	}

	s, err := projection.Summarize(c, payments, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StateOK, s.State)
	assert.Equal(t, jun, s.Period)
	assert.True(t, clp(9990).Equal(s.PerPeriodAmount))
	assert.False(t, s.AmountUnreliable)
	assert.True(t, s.Payment.PaidOnTime)
}

func TestSummarize_PendingBeforeDueDate(t *testing.T) {
	c := netflix()
	c.Terms[0].DueDay = intPtr(25)
	payments := []domain.Payment{
		settledPayment("pay-may", c.CommitmentID, "term-netflix-v1", domain.NewPeriod(2024, time.May), 9990, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)),
	}

	s, err := projection.Summarize(c, payments, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, s.State)
	assert.Equal(t, domain.NewPeriod(2024, time.June), s.Period)
}

func TestSummarize_OverdueAfterDueDate(t *testing.T) {
	c := netflix()
	c.Terms[0].DueDay = intPtr(5)
	payments := []domain.Payment{
		settledPayment("pay-may", c.CommitmentID, "term-netflix-v1", domain.NewPeriod(2024, time.May), 9990, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)),
	}

	s, err := projection.Summarize(c, payments, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StateOverdue, s.State)
}

func TestSummarize_NoPaymentsEver(t *testing.T) {
	c := netflix()
	c.Terms[0].DueDay = intPtr(25)

	s, err := projection.Summarize(c, nil, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNoPayments, s.State)
}

func TestSummarize_OnceOverdueThenOK(t *testing.T) {
	// a one-shot charge: due date passed, nothing paid
	c := netflix()
	c.Name = "Matrícula"
	c.Terms[0].Frequency = domain.Once
	c.Terms[0].InstallmentsCount = intPtr(1)
	c.Terms[0].EffectiveFrom = domain.NewPeriod(2024, time.June)
	c.Terms[0].EffectiveUntil = periodPtr(domain.NewPeriod(2024, time.June))
	c.Terms[0].DueDay = intPtr(10)

	asOf := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

	s, err := projection.Summarize(c, nil, asOf, testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StateOverdue, s.State)

	// recording the payment flips it to ok
	payments := []domain.Payment{
		settledPayment("pay-1", c.CommitmentID, "term-netflix-v1", domain.NewPeriod(2024, time.June), 9990, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)),
	}
	s, err = projection.Summarize(c, payments, asOf.Add(48*time.Hour), testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StateOK, s.State)
}

func TestSummarize_CompletedWhenFiniteRunFullyPaid(t *testing.T) {
	// 3 monthly installments, all paid, viewed after the run ended
	c := netflix()
	c.Name = "Crédito notebook"
	c.Terms[0].InstallmentsCount = intPtr(3)
	c.Terms[0].EffectiveUntil = periodPtr(domain.NewPeriod(2024, time.March))

	var payments []domain.Payment
	for _, m := range []time.Month{time.January, time.February, time.March} {
		p := domain.NewPeriod(2024, m)
		payments = append(payments, settledPayment(
			"pay-"+p.String(), c.CommitmentID, "term-netflix-v1", p, 9990,
			time.Date(2024, m, 5, 0, 0, 0, 0, time.UTC),
		))
	}

	s, err := projection.Summarize(c, payments, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, s.State)
	assert.Equal(t, domain.NewPeriod(2024, time.March), s.Period)
}

func TestSummarize_TerminatedWhenFiniteRunHasGaps(t *testing.T) {
	c := netflix()
	c.Terms[0].InstallmentsCount = intPtr(3)
	c.Terms[0].EffectiveUntil = periodPtr(domain.NewPeriod(2024, time.March))

	// only one of three installments was ever paid
	payments := []domain.Payment{
		settledPayment("pay-1", c.CommitmentID, "term-netflix-v1", domain.NewPeriod(2024, time.January), 9990, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
	}

	s, err := projection.Summarize(c, payments, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StateTerminated, s.State)
}

func TestSummarize_PausedWhenLineageEndedWithoutFiniteRun(t *testing.T) {
	c := netflix()
	c.Terms[0].EffectiveUntil = periodPtr(domain.NewPeriod(2024, time.April))

	s, err := projection.Summarize(c, nil, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePaused, s.State)
}

func TestSummarize_FutureStartIsNotOverdue(t *testing.T) {
	c := netflix()
	c.Terms[0].EffectiveFrom = domain.NewPeriod(2025, time.January)
	c.Terms[0].DueDay = intPtr(5)

	s, err := projection.Summarize(c, nil, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNoPayments, s.State)
	assert.Equal(t, domain.NewPeriod(2025, time.January), s.Period)
}

func TestSummarize_NoTermsWarns(t *testing.T) {
	c := netflix()
	c.Terms = nil

	s, err := projection.Summarize(c, nil, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), testConverter)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNoPayments, s.State)
	require.NotEmpty(t, s.Warnings)
	assert.Equal(t, domain.WarnNoTerms, s.Warnings[0].Code)
}

func TestSummarize_ConversionFallbackFlagsUnreliable(t *testing.T) {
	c := netflix()
	c.Terms[0].CurrencyCode = "USD"
	c.Terms[0].BaseAmount = clp(9000)

	s, err := projection.Summarize(c, nil, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), failingConverter)
	require.NoError(t, err)
	assert.True(t, s.AmountUnreliable)
	assert.True(t, clp(9000).Equal(s.PerPeriodAmount))

	found := false
	for _, w := range s.Warnings {
		if w.Code == domain.WarnStaleConversion {
			found = true
		}
	}
	assert.True(t, found, "expected a stale-conversion warning, got %v", s.Warnings)
}

func TestSummarize_ContractViolations(t *testing.T) {
	c := netflix()
	asOf := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	_, err := projection.Summarize(domain.Commitment{}, nil, asOf, testConverter)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = projection.Summarize(c, nil, time.Time{}, testConverter)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = projection.Summarize(c, nil, asOf, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSummarizeAll_CountsByState(t *testing.T) {
	paid := netflix()
	paid.Terms[0].DueDay = intPtr(5)

	late := netflix()
	late.CommitmentID = "com-luz"
	late.Name = "Luz"
	late.Terms = []domain.Term{monthlyTerm("term-luz-v1", "com-luz", 1, domain.NewPeriod(2024, time.January), 30000)}
	late.Terms[0].DueDay = intPtr(5)

	jun := domain.NewPeriod(2024, time.June)
	payments := []domain.Payment{
		settledPayment("pay-1", paid.CommitmentID, "term-netflix-v1", jun, 9990, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)),
		// Luz has history but nothing for June
		settledPayment("pay-2", "com-luz", "term-luz-v1", domain.NewPeriod(2024, time.May), 28000, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)),
	}

	summaries, err := projection.SummarizeAll(
		[]domain.Commitment{paid, late}, payments,
		time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), testConverter,
	)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	counts := projection.CountByState(summaries)
	assert.Equal(t, 1, counts[domain.StateOK])
	assert.Equal(t, 1, counts[domain.StateOverdue])
}
