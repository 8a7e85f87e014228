package projection_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"compromisos/internal/core/domain"
	"compromisos/internal/core/projection"
)

func usdTerm(amount float64) domain.Term {
	t := monthlyTerm("term-usd", "com-x", 1, domain.NewPeriod(2024, time.January), 0)
	t.CurrencyCode = "USD"
	t.OriginalAmount = decimal.NewFromFloat(amount)
	t.FxRate = decimal.NewFromInt(900) // rate captured at save time
	t.BaseAmount = decimal.NewFromFloat(amount).Mul(t.FxRate)
	return t
}

func TestResolveAmount_FixedConvertsLive(t *testing.T) {
	term := usdTerm(10)

	// live rate is 950, the stored base (9,000) must be ignored
	r := projection.ResolveAmount(term, nil, testConverter)
	assert.True(t, decimal.NewFromInt(9500).Equal(r.Value), "got %s", r.Value)
	assert.True(t, r.InBase)
	assert.False(t, r.Stale)
	assert.False(t, r.Unreliable())
}

func TestResolveAmount_FixedFallsBackToStoredBase(t *testing.T) {
	term := usdTerm(10)

	r := projection.ResolveAmount(term, nil, failingConverter)
	assert.True(t, decimal.NewFromInt(9000).Equal(r.Value), "got %s", r.Value)
	assert.True(t, r.InBase)
	assert.True(t, r.Stale)
	assert.True(t, r.Unreliable())
}

func TestResolveAmount_FixedLastResortOriginal(t *testing.T) {
	term := usdTerm(10)
	term.BaseAmount = decimal.Decimal{} // nothing stored

	r := projection.ResolveAmount(term, nil, failingConverter)
	assert.True(t, decimal.NewFromInt(10).Equal(r.Value))
	assert.False(t, r.InBase, "original-currency value must not enter base sums")
	assert.True(t, r.Unreliable())
}

func TestResolveAmount_NegativeConversionTreatedAsFailure(t *testing.T) {
	term := usdTerm(10)
	negative := func(a decimal.Decimal, c string) (decimal.Decimal, error) {
		return decimal.NewFromInt(-1), nil
	}

	r := projection.ResolveAmount(term, nil, negative)
	assert.True(t, decimal.NewFromInt(9000).Equal(r.Value))
	assert.True(t, r.Stale)
}

func TestResolveAmount_AverageOfHistory(t *testing.T) {
	term := monthlyTerm("term-luz", "com-luz", 1, domain.NewPeriod(2024, time.January), 30000)
	term.EstimationMode = domain.EstimationAverage

	history := []domain.Payment{
		settledPayment("p1", "com-luz", "term-luz", domain.NewPeriod(2024, time.January), 28000, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
		settledPayment("p2", "com-luz", "term-luz", domain.NewPeriod(2024, time.February), 32000, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)),
		settledPayment("p3", "com-luz", "term-luz", domain.NewPeriod(2024, time.March), 30000, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
	}

	r := projection.ResolveAmount(term, history, testConverter)
	assert.True(t, clp(30000).Equal(r.Value), "got %s", r.Value)
	assert.True(t, r.InBase)
	assert.False(t, r.Stale)
}

func TestResolveAmount_AverageSkipsUnconvertible(t *testing.T) {
	term := monthlyTerm("term-luz", "com-luz", 1, domain.NewPeriod(2024, time.January), 30000)
	term.EstimationMode = domain.EstimationAverage

	bad := settledPayment("p2", "com-luz", "term-luz", domain.NewPeriod(2024, time.February), 0, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	bad.CurrencyCode = "ARS" // no rate in the test converter
	bad.OriginalAmount = decimal.NewFromInt(99999)
	bad.BaseAmount = decimal.Decimal{}

	history := []domain.Payment{
		settledPayment("p1", "com-luz", "term-luz", domain.NewPeriod(2024, time.January), 28000, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
		bad,
	}

	r := projection.ResolveAmount(term, history, testConverter)
	assert.True(t, clp(28000).Equal(r.Value), "got %s", r.Value)
	assert.True(t, r.InBase)
	assert.True(t, r.Stale, "skipping history entries degrades the result")
}

func TestResolveAmount_AverageEmptyFallsBackToFixed(t *testing.T) {
	term := monthlyTerm("term-luz", "com-luz", 1, domain.NewPeriod(2024, time.January), 30000)
	term.EstimationMode = domain.EstimationAverage

	r := projection.ResolveAmount(term, nil, testConverter)
	assert.True(t, clp(30000).Equal(r.Value))
	assert.True(t, r.InBase)
}

func TestResolveAmount_LastTakesMostRecent(t *testing.T) {
	term := monthlyTerm("term-agua", "com-agua", 1, domain.NewPeriod(2024, time.January), 15000)
	term.EstimationMode = domain.EstimationLast

	history := []domain.Payment{
		settledPayment("p1", "com-agua", "term-agua", domain.NewPeriod(2024, time.March), 17500, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)),
		settledPayment("p2", "com-agua", "term-agua", domain.NewPeriod(2024, time.January), 14000, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)),
		settledPayment("p3", "com-agua", "term-agua", domain.NewPeriod(2024, time.February), 16000, time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)),
	}

	r := projection.ResolveAmount(term, history, testConverter)
	assert.True(t, clp(17500).Equal(r.Value), "got %s", r.Value)
}

func TestResolveAmount_LastBreaksPeriodTiesByPaymentDate(t *testing.T) {
	term := monthlyTerm("term-agua", "com-agua", 1, domain.NewPeriod(2024, time.January), 15000)
	term.EstimationMode = domain.EstimationLast
	mar := domain.NewPeriod(2024, time.March)

	history := []domain.Payment{
		settledPayment("p1", "com-agua", "term-agua", mar, 17500, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)),
		settledPayment("p2", "com-agua", "term-agua", mar, 18000, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)),
	}

	r := projection.ResolveAmount(term, history, testConverter)
	assert.True(t, clp(18000).Equal(r.Value), "got %s", r.Value)
}

func TestResolveAmount_LastEmptyFallsBackToFixed(t *testing.T) {
	term := monthlyTerm("term-agua", "com-agua", 1, domain.NewPeriod(2024, time.January), 15000)
	term.EstimationMode = domain.EstimationLast

	r := projection.ResolveAmount(term, nil, testConverter)
	assert.True(t, clp(15000).Equal(r.Value))
}
