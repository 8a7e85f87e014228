package projection_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"compromisos/internal/core/domain"
	"compromisos/internal/core/projection"
)

func TestMatchPayment_PaidOnTime(t *testing.T) {
	may := domain.NewPeriod(2024, time.May)

	tests := []struct {
		name       string
		paidAt     time.Time
		wantOnTime bool
	}{
		{"paid before due day", time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), true},
		{"paid on due day", time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC), true},
		{"paid after due day", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := []domain.Payment{
				settledPayment("pay-1", "com-netflix", "term-netflix-v1", may, 9990, tt.paidAt),
			}
			status := projection.MatchPayment(payments, "com-netflix", may, intPtr(5))
			assert.True(t, status.HasRecord)
			assert.True(t, status.IsPaid)
			assert.Equal(t, tt.wantOnTime, status.PaidOnTime)
		})
	}
}

func TestMatchPayment_UnsettledRecord(t *testing.T) {
	may := domain.NewPeriod(2024, time.May)
	payments := []domain.Payment{
		scheduledPayment("pay-1", "com-netflix", "term-netflix-v1", may, 9990),
	}

	status := projection.MatchPayment(payments, "com-netflix", may, intPtr(5))
	assert.True(t, status.HasRecord)
	assert.False(t, status.IsPaid)
	assert.True(t, status.PaidOnTime, "unpaid records are on time by definition")
	assert.Nil(t, status.PaymentDate)
}

func TestMatchPayment_NoRecord(t *testing.T) {
	status := projection.MatchPayment(nil, "com-netflix", domain.NewPeriod(2024, time.May), intPtr(5))
	assert.False(t, status.HasRecord)
	assert.False(t, status.IsPaid)
	assert.True(t, status.Amount.IsZero())
	assert.True(t, status.PaidOnTime)
}

func TestMatchPayment_MatchesOnYearAndMonthOnly(t *testing.T) {
	may := domain.NewPeriod(2024, time.May)
	payments := []domain.Payment{
		settledPayment("pay-apr", "com-netflix", "term-netflix-v1", domain.NewPeriod(2024, time.April), 9990, time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC)),
		settledPayment("pay-may", "com-netflix", "term-netflix-v1", may, 9990, time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)),
		settledPayment("pay-other", "com-other", "term-x", may, 5000, time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)),
	}

	status := projection.MatchPayment(payments, "com-netflix", may, nil)
	assert.True(t, status.IsPaid)
	assert.True(t, clp(9990).Equal(status.Amount))
}

func TestMatchPayment_AmountRoundTrip(t *testing.T) {
	// a payment recorded for P with amount A reads back as A
	may := domain.NewPeriod(2024, time.May)
	amount := decimal.NewFromFloat(10490.50)
	p := settledPayment("pay-1", "com-netflix", "term-netflix-v1", may, 0, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	p.OriginalAmount = amount
	p.BaseAmount = amount

	status := projection.MatchPayment([]domain.Payment{p}, "com-netflix", may, intPtr(5))
	assert.True(t, status.IsPaid)
	assert.True(t, amount.Equal(status.Amount))
}

func TestMatchPayment_FallsBackToOriginalAmount(t *testing.T) {
	may := domain.NewPeriod(2024, time.May)
	p := settledPayment("pay-1", "com-netflix", "term-netflix-v1", may, 9990, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	p.BaseAmount = decimal.Decimal{} // base never stored

	status := projection.MatchPayment([]domain.Payment{p}, "com-netflix", may, nil)
	assert.True(t, clp(9990).Equal(status.Amount))
}

func TestMatchPayment_DueDateOverrideWins(t *testing.T) {
	may := domain.NewPeriod(2024, time.May)
	override := time.Date(2024, 5, 20, 23, 59, 59, 0, time.UTC)
	p := settledPayment("pay-1", "com-netflix", "term-netflix-v1", may, 9990, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC))
	p.DueDateOverride = timePtr(override)

	// due day 5 would make the 15th late; the override moves it to the 20th
	status := projection.MatchPayment([]domain.Payment{p}, "com-netflix", may, intPtr(5))
	assert.Equal(t, override, status.DueDate)
	assert.True(t, status.PaidOnTime)
}

func TestMatchPayment_NilDueDayUsesMonthEnd(t *testing.T) {
	feb := domain.NewPeriod(2024, time.February)
	status := projection.MatchPayment(nil, "com-x", feb, nil)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), status.DueDate)
}
