package projection_test

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"compromisos/internal/core/domain"
	"compromisos/internal/core/projection"
)

// testConverter converts into CLP with fixed test rates. Unknown currencies
// fail, which is the path the fallback logic exercises.
func testConverter(amount decimal.Decimal, currencyCode string) (decimal.Decimal, error) {
	switch currencyCode {
	case "CLP":
		return amount, nil
	case "USD":
		return amount.Mul(decimal.NewFromInt(950)), nil
	case "UF":
		return amount.Mul(decimal.NewFromInt(37000)), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("no rate for %s", currencyCode)
	}
}

// failingConverter simulates a rate source outage.
func failingConverter(amount decimal.Decimal, currencyCode string) (decimal.Decimal, error) {
	return decimal.Decimal{}, fmt.Errorf("rates unavailable")
}

func intPtr(v int) *int { return &v }

func periodPtr(p domain.Period) *domain.Period { return &p }

func timePtr(t time.Time) *time.Time { return &t }

func clp(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func clpCents(v int64) decimal.Decimal { return decimal.New(v, -2) }

// monthlyTerm builds an open CLP term starting at the given period.
func monthlyTerm(id string, commitmentID string, version int, from domain.Period, amount int64) domain.Term {
	return domain.Term{
		TermID:         id,
		CommitmentID:   commitmentID,
		Version:        version,
		EffectiveFrom:  from,
		Frequency:      domain.Monthly,
		CurrencyCode:   "CLP",
		OriginalAmount: clp(amount),
		FxRate:         decimal.NewFromInt(1),
		BaseAmount:     clp(amount),
		EstimationMode: domain.EstimationFixed,
	}
}

// netflix is the canonical test commitment: 9,990 CLP monthly since 2024-01.
func netflix() domain.Commitment {
	from := domain.NewPeriod(2024, time.January)
	return domain.Commitment{
		CommitmentID: "com-netflix",
		UserID:       "user-1",
		Name:         "Netflix",
		CategoryID:   "cat-streaming",
		Flow:         domain.Expense,
		Terms: []domain.Term{
			monthlyTerm("term-netflix-v1", "com-netflix", 1, from, 9990),
		},
		AuditFields: domain.AuditFields{CreatedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
	}
}

// settledPayment builds a paid CLP payment for one period.
func settledPayment(id, commitmentID, termID string, period domain.Period, amount int64, paidAt time.Time) domain.Payment {
	return domain.Payment{
		PaymentID:      id,
		CommitmentID:   commitmentID,
		TermID:         termID,
		PeriodDate:     period,
		PaymentDate:    timePtr(paidAt),
		CurrencyCode:   "CLP",
		OriginalAmount: clp(amount),
		FxRate:         decimal.NewFromInt(1),
		BaseAmount:     clp(amount),
	}
}

// scheduledPayment builds an unsettled (expected) payment record.
func scheduledPayment(id, commitmentID, termID string, period domain.Period, amount int64) domain.Payment {
	p := settledPayment(id, commitmentID, termID, period, amount, time.Time{})
	p.PaymentDate = nil
	return p
}

// summaryFixture builds a CommitmentSummary directly, for ranker tests.
func summaryFixture(id, name string, state domain.LifecycleState, opts ...func(*domain.CommitmentSummary)) domain.CommitmentSummary {
	s := domain.CommitmentSummary{
		CommitmentID:    id,
		Name:            name,
		Flow:            domain.Expense,
		State:           state,
		PerPeriodAmount: clp(10000),
		CreatedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, o := range opts {
		if o != nil {
			o(&s)
		}
	}
	return s
}

var _ projection.Converter = testConverter
