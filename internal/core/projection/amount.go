package projection

import (
	"github.com/shopspring/decimal"

	"compromisos/internal/core/domain"
)

// ResolveAmount computes the expected per-period amount for a term under its
// estimation mode, in base currency whenever possible.
//
// FIXED converts the term's original amount live through the injected
// converter; if that fails it falls back to the base amount stored when the
// term was saved (flagged stale), and as a last resort to the unconverted
// original (flagged not-in-base). AVERAGE is the mean over the term's own
// payment history, LAST the most recent payment's amount; both fall back to
// FIXED on an empty history.
func ResolveAmount(term domain.Term, history []domain.Payment, conv Converter) ResolvedAmount {
	switch term.EstimationMode {
	case domain.EstimationAverage:
		return averageAmount(term, history, conv)
	case domain.EstimationLast:
		return lastAmount(term, history, conv)
	default:
		return fixedAmount(term, conv)
	}
}

func fixedAmount(term domain.Term, conv Converter) ResolvedAmount {
	if v, ok := convertToBase(term.OriginalAmount, term.CurrencyCode, conv); ok {
		return ResolvedAmount{Value: v, InBase: true}
	}
	if !term.BaseAmount.IsZero() {
		return ResolvedAmount{Value: term.BaseAmount, InBase: true, Stale: true}
	}
	return ResolvedAmount{Value: term.OriginalAmount, Stale: true}
}

func averageAmount(term domain.Term, history []domain.Payment, conv Converter) ResolvedAmount {
	if len(history) == 0 {
		return fixedAmount(term, conv)
	}
	var (
		sum   decimal.Decimal
		n     int64
		stale bool
	)
	for _, p := range history {
		v, ok := paymentBaseAmount(p, conv)
		if !ok {
			// A payment we cannot express in base currency would poison the
			// mean; skip it and mark the result degraded.
			stale = true
			continue
		}
		sum = sum.Add(v)
		n++
	}
	if n == 0 {
		return fixedAmount(term, conv)
	}
	return ResolvedAmount{Value: sum.Div(decimal.NewFromInt(n)), InBase: true, Stale: stale}
}

func lastAmount(term domain.Term, history []domain.Payment, conv Converter) ResolvedAmount {
	var latest *domain.Payment
	for i := range history {
		p := &history[i]
		if latest == nil || moreRecent(p, latest) {
			latest = p
		}
	}
	if latest == nil {
		return fixedAmount(term, conv)
	}
	if v, ok := paymentBaseAmount(*latest, conv); ok {
		return ResolvedAmount{Value: v, InBase: true}
	}
	return ResolvedAmount{Value: latest.OriginalAmount, Stale: true}
}

// moreRecent orders payments by period, then by payment date (nil earliest).
func moreRecent(a, b *domain.Payment) bool {
	if c := a.PeriodDate.Compare(b.PeriodDate); c != 0 {
		return c > 0
	}
	switch {
	case a.PaymentDate == nil:
		return false
	case b.PaymentDate == nil:
		return true
	default:
		return a.PaymentDate.After(*b.PaymentDate)
	}
}

// paymentBaseAmount expresses one payment in base currency: its stored base
// value first, a live conversion second.
func paymentBaseAmount(p domain.Payment, conv Converter) (decimal.Decimal, bool) {
	if !p.BaseAmount.IsZero() {
		return p.BaseAmount, true
	}
	return convertToBase(p.OriginalAmount, p.CurrencyCode, conv)
}

// convertToBase runs the injected converter, treating an error or a negative
// result as failure. decimal.Decimal cannot represent NaN or infinities, so
// a non-nil error is the converter's only way to signal a broken rate.
func convertToBase(amount decimal.Decimal, currencyCode string, conv Converter) (decimal.Decimal, bool) {
	if conv == nil {
		return decimal.Decimal{}, false
	}
	v, err := conv(amount, currencyCode)
	if err != nil || v.IsNegative() {
		return decimal.Decimal{}, false
	}
	return v, true
}
