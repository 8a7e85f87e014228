package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// PeriodLayout is the canonical string form of a Period, e.g. "2024-06".
const PeriodLayout = "2006-01"

// Period identifies a calendar month. It is the unit of projection and
// payment matching. The zero value is invalid; use NewPeriod or PeriodOf.
// On the wire a Period is always its "2006-01" string form.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod builds a Period from a year and month.
func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// PeriodOf returns the Period containing the given instant.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses the "2006-01" form.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(PeriodLayout, s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

// Validate reports whether the period is a usable calendar month.
func (p Period) Validate() error {
	if p.Year < 1 || p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("invalid period: year=%d month=%d", p.Year, int(p.Month))
	}
	return nil
}

// IsZero reports whether p is the zero value.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Time normalizes the period to its first-of-month instant in UTC.
func (p Period) Time() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String renders the canonical "2006-01" form.
func (p Period) String() string {
	return p.Time().Format(PeriodLayout)
}

// MarshalJSON renders the period as its canonical string form.
func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses the canonical "2006-01" form.
func (p *Period) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// AddMonths returns the period n months after p (n may be negative).
func (p Period) AddMonths(n int) Period {
	return PeriodOf(p.Time().AddDate(0, n, 0))
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	return p.AddMonths(1)
}

// Compare returns -1, 0 or 1 ordering p against o chronologically.
func (p Period) Compare(o Period) int {
	switch {
	case p.Year != o.Year:
		if p.Year < o.Year {
			return -1
		}
		return 1
	case p.Month != o.Month:
		if p.Month < o.Month {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Before reports whether p is strictly earlier than o.
func (p Period) Before(o Period) bool { return p.Compare(o) < 0 }

// After reports whether p is strictly later than o.
func (p Period) After(o Period) bool { return p.Compare(o) > 0 }

// Equal reports whether p and o denote the same month.
func (p Period) Equal(o Period) bool { return p.Compare(o) == 0 }

// MonthsSince returns the signed number of months from o to p.
func (p Period) MonthsSince(o Period) int {
	return 12*(p.Year-o.Year) + int(p.Month) - int(o.Month)
}

// LastDay returns the number of days in the period's month.
func (p Period) LastDay() int {
	return p.Time().AddDate(0, 1, -1).Day()
}

// DueDate resolves the period's due date as an end-of-day instant in UTC.
// A nil due day means the last day of the month; out-of-range days are
// clamped to the month length (e.g. day 31 in February).
func (p Period) DueDate(dueDay *int) time.Time {
	day := p.LastDay()
	if dueDay != nil {
		switch {
		case *dueDay < 1:
			day = 1
		case *dueDay > day:
			// keep month-end clamp
		default:
			day = *dueDay
		}
	}
	return time.Date(p.Year, p.Month, day, 23, 59, 59, 0, time.UTC)
}
