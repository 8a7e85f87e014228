package projection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"compromisos/internal/core/domain"
	"compromisos/internal/core/projection"
)

func TestIsActiveInPeriod_MonthlyAlwaysActive(t *testing.T) {
	c := netflix() // monthly from 2024-01

	// every period from effective_from onward is active
	p := domain.NewPeriod(2024, time.January)
	for i := 0; i < 36; i++ {
		assert.True(t, projection.IsActiveInPeriod(c, p), "period %s", p)
		p = p.Next()
	}

	assert.False(t, projection.IsActiveInPeriod(c, domain.NewPeriod(2023, time.December)))
}

func TestIsActiveInPeriod_Cadences(t *testing.T) {
	build := func(freq domain.Frequency) domain.Commitment {
		c := netflix()
		c.Terms[0].Frequency = freq
		if freq == domain.Once {
			c.Terms[0].InstallmentsCount = intPtr(1)
			c.Terms[0].EffectiveUntil = periodPtr(c.Terms[0].EffectiveFrom)
		}
		return c
	}

	tests := []struct {
		name   string
		freq   domain.Frequency
		period domain.Period
		want   bool
	}{
		{"bimonthly anchor month", domain.Bimonthly, domain.NewPeriod(2024, time.January), true},
		{"bimonthly off month", domain.Bimonthly, domain.NewPeriod(2024, time.February), false},
		{"bimonthly second on month", domain.Bimonthly, domain.NewPeriod(2024, time.March), true},
		{"bimonthly fourth month off", domain.Bimonthly, domain.NewPeriod(2024, time.April), false},
		{"bimonthly fifth month on", domain.Bimonthly, domain.NewPeriod(2024, time.May), true},
		{"quarterly on", domain.Quarterly, domain.NewPeriod(2024, time.April), true},
		{"quarterly off", domain.Quarterly, domain.NewPeriod(2024, time.March), false},
		{"semiannual on", domain.Semiannually, domain.NewPeriod(2024, time.July), true},
		{"semiannual off", domain.Semiannually, domain.NewPeriod(2024, time.June), false},
		{"annual on", domain.Annually, domain.NewPeriod(2025, time.January), true},
		{"annual off", domain.Annually, domain.NewPeriod(2025, time.February), false},
		{"once on its month", domain.Once, domain.NewPeriod(2024, time.January), true},
		{"once next month", domain.Once, domain.NewPeriod(2024, time.February), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, projection.IsActiveInPeriod(build(tt.freq), tt.period))
		})
	}
}

func TestIsActiveInPeriod_CadenceAnchorsToEffectiveFrom(t *testing.T) {
	// moving effective_from shifts the whole pattern: bimonthly from
	// February runs Feb/Apr/Jun, not the calendar odd months
	c := netflix()
	c.Terms[0].Frequency = domain.Bimonthly
	c.Terms[0].EffectiveFrom = domain.NewPeriod(2024, time.February)

	assert.True(t, projection.IsActiveInPeriod(c, domain.NewPeriod(2024, time.February)))
	assert.False(t, projection.IsActiveInPeriod(c, domain.NewPeriod(2024, time.March)))
	assert.True(t, projection.IsActiveInPeriod(c, domain.NewPeriod(2024, time.April)))
}

func TestIsActiveInPeriod_UnknownFrequencyDefaultsActive(t *testing.T) {
	c := netflix()
	c.Terms[0].Frequency = domain.Frequency("WEEKLY")
	assert.True(t, projection.IsActiveInPeriod(c, domain.NewPeriod(2024, time.May)))
}

func TestIsActiveInPeriod_NoCoveringTerm(t *testing.T) {
	c := netflix()
	c.Terms[0].EffectiveUntil = periodPtr(domain.NewPeriod(2024, time.June))
	assert.False(t, projection.IsActiveInPeriod(c, domain.NewPeriod(2024, time.July)))
}
