package projection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compromisos/internal/core/domain"
	"compromisos/internal/core/projection"
)

func TestFindTermForPeriod_SingleOpenTerm(t *testing.T) {
	c := netflix()

	term, ok := projection.FindTermForPeriod(c, domain.NewPeriod(2024, time.June))
	require.True(t, ok)
	assert.Equal(t, "term-netflix-v1", term.TermID)
	assert.True(t, clp(9990).Equal(term.OriginalAmount))

	// before the term starts there is nothing, and that is not an error
	_, ok = projection.FindTermForPeriod(c, domain.NewPeriod(2023, time.December))
	assert.False(t, ok)
}

func TestFindTermForPeriod_VersionedHistory(t *testing.T) {
	// v1 closes at 2024-06, v2 (12,990) takes over from 2024-07
	c := netflix()
	c.Terms[0].EffectiveUntil = periodPtr(domain.NewPeriod(2024, time.June))
	v2 := monthlyTerm("term-netflix-v2", c.CommitmentID, 2, domain.NewPeriod(2024, time.July), 12990)
	c.Terms = append(c.Terms, v2)

	tests := []struct {
		name   string
		period domain.Period
		wantID string
	}{
		{"last period of v1", domain.NewPeriod(2024, time.June), "term-netflix-v1"},
		{"first period of v2", domain.NewPeriod(2024, time.July), "term-netflix-v2"},
		{"well into v2", domain.NewPeriod(2025, time.March), "term-netflix-v2"},
		{"mid v1", domain.NewPeriod(2024, time.March), "term-netflix-v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, ok := projection.FindTermForPeriod(c, tt.period)
			require.True(t, ok)
			assert.Equal(t, tt.wantID, term.TermID)
		})
	}
}

func TestFindTermForPeriod_OverlapHighestVersionWins(t *testing.T) {
	c := netflix()
	// v2 overlaps v1's open range instead of closing it
	v2 := monthlyTerm("term-netflix-v2", c.CommitmentID, 2, domain.NewPeriod(2024, time.April), 12990)
	c.Terms = append(c.Terms, v2)

	term, ok := projection.FindTermForPeriod(c, domain.NewPeriod(2024, time.May))
	require.True(t, ok)
	assert.Equal(t, 2, term.Version)

	// periods only v1 covers still resolve to v1
	term, ok = projection.FindTermForPeriod(c, domain.NewPeriod(2024, time.February))
	require.True(t, ok)
	assert.Equal(t, 1, term.Version)
}

func TestFindTermForPeriod_Idempotent(t *testing.T) {
	c := netflix()
	p := domain.NewPeriod(2024, time.June)

	first, ok1 := projection.FindTermForPeriod(c, p)
	second, ok2 := projection.FindTermForPeriod(c, p)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestFindTermForPeriod_NoTerms(t *testing.T) {
	c := netflix()
	c.Terms = nil
	_, ok := projection.FindTermForPeriod(c, domain.NewPeriod(2024, time.June))
	assert.False(t, ok)
}
