package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"compromisos/internal/core/domain"
)

// DefaultRecencyWindow is how long a freshly created, still-unpaid
// commitment floats to the top of the grid.
const DefaultRecencyWindow = 5 * time.Minute

// amountTolerance absorbs sub-cent noise when comparing resolved amounts so
// equivalent values don't flip order between renders.
var amountTolerance = decimal.NewFromFloat(0.01)

// missingDueDay sorts commitments without a due day after day-31 ones.
const missingDueDay = 32

var defaultCollator = collate.New(language.Spanish)

// RankOptions parameterizes Compare. Now is injected, never read from the
// clock; a zero Now disables the recency tier entirely, making the order a
// pure function of the summaries.
type RankOptions struct {
	Now           time.Time
	RecencyWindow time.Duration     // 0 means DefaultRecencyWindow
	Collator      *collate.Collator // nil means Spanish collation
}

func (o RankOptions) window() time.Duration {
	if o.RecencyWindow > 0 {
		return o.RecencyWindow
	}
	return DefaultRecencyWindow
}

func (o RankOptions) collator() *collate.Collator {
	if o.Collator != nil {
		return o.Collator
	}
	return defaultCollator
}

// Compare defines the grid's total order. Priority tiers ascending: just
// created and unpaid, important and unpaid, overdue, pending, settled.
// Within a tier: due day ascending (missing last), resolved amount
// descending with tolerance, locale-aware name, id.
func Compare(a, b domain.CommitmentSummary, opts RankOptions) int {
	if ta, tb := tier(a, opts), tier(b, opts); ta != tb {
		if ta < tb {
			return -1
		}
		return 1
	}

	if da, db := dueDayRank(a.DueDay), dueDayRank(b.DueDay); da != db {
		if da < db {
			return -1
		}
		return 1
	}

	if diff := a.PerPeriodAmount.Sub(b.PerPeriodAmount); diff.Abs().GreaterThan(amountTolerance) {
		if diff.IsPositive() {
			return -1 // larger amounts first
		}
		return 1
	}

	if c := opts.collator().CompareString(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.CommitmentID, b.CommitmentID)
}

// Sort orders summaries in place under Compare.
func Sort(summaries []domain.CommitmentSummary, opts RankOptions) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return Compare(summaries[i], summaries[j], opts) < 0
	})
}

// SplitByFlow partitions summaries into expenses and incomes, preserving
// order.
func SplitByFlow(summaries []domain.CommitmentSummary) (expenses, incomes []domain.CommitmentSummary) {
	for _, s := range summaries {
		if s.Flow == domain.Income {
			incomes = append(incomes, s)
		} else {
			expenses = append(expenses, s)
		}
	}
	return expenses, incomes
}

func tier(s domain.CommitmentSummary, opts RankOptions) int {
	unpaid := s.State.IsUnpaid()
	if unpaid && !opts.Now.IsZero() {
		if age := opts.Now.Sub(s.CreatedAt); age >= 0 && age <= opts.window() {
			return -2
		}
	}
	if unpaid && s.Important {
		return -1
	}
	switch s.State {
	case domain.StateOverdue:
		return 0
	case domain.StatePending:
		return 1
	default:
		return 2
	}
}

func dueDayRank(d *int) int {
	if d == nil {
		return missingDueDay
	}
	return *d
}
