/*
normalize.go - Monthly-equivalent conversion

PURPOSE:
  Converts any (amount, frequency, variability) combination into one
  monthly-equivalent figure, so incomes paid weekly, per-project, or in
  seasonal bursts can be summed into a single budgetable total.

CONSERVATIVE POLICY:
  Budgets built on optimistic income fail in the bad months. Variable
  incomes are therefore anchored BELOW their simple average:
    range known:   min + 0.6 * (avg(min,max) - min)
    no range:      0.7 * amount
  The resulting BaseAmount never exceeds the nominal amount.

BI-WEEKLY MULTIPLIER:
  Bi-weekly (quincena) income is normalized at exactly 2 pay cycles per
  month. 26 pay periods a year would give 2.17, but quincena pay in
  practice lands on the 15th and month-end - two cycles per calendar
  month. One multiplier is used everywhere; mixing the two silently
  corrupts totals.

SEE ALSO:
  - money.go: Money arithmetic
  - sync.go: Uses the conservative base for created records
*/
package income

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// FREQUENCY MULTIPLIERS
// =============================================================================

var (
	weeksPerMonth    = decimal.NewFromFloat(4.33)
	biweeklyCycles   = decimal.NewFromInt(2)
	daysPerMonth     = decimal.NewFromInt(30)
	monthsPerQuarter = decimal.NewFromInt(3)
	monthsPerYear    = decimal.NewFromInt(12)
)

// variableBlend weights the conservative anchor between the range floor
// and the simple average: min + 0.6*(avg-min).
var variableBlend = decimal.NewFromFloat(0.6)

// noRangeDiscount applies when an income is flagged variable but only a
// single amount is known.
var noRangeDiscount = decimal.NewFromFloat(0.7)

// ToMonthly converts a periodic amount into its monthly equivalent.
// Irregular, project, and seasonal incomes are treated as already
// monthly; their variability is handled by the conservative range
// policy, not a frequency multiplier.
func ToMonthly(amount Money, freq Frequency) Money {
	switch freq {
	case FreqDaily:
		return amount.Mul(daysPerMonth)
	case FreqWeekly:
		return amount.Mul(weeksPerMonth)
	case FreqBiweekly:
		return amount.Mul(biweeklyCycles)
	case FreqQuarterly:
		return amount.Div(monthsPerQuarter)
	case FreqYearly:
		return amount.Div(monthsPerYear)
	default:
		// monthly, irregular, project, seasonal, or unknown
		return amount
	}
}

// =============================================================================
// CONSERVATIVE ANCHORS
// =============================================================================

// ConservativeRange blends a variable income's range into a pessimistic
// monthly figure: min + 0.6*(avg(min,max) - min). For 3000..8000 this
// yields 4500, not the 5500 simple average.
func ConservativeRange(min, max Money) Money {
	avg := min.Add(max).Div(decimal.NewFromInt(2))
	return min.Add(avg.Sub(min).Mul(variableBlend))
}

// ConservativeBase computes the budgeting anchor for a record's nominal
// amount and variability flags. Consistent incomes anchor at face value.
func ConservativeBase(amount Money, min, max *Money, variable bool) Money {
	if !variable {
		return amount
	}
	if min != nil && max != nil {
		return ConservativeRange(*min, *max)
	}
	return amount.Mul(noRangeDiscount)
}

// MonthlyEquivalent returns the record's monthly-equivalent income,
// applying the conservative range policy for variable records before
// the frequency conversion.
func MonthlyEquivalent(r IncomeRecord) Money {
	amount := r.Amount
	if r.IsVariable {
		amount = ConservativeBase(r.Amount, r.MinAmount, r.MaxAmount, true)
	}
	return ToMonthly(amount, r.Frequency)
}

// SumActiveMonthlyIncome sums the monthly equivalents of active records
// only. Inactive records stay in the store for history but never count
// toward the budget.
func SumActiveMonthlyIncome(records []IncomeRecord) Money {
	total := ZeroMoney()
	for _, r := range records {
		if !r.IsActive {
			continue
		}
		total = total.Add(MonthlyEquivalent(r))
	}
	return total
}
