/*
calculator.go - Annual bonus amounts and next-payment resolution

PURPOSE:
  The arithmetic of statutory bonuses: how much a year, how much that
  adds per month, and when the next installment lands.

NEXT-PAYMENT RULE:
  Pick the smallest installment month strictly greater than the current
  calendar month; when none remains this year, wrap to the bonus's
  first month of next year. Evaluated in November, a December bonus is
  due this December; evaluated in January, it is due this December
  (12 > 1); evaluated in December, it wraps to next year.

DEFENSIVE DEFAULT:
  An unknown calculation mode contributes zero instead of failing the
  whole computation. That is a catalog-authoring bug; callers should
  log it.

SEE ALSO:
  - catalog.go: Definitions and the per-installment day overrides
  - income package: Monthly totals the equivalents feed into
*/
package bonus

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo/income-engine/income"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	oneHundred    = decimal.NewFromInt(100)
)

// =============================================================================
// PER-DEFINITION CALCULATION
// =============================================================================

// AnnualAmount computes a definition's total yearly payout for a base
// monthly salary. Unknown modes yield zero.
func AnnualAmount(def Definition, monthlySalary income.Money) income.Money {
	switch def.Calculation {
	case CalcMonthlySalary:
		return monthlySalary.Mul(decimal.NewFromInt(int64(len(def.Months))))
	case CalcPercentage:
		if def.Percentage == nil {
			return income.ZeroMoney()
		}
		return monthlySalary.Mul(decimal.NewFromFloat(*def.Percentage)).Div(oneHundred)
	case CalcFixedAmount:
		if def.Amount == nil {
			return income.ZeroMoney()
		}
		return *def.Amount
	default:
		return income.ZeroMoney()
	}
}

// NextPayment resolves the date and amount of the next installment
// after today. The day defaults to the month's last calendar day
// unless the definition carries a day override.
func NextPayment(def Definition, monthlySalary income.Money, today time.Time) (time.Time, income.Money) {
	if len(def.Months) == 0 {
		return time.Time{}, income.ZeroMoney()
	}

	year := today.Year()
	month := nextInstallmentMonth(def.Months, today.Month())
	if month < 0 {
		// All installments this year are behind us; wrap to the first
		// installment of next year.
		year++
		month = def.Months[0]
	}

	day := paymentDay(def.ID, year, month)
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	annual := AnnualAmount(def, monthlySalary)
	installment := annual.Div(decimal.NewFromInt(int64(len(def.Months))))
	return date, installment
}

// nextInstallmentMonth returns the smallest month strictly greater than
// current, or -1 when none remains this year. Months are ascending.
func nextInstallmentMonth(months []time.Month, current time.Month) time.Month {
	for _, m := range months {
		if m > current {
			return m
		}
	}
	return -1
}

// =============================================================================
// COUNTRY-LEVEL SUMMARY
// =============================================================================

// CalculateAnnual computes every bonus in a country's catalog for one
// base monthly salary. Unknown countries return a zero summary and
// income.ErrUnknownCountry.
func CalculateAnnual(monthlySalary income.Money, country string, today time.Time) (Summary, error) {
	defs := Catalog(country)
	summary := Summary{
		Country:           country,
		TotalAnnual:       income.ZeroMoney(),
		MonthlyEquivalent: income.ZeroMoney(),
	}
	if defs == nil {
		return summary, income.ErrUnknownCountry
	}

	for _, def := range defs {
		annual := AnnualAmount(def, monthlySalary)
		nextDate, nextAmount := NextPayment(def, monthlySalary, today)

		calc := Calculation{
			Definition:        def,
			Annual:            annual,
			MonthlyEquivalent: annual.Div(monthsPerYear),
			NextPaymentDate:   nextDate,
			NextPaymentAmount: nextAmount,
		}
		summary.Calculations = append(summary.Calculations, calc)
		summary.TotalAnnual = summary.TotalAnnual.Add(annual)
	}

	summary.MonthlyEquivalent = summary.TotalAnnual.Div(monthsPerYear)
	return summary, nil
}

// EffectiveMonthlyIncome is the base salary plus the monthly-equivalent
// share of the country's statutory bonuses.
func EffectiveMonthlyIncome(baseMonthly income.Money, country string, today time.Time) income.Money {
	summary, err := CalculateAnnual(baseMonthly, country, today)
	if err != nil {
		return baseMonthly
	}
	return baseMonthly.Add(summary.MonthlyEquivalent)
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// IsEligible answers whether an employment classification qualifies
// for at least one bonus in the country's catalog, without computing
// amounts. Statutory bonuses protect dependent employment; freelance
// and informal income only qualifies for catalogs open to all.
func IsEligible(employment income.IncomeType, country string) bool {
	for _, def := range Catalog(country) {
		if Applies(def, employment) {
			return true
		}
	}
	return false
}

// Applies checks one definition's applies_to gate against an
// employment classification.
func Applies(def Definition, employment income.IncomeType) bool {
	switch def.AppliesTo {
	case AppliesAll:
		return true
	case AppliesSalary, AppliesFormal:
		return employment == income.TypeSalary
	default:
		return false
	}
}

// EligibleDefinitions filters a country's catalog by employment type.
func EligibleDefinitions(employment income.IncomeType, country string) []Definition {
	var out []Definition
	for _, def := range Catalog(country) {
		if Applies(def, employment) {
			out = append(out, def)
		}
	}
	return out
}
