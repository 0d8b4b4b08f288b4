/*
Package bonus computes statutory bonus payouts common in Central
American labor law.

PURPOSE:
  Countries in the region mandate extra salary payments - the aguinaldo
  (13th month), Bono 14 / décimo cuarto (14th month), and split-payment
  schemes like Panama's three-installment décimo tercer mes. This
  package turns a country's bonus catalog plus a base monthly salary
  into annual amounts, monthly-equivalent contributions, and
  next-payment previews.

KEY CONCEPTS IN THIS FILE (types.go):
  - Definition: One statutory bonus from a country's catalog
  - CalcMode: How the bonus amount derives from salary
  - AppliesTo: Which employment classifications qualify

DATA, NOT CODE:
  Catalogs are plain data (catalog.go ships the built-ins; the factory
  package parses external JSON). The calculator only consumes them, so
  adding a country needs no code change.

SEE ALSO:
  - calculator.go: Annual amounts and next-payment resolution
  - catalog.go: Built-in per-country definitions
  - factory package: JSON catalog parsing
*/
package bonus

import (
	"time"

	"github.com/centavo/income-engine/income"
)

// =============================================================================
// DEFINITION - One statutory bonus in a country's catalog
// =============================================================================

type CalcMode string

const (
	// CalcMonthlySalary: each listed month pays one full month's salary.
	CalcMonthlySalary CalcMode = "monthly_salary"

	// CalcPercentage: the annual amount is a percentage of one monthly
	// salary, split evenly across the listed months.
	CalcPercentage CalcMode = "percentage"

	// CalcFixedAmount: a currency-literal annual amount, independent of
	// salary.
	CalcFixedAmount CalcMode = "fixed_amount"
)

type AppliesTo string

const (
	AppliesSalary AppliesTo = "salary"
	AppliesFormal AppliesTo = "formal_employment"
	AppliesAll    AppliesTo = "all"
)

type Definition struct {
	ID   string
	Name string

	// Months in which an installment is paid (1-12, ascending).
	Months []time.Month

	Calculation CalcMode

	// Amount is set for fixed_amount definitions.
	Amount *income.Money

	// Percentage of one monthly salary, for percentage definitions.
	Percentage *float64

	AppliesTo AppliesTo
}

// =============================================================================
// PROJECTION - Derived, never persisted
// =============================================================================

// Calculation is the computed payout for one bonus definition.
type Calculation struct {
	Definition Definition

	Annual            income.Money
	MonthlyEquivalent income.Money

	NextPaymentDate   time.Time
	NextPaymentAmount income.Money
}

// Summary aggregates a country's bonuses for one salary.
type Summary struct {
	Country           string
	TotalAnnual       income.Money
	MonthlyEquivalent income.Money
	Calculations      []Calculation
}
