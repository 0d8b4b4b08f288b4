/*
Package income provides the core income reconciliation engine.

PURPOSE:
  This package contains the pure domain logic for turning incrementally
  extracted income candidates into a budgetable income model: candidate
  validation, candidate-to-record reconciliation, monthly normalization,
  and payment schedule projection.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: A currency amount backed by decimal.Decimal
  - Tolerance: The absolute/relative window used to decide whether two
    amounts describe "the same" income

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift in
     monthly totals that are recomputed on every conversational turn
  2. Purity: No I/O, no clocks, no global state - every function is a
     transform over its explicit inputs
  3. Determinism: Re-running any computation with the same inputs yields
     the same outputs, so the engine is safe to re-invoke per turn

USAGE:
  salary := income.NewMoney(5000)
  weekly := income.NewMoney(1200)
  monthly := income.ToMonthly(weekly, income.FreqWeekly)

SEE ALSO:
  - types.go: Record and candidate definitions
  - normalize.go: Monthly-equivalent conversion
  - reconcile.go: Turn-over-turn candidate merging
*/
package income

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amount in local currency units
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

func ZeroMoney() Money {
	return Money{Value: decimal.Zero}
}

func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney()
	}
	return Money{Value: d}
}

func (m Money) Add(o Money) Money              { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money              { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money    { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money    { return Money{Value: m.Value.Div(s)} }
func (m Money) Neg() Money                     { return Money{Value: m.Value.Neg()} }
func (m Money) Abs() Money                     { return Money{Value: m.Value.Abs()} }
func (m Money) IsZero() bool                   { return m.Value.IsZero() }
func (m Money) IsPositive() bool               { return m.Value.IsPositive() }
func (m Money) IsNegative() bool               { return m.Value.IsNegative() }
func (m Money) Equal(o Money) bool             { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool       { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool          { return m.Value.LessThan(o.Value) }
func (m Money) LessThanOrEqual(o Money) bool   { return m.Value.LessThanOrEqual(o.Value) }
func (m Money) Min(o Money) Money {
	if m.LessThan(o) {
		return m
	}
	return o
}

func (m Money) Max(o Money) Money {
	if m.GreaterThan(o) {
		return m
	}
	return o
}

func (m Money) Float64() float64 {
	f, _ := m.Value.Float64()
	return f
}

func (m Money) String() string {
	return m.Value.StringFixed(2)
}

// =============================================================================
// TOLERANCE - "Same amount" comparison for reconciliation
// =============================================================================

// matchToleranceFloor is the minimum absolute window, in currency units,
// within which two amounts are considered the same income.
var matchToleranceFloor = decimal.NewFromInt(50)

// matchToleranceRate widens the window to 5% for larger amounts, so a
// 5000 salary reported as 5025 on a later turn still matches.
var matchToleranceRate = decimal.NewFromFloat(0.05)

// WithinTolerance reports whether other is within max(50, 5% of m) of m.
func (m Money) WithinTolerance(other Money) bool {
	window := m.Value.Abs().Mul(matchToleranceRate)
	if window.LessThan(matchToleranceFloor) {
		window = matchToleranceFloor
	}
	return m.Value.Sub(other.Value).Abs().LessThanOrEqual(window)
}
