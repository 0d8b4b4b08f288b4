/*
types.go - Canonical records and extraction candidates

PURPOSE:
  Defines the two shapes the engine moves between: IncomeRecord (the
  canonical, store-owned income source) and Candidate (the ephemeral,
  possibly partial shape produced by the conversational extractor).

KEY CONCEPTS:
  - IncomeRecord: fully resolved, budgetable income source
  - Candidate: partial extraction output; any field may be absent on a
    given turn, so optional fields are pointers
  - Primary invariant: at most one active record per household carries
    IsPrimary; the store enforces promotion on delete

LIFECYCLE:
  Candidates are created per conversational turn, merged turn-over-turn
  in memory (reconcile.go), and only become IncomeRecords when the
  caller finalizes the session through the sync planner (sync.go).

SEE ALSO:
  - reconcile.go: Candidate matching and field merge policy
  - sync.go: Create-vs-update planning against canonical records
  - store.go: Persistence boundary for IncomeRecord
*/
package income

// =============================================================================
// ENUMERATIONS
// =============================================================================

type RecordID string

type IncomeType string

const (
	TypeSalary     IncomeType = "salary"
	TypeFreelance  IncomeType = "freelance"
	TypeBusiness   IncomeType = "business"
	TypeRental     IncomeType = "rental"
	TypeRemittance IncomeType = "remittance"
	TypeOther      IncomeType = "other"
)

var incomeTypes = map[IncomeType]bool{
	TypeSalary:     true,
	TypeFreelance:  true,
	TypeBusiness:   true,
	TypeRental:     true,
	TypeRemittance: true,
	TypeOther:      true,
}

func ValidIncomeType(t IncomeType) bool { return incomeTypes[t] }

type Frequency string

const (
	FreqDaily     Frequency = "daily"
	FreqWeekly    Frequency = "weekly"
	FreqBiweekly  Frequency = "bi-weekly"
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
	FreqYearly    Frequency = "yearly"
	FreqIrregular Frequency = "irregular"
	FreqProject   Frequency = "project"
	FreqSeasonal  Frequency = "seasonal"
)

var frequencies = map[Frequency]bool{
	FreqDaily:     true,
	FreqWeekly:    true,
	FreqBiweekly:  true,
	FreqMonthly:   true,
	FreqQuarterly: true,
	FreqYearly:    true,
	FreqIrregular: true,
	FreqProject:   true,
	FreqSeasonal:  true,
}

func ValidFrequency(f Frequency) bool { return frequencies[f] }

type StabilityPattern string

const (
	StabilityConsistent StabilityPattern = "consistent"
	StabilitySeasonal   StabilityPattern = "seasonal"
	StabilityVariable   StabilityPattern = "variable"
)

type PaymentPattern string

const (
	PatternSimple  PaymentPattern = "simple"
	PatternComplex PaymentPattern = "complex"
)

// =============================================================================
// INCOME RECORD - Canonical, persisted income source
// =============================================================================

type IncomeRecord struct {
	ID          RecordID
	HouseholdID string
	Name        string
	Description string
	Type        IncomeType
	Frequency   Frequency

	// Nominal periodic amount and optional variable range
	Amount     Money
	MinAmount  *Money
	MaxAmount  *Money
	IsVariable bool
	Stability  StabilityPattern

	// Conservative anchor used for budgeting. Never exceeds Amount when
	// the income is variable (see normalize.go).
	BaseAmount Money

	// Recurring day-of-month anchors (1-31), before weekend/month-length
	// adjustment. PatternComplex marks multi-anchor or irregular schedules.
	PaymentPattern PaymentPattern
	PaymentDays    []int

	IsPrimary bool
	IsActive  bool
	Country   string
}

// =============================================================================
// CANDIDATE - Ephemeral extraction output, merged turn-over-turn
// =============================================================================

// Candidate mirrors IncomeRecord but every extracted field is optional:
// the extractor may learn the amount on one turn and the payday on the
// next. Missing-field semantics live in ResolveAmount (reconcile.go),
// not scattered across call sites.
type Candidate struct {
	Name        string
	Description string
	Type        IncomeType
	Frequency   Frequency

	Amount     *Money
	MinAmount  *Money
	MaxAmount  *Money
	IsVariable *bool
	Stability  StabilityPattern

	PaymentDays []int
	Country     string

	// Extractor confidence in [0,1]; merging keeps the max seen.
	Confidence float64
}

// Variable reports whether the candidate is flagged or implied variable.
func (c Candidate) Variable() bool {
	if c.IsVariable != nil {
		return *c.IsVariable
	}
	return c.MinAmount != nil && c.MaxAmount != nil
}

func clonePaymentDays(days []int) []int {
	if days == nil {
		return nil
	}
	out := make([]int, len(days))
	copy(out, days)
	return out
}

func cloneMoney(m *Money) *Money {
	if m == nil {
		return nil
	}
	v := *m
	return &v
}

// Clone returns a deep copy so merged sets never alias caller memory.
func (c Candidate) Clone() Candidate {
	out := c
	out.Amount = cloneMoney(c.Amount)
	out.MinAmount = cloneMoney(c.MinAmount)
	out.MaxAmount = cloneMoney(c.MaxAmount)
	if c.IsVariable != nil {
		v := *c.IsVariable
		out.IsVariable = &v
	}
	out.PaymentDays = clonePaymentDays(c.PaymentDays)
	return out
}
