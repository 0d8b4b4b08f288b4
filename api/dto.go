/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract:
  Money travels as float64 for display clients, optional extraction
  fields as pointers.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done by the income engine, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - income package: Domain shapes these map onto
*/
package api

import (
	"github.com/centavo/income-engine/bonus"
	"github.com/centavo/income-engine/income"
)

// =============================================================================
// INCOME RECORDS
// =============================================================================

// IncomeRecordDTO represents a canonical income record in responses.
type IncomeRecordDTO struct {
	ID             string   `json:"id"`
	HouseholdID    string   `json:"household_id"`
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description,omitempty"`
	Type           string   `json:"type"`
	Frequency      string   `json:"frequency"`
	Amount         float64  `json:"amount"`
	MinAmount      *float64 `json:"min_amount,omitempty"`
	MaxAmount      *float64 `json:"max_amount,omitempty"`
	IsVariable     bool     `json:"is_variable"`
	Stability      string   `json:"stability"`
	BaseAmount     float64  `json:"base_amount"`
	PaymentPattern string   `json:"payment_pattern"`
	PaymentDays    []int    `json:"payment_days,omitempty"`
	IsPrimary      bool     `json:"is_primary"`
	IsActive       bool     `json:"is_active"`
	Country        string   `json:"country,omitempty"`

	MonthlyEquivalent float64 `json:"monthly_equivalent"`
}

// CreateIncomeRequest creates a record directly (outside the
// conversational flow).
type CreateIncomeRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	Frequency   string   `json:"frequency"`

	// Amount may be omitted when a min/max range is given.
	Amount *float64 `json:"amount,omitempty"`
	MinAmount   *float64 `json:"min_amount,omitempty"`
	MaxAmount   *float64 `json:"max_amount,omitempty"`
	IsVariable  bool     `json:"is_variable"`
	PaymentDays []int    `json:"payment_days,omitempty"`
	IsPrimary   bool     `json:"is_primary"`
	Country     string   `json:"country,omitempty"`
}

// =============================================================================
// CANDIDATES
// =============================================================================

// CandidateDTO mirrors income.Candidate; every extracted field is
// optional because extraction is incremental.
type CandidateDTO struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`
	Frequency   string   `json:"frequency,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	MinAmount   *float64 `json:"min_amount,omitempty"`
	MaxAmount   *float64 `json:"max_amount,omitempty"`
	IsVariable  *bool    `json:"is_variable,omitempty"`
	Stability   string   `json:"stability,omitempty"`
	PaymentDays []int    `json:"payment_days,omitempty"`
	Country     string   `json:"country,omitempty"`
	Confidence  float64  `json:"confidence,omitempty"`
}

// MergeCandidatesRequest carries one conversational turn's extraction.
type MergeCandidatesRequest struct {
	Candidates []CandidateDTO `json:"candidates"`
}

// CandidateSessionResponse is the merged session state after a turn.
type CandidateSessionResponse struct {
	Candidates []CandidateResultDTO `json:"candidates"`
	MonthlySum float64              `json:"monthly_sum"`
	Incomplete int                  `json:"incomplete"`
}

// CandidateResultDTO is a candidate plus its validation state.
type CandidateResultDTO struct {
	CandidateDTO
	Incomplete  bool     `json:"incomplete"`
	Errors      []string `json:"errors,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// =============================================================================
// SYNC
// =============================================================================

// SyncResponse reports the applied reconciliation plan.
type SyncResponse struct {
	IncomesCreated int               `json:"incomes_created"`
	IncomesUpdated int               `json:"incomes_updated"`
	Skipped        int               `json:"skipped"`
	Records        []IncomeRecordDTO `json:"records"`
}

// =============================================================================
// PROJECTIONS
// =============================================================================

// PaymentProjectionDTO is one upcoming payment preview.
type PaymentProjectionDTO struct {
	Anchor   int    `json:"anchor"`
	Original string `json:"original_date"`
	Adjusted string `json:"adjusted_date"`
	Shifted  bool   `json:"shifted"`
	Label    string `json:"label"`
}

// SchedulePreviewResponse previews a set of anchors.
type SchedulePreviewResponse struct {
	Anchors     []int                  `json:"anchors"`
	Projections []PaymentProjectionDTO `json:"projections"`
}

// =============================================================================
// BONUSES
// =============================================================================

// BonusCalculationDTO is one bonus payout preview.
type BonusCalculationDTO struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Months            []int   `json:"months"`
	Calculation       string  `json:"calculation"`
	Annual            float64 `json:"annual"`
	MonthlyEquivalent float64 `json:"monthly_equivalent"`
	NextPaymentDate   string  `json:"next_payment_date"`
	NextPaymentAmount float64 `json:"next_payment_amount"`
}

// BonusSummaryResponse aggregates a country's bonuses for one salary.
type BonusSummaryResponse struct {
	Country           string                `json:"country"`
	MonthlySalary     float64               `json:"monthly_salary"`
	TotalAnnual       float64               `json:"total_annual"`
	MonthlyEquivalent float64               `json:"monthly_equivalent"`
	Calculations      []BonusCalculationDTO `json:"calculations"`
}

// =============================================================================
// HOUSEHOLD SUMMARY
// =============================================================================

// HouseholdSummaryResponse is the budgeting headline: monthly total of
// active incomes plus the statutory bonus contribution where eligible.
type HouseholdSummaryResponse struct {
	HouseholdID            string  `json:"household_id"`
	MonthlyIncome          float64 `json:"monthly_income"`
	BonusMonthlyEquivalent float64 `json:"bonus_monthly_equivalent"`
	EffectiveMonthlyIncome float64 `json:"effective_monthly_income"`
	ActiveRecords          int     `json:"active_records"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func floatPtr(m *income.Money) *float64 {
	if m == nil {
		return nil
	}
	f := m.Float64()
	return &f
}

func moneyFromPtr(f *float64) *income.Money {
	if f == nil {
		return nil
	}
	m := income.NewMoney(*f)
	return &m
}

func recordToDTO(r income.IncomeRecord) IncomeRecordDTO {
	return IncomeRecordDTO{
		ID:                string(r.ID),
		HouseholdID:       r.HouseholdID,
		Name:              r.Name,
		Description:       r.Description,
		Type:              string(r.Type),
		Frequency:         string(r.Frequency),
		Amount:            r.Amount.Float64(),
		MinAmount:         floatPtr(r.MinAmount),
		MaxAmount:         floatPtr(r.MaxAmount),
		IsVariable:        r.IsVariable,
		Stability:         string(r.Stability),
		BaseAmount:        r.BaseAmount.Float64(),
		PaymentPattern:    string(r.PaymentPattern),
		PaymentDays:       r.PaymentDays,
		IsPrimary:         r.IsPrimary,
		IsActive:          r.IsActive,
		Country:           r.Country,
		MonthlyEquivalent: income.MonthlyEquivalent(r).Float64(),
	}
}

func candidateFromDTO(d CandidateDTO) income.Candidate {
	return income.Candidate{
		Name:        d.Name,
		Description: d.Description,
		Type:        income.IncomeType(d.Type),
		Frequency:   income.Frequency(d.Frequency),
		Amount:      moneyFromPtr(d.Amount),
		MinAmount:   moneyFromPtr(d.MinAmount),
		MaxAmount:   moneyFromPtr(d.MaxAmount),
		IsVariable:  d.IsVariable,
		Stability:   income.StabilityPattern(d.Stability),
		PaymentDays: d.PaymentDays,
		Country:     d.Country,
		Confidence:  d.Confidence,
	}
}

func candidateToDTO(c income.Candidate) CandidateDTO {
	var amount, min, max *float64
	if c.Amount != nil {
		f := c.Amount.Float64()
		amount = &f
	}
	if c.MinAmount != nil {
		f := c.MinAmount.Float64()
		min = &f
	}
	if c.MaxAmount != nil {
		f := c.MaxAmount.Float64()
		max = &f
	}
	return CandidateDTO{
		Name:        c.Name,
		Description: c.Description,
		Type:        string(c.Type),
		Frequency:   string(c.Frequency),
		Amount:      amount,
		MinAmount:   min,
		MaxAmount:   max,
		IsVariable:  c.IsVariable,
		Stability:   string(c.Stability),
		PaymentDays: c.PaymentDays,
		Country:     c.Country,
		Confidence:  c.Confidence,
	}
}

func projectionToDTO(p income.PaymentProjection) PaymentProjectionDTO {
	return PaymentProjectionDTO{
		Anchor:   p.Anchor,
		Original: p.Original.Format("2006-01-02"),
		Adjusted: p.Adjusted.Format("2006-01-02"),
		Shifted:  p.Shifted(),
		Label:    p.Label,
	}
}

func bonusCalcToDTO(c bonus.Calculation) BonusCalculationDTO {
	months := make([]int, 0, len(c.Definition.Months))
	for _, m := range c.Definition.Months {
		months = append(months, int(m))
	}
	return BonusCalculationDTO{
		ID:                c.Definition.ID,
		Name:              c.Definition.Name,
		Months:            months,
		Calculation:       string(c.Definition.Calculation),
		Annual:            c.Annual.Float64(),
		MonthlyEquivalent: c.MonthlyEquivalent.Float64(),
		NextPaymentDate:   c.NextPaymentDate.Format("2006-01-02"),
		NextPaymentAmount: c.NextPaymentAmount.Float64(),
	}
}
