/*
Package factory provides JSON to Go bonus catalog conversion.

PURPOSE:
  Converts JSON catalog definitions into bonus.Definition values. This
  enables catalog configuration without code changes - a new country's
  statutory bonuses can be defined in JSON and registered at startup.

WHY JSON?
  - Labor-law data changes without a deploy
  - Easy review by non-developers
  - Version control for catalog definitions

JSON SCHEMA:
  {
    "country": "gt",
    "bonuses": [
      {
        "id": "gt-aguinaldo",
        "name": "Aguinaldo",
        "months": [12],
        "calculation": "monthly_salary",
        "applies_to": "formal_employment"
      },
      {
        "id": "pa-decimotercero",
        "name": "Décimo tercer mes",
        "months": [4, 8, 12],
        "calculation": "percentage",
        "percentage": 100,
        "applies_to": "formal_employment",
        "payment_days": {"4": 15, "8": 15, "12": 15}
      }
    ]
  }

USAGE:
  catalog, err := factory.ParseCatalog(jsonBytes)
  if err != nil { ... }
  factory.RegisterCatalog(catalog)

SEE ALSO:
  - bonus/catalog.go: Built-in catalogs and the override table
  - bonus/types.go: Definition shape
*/
package factory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/centavo/income-engine/bonus"
	"github.com/centavo/income-engine/income"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CatalogJSON is the JSON representation of one country's catalog.
type CatalogJSON struct {
	Country string      `json:"country"`
	Bonuses []BonusJSON `json:"bonuses"`
}

// BonusJSON represents one statutory bonus definition.
type BonusJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Months      []int    `json:"months"`
	Calculation string   `json:"calculation"`
	Amount      *float64 `json:"amount,omitempty"`
	Percentage  *float64 `json:"percentage,omitempty"`
	AppliesTo   string   `json:"applies_to,omitempty"`

	// PaymentDays fixes installment days per month ("4": 15 pays the
	// April installment on the 15th). Absent months pay on the last
	// calendar day.
	PaymentDays map[string]int `json:"payment_days,omitempty"`
}

// ParsedCatalog bundles the definitions with their day overrides.
type ParsedCatalog struct {
	Country     string
	Definitions []bonus.Definition
	Overrides   []DayOverride
}

type DayOverride struct {
	BonusID string
	Month   time.Month
	Day     int
}

// =============================================================================
// PARSING
// =============================================================================

// ParseCatalog validates and converts a JSON catalog.
func ParseCatalog(data []byte) (*ParsedCatalog, error) {
	var raw CatalogJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}
	if raw.Country == "" {
		return nil, fmt.Errorf("catalog missing country code")
	}
	if len(raw.Bonuses) == 0 {
		return nil, fmt.Errorf("catalog %q has no bonuses", raw.Country)
	}

	out := &ParsedCatalog{Country: raw.Country}
	for _, b := range raw.Bonuses {
		def, overrides, err := parseBonus(b)
		if err != nil {
			return nil, fmt.Errorf("catalog %q: %w", raw.Country, err)
		}
		out.Definitions = append(out.Definitions, def)
		out.Overrides = append(out.Overrides, overrides...)
	}
	return out, nil
}

func parseBonus(b BonusJSON) (bonus.Definition, []DayOverride, error) {
	if b.ID == "" {
		return bonus.Definition{}, nil, fmt.Errorf("bonus missing id")
	}
	if len(b.Months) == 0 {
		return bonus.Definition{}, nil, fmt.Errorf("bonus %q has no months", b.ID)
	}

	def := bonus.Definition{
		ID:        b.ID,
		Name:      b.Name,
		AppliesTo: bonus.AppliesTo(b.AppliesTo),
	}
	if def.AppliesTo == "" {
		def.AppliesTo = bonus.AppliesFormal
	}

	months := append([]int(nil), b.Months...)
	sort.Ints(months)
	for _, m := range months {
		if m < 1 || m > 12 {
			return bonus.Definition{}, nil, fmt.Errorf("bonus %q: month %d out of range", b.ID, m)
		}
		def.Months = append(def.Months, time.Month(m))
	}

	switch bonus.CalcMode(b.Calculation) {
	case bonus.CalcMonthlySalary:
		def.Calculation = bonus.CalcMonthlySalary
	case bonus.CalcPercentage:
		if b.Percentage == nil {
			return bonus.Definition{}, nil, fmt.Errorf("bonus %q: percentage mode without percentage", b.ID)
		}
		def.Calculation = bonus.CalcPercentage
		def.Percentage = b.Percentage
	case bonus.CalcFixedAmount:
		if b.Amount == nil {
			return bonus.Definition{}, nil, fmt.Errorf("bonus %q: fixed_amount mode without amount", b.ID)
		}
		def.Calculation = bonus.CalcFixedAmount
		amt := income.NewMoney(*b.Amount)
		def.Amount = &amt
	default:
		return bonus.Definition{}, nil, fmt.Errorf("bonus %q: unknown calculation mode %q", b.ID, b.Calculation)
	}

	var overrides []DayOverride
	for monthStr, day := range b.PaymentDays {
		m, err := strconv.Atoi(monthStr)
		if err != nil || m < 1 || m > 12 {
			return bonus.Definition{}, nil, fmt.Errorf("bonus %q: bad payment_days month %q", b.ID, monthStr)
		}
		if day < 1 || day > 31 {
			return bonus.Definition{}, nil, fmt.Errorf("bonus %q: bad payment day %d", b.ID, day)
		}
		overrides = append(overrides, DayOverride{BonusID: b.ID, Month: time.Month(m), Day: day})
	}
	return def, overrides, nil
}

// RegisterCatalog installs a parsed catalog into the bonus registry,
// replacing any existing catalog for the country.
func RegisterCatalog(c *ParsedCatalog) {
	bonus.Register(c.Country, c.Definitions)
	for _, o := range c.Overrides {
		bonus.RegisterOverride(o.BonusID, o.Month, o.Day)
	}
}
