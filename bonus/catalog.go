/*
catalog.go - Built-in per-country bonus catalogs

PURPOSE:
  Ships the statutory bonus definitions for the countries the engine
  knows out of the box. Each catalog is plain data; percentages and
  months encode the country's labor-law defaults, not computations.

COVERED COUNTRIES:
  gt  Guatemala           aguinaldo (Dec) + Bono 14 (Jul)
  hn  Honduras            décimo tercero (Dec) + décimo cuarto (Jul)
  sv  El Salvador         aguinaldo (Dec, tenure-banded; base band here)
  ni  Nicaragua           aguinaldo (Dec)
  cr  Costa Rica          aguinaldo (Dec)
  pa  Panama              décimo tercer mes in three installments
                          (Apr/Aug/Dec, fixed on the 15th)
  do  Dominican Republic  regalía pascual (Dec)
  mx  Mexico              aguinaldo (Dec, 15-day minimum)

DAY OVERRIDES:
  Installments default to the last calendar day of the month. Countries
  that fix a different day (Panama pays on the 15th) register it in the
  paymentDayOverrides table - a literal per-bonus lookup, not a rule.

SEE ALSO:
  - calculator.go: Consumes these definitions
  - factory package: Registering catalogs from JSON
*/
package bonus

import (
	"sort"
	"strings"
	"time"
)

// =============================================================================
// CATALOG REGISTRY
// =============================================================================

func pct(v float64) *float64 { return &v }

var catalogs = map[string][]Definition{
	"gt": {
		{
			ID:          "gt-aguinaldo",
			Name:        "Aguinaldo",
			Months:      []time.Month{time.December},
			Calculation: CalcMonthlySalary,
			AppliesTo:   AppliesFormal,
		},
		{
			ID:          "gt-bono14",
			Name:        "Bono 14",
			Months:      []time.Month{time.July},
			Calculation: CalcMonthlySalary,
			AppliesTo:   AppliesFormal,
		},
	},
	"hn": {
		{
			ID:          "hn-decimotercero",
			Name:        "Décimo tercer mes",
			Months:      []time.Month{time.December},
			Calculation: CalcMonthlySalary,
			AppliesTo:   AppliesFormal,
		},
		{
			ID:          "hn-decimocuarto",
			Name:        "Décimo cuarto mes",
			Months:      []time.Month{time.July},
			Calculation: CalcMonthlySalary,
			AppliesTo:   AppliesFormal,
		},
	},
	"sv": {
		{
			ID:          "sv-aguinaldo",
			Name:        "Aguinaldo",
			Months:      []time.Month{time.December},
			Calculation: CalcPercentage,
			Percentage:  pct(50), // 15-day band for tenure under 3 years
			AppliesTo:   AppliesFormal,
		},
	},
	"ni": {
		{
			ID:          "ni-aguinaldo",
			Name:        "Treceavo mes",
			Months:      []time.Month{time.December},
			Calculation: CalcMonthlySalary,
			AppliesTo:   AppliesFormal,
		},
	},
	"cr": {
		{
			ID:          "cr-aguinaldo",
			Name:        "Aguinaldo",
			Months:      []time.Month{time.December},
			Calculation: CalcMonthlySalary,
			AppliesTo:   AppliesFormal,
		},
	},
	"pa": {
		{
			ID:          "pa-decimotercero",
			Name:        "Décimo tercer mes",
			Months:      []time.Month{time.April, time.August, time.December},
			Calculation: CalcPercentage,
			Percentage:  pct(100), // one month's salary, split across three installments
			AppliesTo:   AppliesFormal,
		},
	},
	"do": {
		{
			ID:          "do-regalia",
			Name:        "Regalía pascual",
			Months:      []time.Month{time.December},
			Calculation: CalcMonthlySalary,
			AppliesTo:   AppliesAll,
		},
	},
	"mx": {
		{
			ID:          "mx-aguinaldo",
			Name:        "Aguinaldo",
			Months:      []time.Month{time.December},
			Calculation: CalcPercentage,
			Percentage:  pct(50), // statutory 15-day minimum
			AppliesTo:   AppliesFormal,
		},
	},
}

// paymentDayOverrides fixes the payment day for specific installments.
// Key is (bonus ID, month); absent entries fall back to the last
// calendar day of the month.
type overrideKey struct {
	BonusID string
	Month   time.Month
}

var paymentDayOverrides = map[overrideKey]int{
	{"pa-decimotercero", time.April}:    15,
	{"pa-decimotercero", time.August}:   15,
	{"pa-decimotercero", time.December}: 15,
}

// =============================================================================
// LOOKUP
// =============================================================================

// Catalog returns a country's bonus definitions, or nil for countries
// without a catalog. Codes are case-insensitive ISO 3166-1 alpha-2.
func Catalog(country string) []Definition {
	return catalogs[strings.ToLower(strings.TrimSpace(country))]
}

// Countries lists the known country codes, sorted.
func Countries() []string {
	out := make([]string, 0, len(catalogs))
	for code := range catalogs {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Register installs or replaces a country's catalog. Used by the
// factory package to load external JSON catalogs at startup.
func Register(country string, defs []Definition) {
	catalogs[strings.ToLower(strings.TrimSpace(country))] = defs
}

// RegisterOverride fixes the payment day of one installment.
func RegisterOverride(bonusID string, month time.Month, day int) {
	paymentDayOverrides[overrideKey{bonusID, month}] = day
}

// paymentDay resolves the installment day for a bonus in a month.
func paymentDay(bonusID string, year int, month time.Month) int {
	if day, ok := paymentDayOverrides[overrideKey{bonusID, month}]; ok {
		return day
	}
	return lastDayOfMonth(year, month)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}
