package factory_test

import (
	"testing"
	"time"

	"github.com/centavo/income-engine/bonus"
	"github.com/centavo/income-engine/factory"
	"github.com/centavo/income-engine/income"
)

func TestParseCatalog_Valid(t *testing.T) {
	// GIVEN: A JSON catalog with both calculation modes and day overrides
	// WHEN: Parsing
	// THEN: Definitions and overrides come out fully typed, months sorted

	data := []byte(`{
		"country": "bz",
		"bonuses": [
			{
				"id": "bz-christmas",
				"name": "Christmas bonus",
				"months": [12],
				"calculation": "monthly_salary",
				"applies_to": "formal_employment"
			},
			{
				"id": "bz-split",
				"name": "Split bonus",
				"months": [12, 6],
				"calculation": "percentage",
				"percentage": 100,
				"applies_to": "all",
				"payment_days": {"6": 15}
			}
		]
	}`)

	catalog, err := factory.ParseCatalog(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if catalog.Country != "bz" {
		t.Errorf("expected country bz, got %q", catalog.Country)
	}
	if len(catalog.Definitions) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(catalog.Definitions))
	}

	split := catalog.Definitions[1]
	if len(split.Months) != 2 || split.Months[0] != time.June || split.Months[1] != time.December {
		t.Errorf("expected sorted months [June December], got %v", split.Months)
	}
	if split.Calculation != bonus.CalcPercentage || split.Percentage == nil || *split.Percentage != 100 {
		t.Errorf("percentage mode not carried over: %+v", split)
	}
	if split.AppliesTo != bonus.AppliesAll {
		t.Errorf("expected applies-all, got %s", split.AppliesTo)
	}

	if len(catalog.Overrides) != 1 {
		t.Fatalf("expected 1 day override, got %d", len(catalog.Overrides))
	}
	o := catalog.Overrides[0]
	if o.BonusID != "bz-split" || o.Month != time.June || o.Day != 15 {
		t.Errorf("unexpected override: %+v", o)
	}
}

func TestParseCatalog_DefaultsAppliesToFormal(t *testing.T) {
	data := []byte(`{"country": "bz", "bonuses": [
		{"id": "bz-x", "months": [12], "calculation": "monthly_salary"}
	]}`)
	catalog, err := factory.ParseCatalog(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if catalog.Definitions[0].AppliesTo != bonus.AppliesFormal {
		t.Errorf("missing applies_to should default to formal employment, got %s",
			catalog.Definitions[0].AppliesTo)
	}
}

func TestParseCatalog_FixedAmount(t *testing.T) {
	data := []byte(`{"country": "bz", "bonuses": [
		{"id": "bz-fixed", "months": [12], "calculation": "fixed_amount", "amount": 750}
	]}`)
	catalog, err := factory.ParseCatalog(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	def := catalog.Definitions[0]
	if def.Amount == nil || !def.Amount.Equal(income.NewMoney(750)) {
		t.Errorf("expected fixed amount 750, got %v", def.Amount)
	}
}

func TestParseCatalog_Rejections(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"malformed json", `{`},
		{"missing country", `{"bonuses": [{"id": "x", "months": [12], "calculation": "monthly_salary"}]}`},
		{"no bonuses", `{"country": "bz", "bonuses": []}`},
		{"missing id", `{"country": "bz", "bonuses": [{"months": [12], "calculation": "monthly_salary"}]}`},
		{"no months", `{"country": "bz", "bonuses": [{"id": "x", "calculation": "monthly_salary"}]}`},
		{"month out of range", `{"country": "bz", "bonuses": [{"id": "x", "months": [13], "calculation": "monthly_salary"}]}`},
		{"unknown mode", `{"country": "bz", "bonuses": [{"id": "x", "months": [12], "calculation": "magic"}]}`},
		{"percentage without value", `{"country": "bz", "bonuses": [{"id": "x", "months": [12], "calculation": "percentage"}]}`},
		{"fixed without amount", `{"country": "bz", "bonuses": [{"id": "x", "months": [12], "calculation": "fixed_amount"}]}`},
		{"bad override month", `{"country": "bz", "bonuses": [{"id": "x", "months": [12], "calculation": "monthly_salary", "payment_days": {"13": 15}}]}`},
		{"bad override day", `{"country": "bz", "bonuses": [{"id": "x", "months": [12], "calculation": "monthly_salary", "payment_days": {"12": 40}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := factory.ParseCatalog([]byte(tc.data)); err == nil {
				t.Errorf("expected an error for %s", tc.name)
			}
		})
	}
}

func TestRegisterCatalog_InstallsCountry(t *testing.T) {
	// GIVEN: A parsed catalog for a country the engine does not ship
	// WHEN: Registering it
	// THEN: The bonus registry serves it, including the day override

	data := []byte(`{"country": "zz", "bonuses": [
		{"id": "zz-bonus", "name": "Test bonus", "months": [6], "calculation": "monthly_salary",
		 "payment_days": {"6": 10}}
	]}`)
	catalog, err := factory.ParseCatalog(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	factory.RegisterCatalog(catalog)

	defs := bonus.Catalog("zz")
	if len(defs) != 1 || defs[0].ID != "zz-bonus" {
		t.Fatalf("registry did not serve the catalog: %v", defs)
	}

	when, _ := bonus.NextPayment(defs[0], income.NewMoney(1000), time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	if when.Day() != 10 || when.Month() != time.June {
		t.Errorf("expected June 10th via the registered override, got %s", when)
	}
}
