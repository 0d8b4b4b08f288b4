package income_test

import (
	"strings"
	"testing"

	"github.com/centavo/income-engine/income"
)

// =============================================================================
// AMOUNT VALIDATION
// =============================================================================

func TestValidateCandidate_AmountRequiredWithoutRange(t *testing.T) {
	res := income.ValidateCandidate(income.Candidate{Type: income.TypeSalary})
	if res.OK() {
		t.Error("expected an error for missing amount")
	}
}

func TestValidateCandidate_RangeSatisfiesAmountRequirement(t *testing.T) {
	res := income.ValidateCandidate(income.Candidate{
		MinAmount: moneyPtr(3000),
		MaxAmount: moneyPtr(8000),
	})
	if !res.OK() {
		t.Errorf("range should satisfy the amount requirement, got %v", res.Errors)
	}
}

func TestValidateCandidate_NonPositiveAmount(t *testing.T) {
	res := income.ValidateCandidate(income.Candidate{Amount: moneyPtr(0)})
	if res.OK() {
		t.Error("expected an error for zero amount")
	}
}

func TestValidateCandidate_HugeAmountIsSuggestionNotError(t *testing.T) {
	// GIVEN: An amount over 2,000,000
	// WHEN: Validating
	// THEN: A suggestion to confirm, not a hard error

	res := income.ValidateCandidate(income.Candidate{Amount: moneyPtr(2_500_000)})
	if !res.OK() {
		t.Errorf("large amount must not hard-fail: %v", res.Errors)
	}
	if len(res.Suggestions) == 0 {
		t.Error("expected a confirmation suggestion for a very large amount")
	}
}

func TestValidateCandidate_InvertedRange(t *testing.T) {
	res := income.ValidateCandidate(income.Candidate{
		MinAmount: moneyPtr(8000),
		MaxAmount: moneyPtr(3000),
	})
	if res.OK() {
		t.Error("expected an error for max below min")
	}
}

// =============================================================================
// ENUM AND FIELD VALIDATION
// =============================================================================

func TestValidateCandidate_UnknownFrequencyAndType(t *testing.T) {
	res := income.ValidateCandidate(income.Candidate{
		Amount:    moneyPtr(1000),
		Frequency: "fortnightly-ish",
		Type:      "lottery",
	})
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", res.Errors)
	}
}

func TestValidateCandidate_PaymentDaysReportedIndividually(t *testing.T) {
	// GIVEN: A day list mixing valid and invalid entries
	// WHEN: Validating
	// THEN: Each bad day is reported; the candidate is not wholesale rejected

	res := income.ValidateCandidate(income.Candidate{
		Amount:      moneyPtr(1000),
		PaymentDays: []int{15, 0, 32, 30},
	})
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 day errors, got %v", res.Errors)
	}
}

func TestValidPaymentDays_KeepsValidSiblings(t *testing.T) {
	valid, errs := income.ValidPaymentDays([]int{15, 0, 32, 30})
	if len(valid) != 2 || valid[0] != 15 || valid[1] != 30 {
		t.Errorf("expected [15 30] kept, got %v", valid)
	}
	if len(errs) != 2 {
		t.Errorf("expected 2 errors, got %v", errs)
	}
}

func TestValidateCandidate_DescriptionSoftCap(t *testing.T) {
	// An over-long description errors on its own field but leaves the
	// numeric fields usable.
	res := income.ValidateCandidate(income.Candidate{
		Amount:      moneyPtr(1000),
		Description: strings.Repeat("x", 141),
	})
	if len(res.Errors) != 1 {
		t.Errorf("expected exactly the description error, got %v", res.Errors)
	}
}

func TestValidateCandidate_DescriptionCapCountsCharactersNotBytes(t *testing.T) {
	// GIVEN: A 135-character Spanish description full of accented letters
	//        (each two bytes in UTF-8)
	// WHEN: Validating
	// THEN: It passes; the cap is 140 characters, not 140 bytes

	res := income.ValidateCandidate(income.Candidate{
		Amount:      moneyPtr(1000),
		Description: strings.Repeat("ñ", 135),
	})
	if !res.OK() {
		t.Errorf("135 accented characters must fit the cap, got %v", res.Errors)
	}

	res = income.ValidateCandidate(income.Candidate{
		Amount:      moneyPtr(1000),
		Description: strings.Repeat("ñ", 141),
	})
	if len(res.Errors) != 1 {
		t.Errorf("expected the description error at 141 characters, got %v", res.Errors)
	}
}
