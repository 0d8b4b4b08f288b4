package income_test

import (
	"testing"

	"github.com/centavo/income-engine/income"
)

func salaryCandidate(amount float64) income.Candidate {
	return income.Candidate{
		Type:      income.TypeSalary,
		Frequency: income.FreqMonthly,
		Amount:    moneyPtr(amount),
	}
}

// =============================================================================
// MATCHING TESTS
// =============================================================================

func TestMerge_AmountToleranceMatch(t *testing.T) {
	// GIVEN: An existing salary of 5000 (monthly)
	// WHEN: Merging an incoming salary of 5025, same type and frequency
	// THEN: |5025-5000| = 25 <= max(50, 250), so they merge into one

	existing := []income.Candidate{salaryCandidate(5000)}
	merged := income.Merge(existing, salaryCandidate(5025))

	if len(merged) != 1 {
		t.Fatalf("expected 1 candidate after merge, got %d", len(merged))
	}
	if !merged[0].Amount.Equal(money(5025)) {
		t.Errorf("expected incoming amount to overwrite, got %v", merged[0].Amount)
	}
}

func TestMerge_OutsideToleranceAppends(t *testing.T) {
	// 5000 vs 6000 is far outside max(50, 250): a second income source.
	merged := income.Merge([]income.Candidate{salaryCandidate(5000)}, salaryCandidate(6000))
	if len(merged) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(merged))
	}
}

func TestMerge_NameMatchCaseInsensitive(t *testing.T) {
	// GIVEN: A named candidate
	// WHEN: A later turn mentions the same name in different case, with
	//       a different amount
	// THEN: Name match wins and the candidates merge

	existing := []income.Candidate{{
		Name:      "Tienda de la esquina",
		Type:      income.TypeBusiness,
		Frequency: income.FreqMonthly,
		Amount:    moneyPtr(2000),
	}}
	incoming := income.Candidate{
		Name:   "tienda de la ESQUINA",
		Amount: moneyPtr(3500),
	}

	merged := income.Merge(existing, incoming)
	if len(merged) != 1 {
		t.Fatalf("expected name match to merge, got %d candidates", len(merged))
	}
	if !merged[0].Amount.Equal(money(3500)) {
		t.Errorf("expected updated amount 3500, got %v", merged[0].Amount)
	}
}

func TestMerge_FirstMatchWins(t *testing.T) {
	// The scan is stable left-to-right: the first matching candidate
	// absorbs the update.
	existing := []income.Candidate{salaryCandidate(5000), salaryCandidate(5010)}
	merged := income.Merge(existing, salaryCandidate(5005))

	if len(merged) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(merged))
	}
	if !merged[0].Amount.Equal(money(5005)) {
		t.Errorf("expected first candidate updated, got %v", merged[0].Amount)
	}
	if !merged[1].Amount.Equal(money(5010)) {
		t.Errorf("expected second candidate untouched, got %v", merged[1].Amount)
	}
}

// =============================================================================
// FIELD MERGE POLICY TESTS
// =============================================================================

func TestMerge_PaymentDaysUnion(t *testing.T) {
	// GIVEN: A candidate with confirmed payday 15
	// WHEN: A later, less specific message brings only day 30
	// THEN: Both days survive, sorted

	existing := []income.Candidate{{
		Type:        income.TypeSalary,
		Frequency:   income.FreqBiweekly,
		Amount:      moneyPtr(3200),
		PaymentDays: []int{30},
	}}
	incoming := income.Candidate{
		Type:        income.TypeSalary,
		Frequency:   income.FreqBiweekly,
		Amount:      moneyPtr(3200),
		PaymentDays: []int{15},
	}

	merged := income.Merge(existing, incoming)
	if len(merged) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(merged))
	}
	days := merged[0].PaymentDays
	if len(days) != 2 || days[0] != 15 || days[1] != 30 {
		t.Errorf("expected payment days [15 30], got %v", days)
	}
}

func TestMerge_ConfidenceKeepsMax(t *testing.T) {
	existing := []income.Candidate{{
		Type: income.TypeSalary, Frequency: income.FreqMonthly,
		Amount: moneyPtr(5000), Confidence: 0.9,
	}}
	incoming := income.Candidate{
		Type: income.TypeSalary, Frequency: income.FreqMonthly,
		Amount: moneyPtr(5000), Confidence: 0.4,
	}

	merged := income.Merge(existing, incoming)
	if merged[0].Confidence != 0.9 {
		t.Errorf("expected confidence 0.9 kept, got %v", merged[0].Confidence)
	}
}

func TestMerge_NilFieldsDoNotErase(t *testing.T) {
	// A turn that only repeats the type/amount must not drop the range
	// learned earlier.
	existing := []income.Candidate{{
		Type:      income.TypeFreelance,
		Frequency: income.FreqMonthly,
		MinAmount: moneyPtr(3000),
		MaxAmount: moneyPtr(8000),
	}}
	incoming := income.Candidate{
		Type:      income.TypeFreelance,
		Frequency: income.FreqMonthly,
		Amount:    moneyPtr(3000),
	}

	merged := income.Merge(existing, incoming)
	if len(merged) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(merged))
	}
	if merged[0].MinAmount == nil || merged[0].MaxAmount == nil {
		t.Error("range fields were erased by a nil update")
	}
}

// =============================================================================
// IDEMPOTENCY TESTS
// =============================================================================

func TestMerge_Idempotent(t *testing.T) {
	// merge(merge(C, X), X) == merge(C, X)

	existing := []income.Candidate{salaryCandidate(5000)}
	x := income.Candidate{
		Type:        income.TypeSalary,
		Frequency:   income.FreqMonthly,
		Amount:      moneyPtr(5025),
		PaymentDays: []int{15, 30},
		Confidence:  0.8,
	}

	once := income.Merge(existing, x)
	twice := income.Merge(once, x)

	if len(once) != len(twice) {
		t.Fatalf("idempotency broken: %d vs %d candidates", len(once), len(twice))
	}
	for i := range once {
		a, b := once[i], twice[i]
		if !a.Amount.Equal(*b.Amount) || a.Confidence != b.Confidence ||
			len(a.PaymentDays) != len(b.PaymentDays) {
			t.Errorf("candidate %d differs after re-merge", i)
		}
	}
}

// =============================================================================
// AMOUNT RESOLUTION TESTS
// =============================================================================

func TestResolveAmount_Order(t *testing.T) {
	// amount -> min -> max -> unresolved

	if amt, ok := income.ResolveAmount(income.Candidate{
		Amount: moneyPtr(4000), MinAmount: moneyPtr(1), MaxAmount: moneyPtr(2),
	}); !ok || !amt.Equal(money(4000)) {
		t.Errorf("explicit amount should win, got %v", amt)
	}

	if amt, ok := income.ResolveAmount(income.Candidate{
		MinAmount: moneyPtr(3000), MaxAmount: moneyPtr(8000),
	}); !ok || !amt.Equal(money(3000)) {
		t.Errorf("min should resolve next, got %v", amt)
	}

	if amt, ok := income.ResolveAmount(income.Candidate{MaxAmount: moneyPtr(8000)}); !ok || !amt.Equal(money(8000)) {
		t.Errorf("max should resolve last, got %v", amt)
	}

	if _, ok := income.ResolveAmount(income.Candidate{Name: "pending"}); ok {
		t.Error("amountless candidate should not resolve")
	}
}

func TestSumResolvedMonthly_ExcludesIncomplete(t *testing.T) {
	// GIVEN: One resolvable candidate and one incomplete
	// WHEN: Summing the session's monthly total
	// THEN: The incomplete candidate contributes nothing but stays listed

	candidates := []income.Candidate{
		salaryCandidate(5000),
		{Name: "algo más", Type: income.TypeOther, Frequency: income.FreqMonthly},
	}
	assertMoney(t, income.SumResolvedMonthly(candidates), 5000)

	merged := income.MergeAll(nil, candidates)
	if len(merged) != 2 {
		t.Errorf("incomplete candidate should stay in the session, got %d", len(merged))
	}
}
