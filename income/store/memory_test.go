package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/centavo/income-engine/income"
	"github.com/centavo/income-engine/income/store"
)

func salary(household string, primary bool) income.IncomeRecord {
	amount := income.NewMoneyFromInt(5000)
	return income.IncomeRecord{
		HouseholdID: household,
		Name:        "Salario",
		Type:        income.TypeSalary,
		Frequency:   income.FreqMonthly,
		Amount:      amount,
		BaseAmount:  amount,
		Stability:   income.StabilityConsistent,
		IsPrimary:   primary,
		IsActive:    true,
	}
}

func countPrimaries(t *testing.T, m *store.Memory, household string) int {
	t.Helper()
	records, err := m.List(context.Background(), household, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	n := 0
	for _, r := range records {
		if r.IsPrimary {
			n++
		}
	}
	return n
}

func TestMemory_CreateMintsID(t *testing.T) {
	m := store.NewMemory()
	created, err := m.Create(context.Background(), salary("hh-1", true))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a minted id")
	}
	got, err := m.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Salario" {
		t.Errorf("round-trip lost data: %+v", got)
	}
}

func TestMemory_NewPrimaryDemotesOldPrimary(t *testing.T) {
	// GIVEN: A household with an existing primary
	// WHEN: Creating another primary record
	// THEN: Exactly one primary remains, the newer one

	ctx := context.Background()
	m := store.NewMemory()
	first, _ := m.Create(ctx, salary("hh-1", true))
	second, _ := m.Create(ctx, salary("hh-1", true))

	if countPrimaries(t, m, "hh-1") != 1 {
		t.Fatal("expected exactly one primary after second create")
	}
	got, _ := m.Get(ctx, first.ID)
	if got.IsPrimary {
		t.Error("old primary should have been demoted")
	}
	got, _ = m.Get(ctx, second.ID)
	if !got.IsPrimary {
		t.Error("new record should be the primary")
	}
}

func TestMemory_UpdatePromotionDemotesSibling(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	first, _ := m.Create(ctx, salary("hh-1", true))
	second, _ := m.Create(ctx, salary("hh-1", false))

	yes := true
	if _, err := m.Update(ctx, second.ID, income.RecordPatch{IsPrimary: &yes}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if countPrimaries(t, m, "hh-1") != 1 {
		t.Fatal("expected exactly one primary after promotion")
	}
	got, _ := m.Get(ctx, first.ID)
	if got.IsPrimary {
		t.Error("sibling should have been demoted")
	}
}

func TestMemory_DeletePrimaryPromotesOldestActive(t *testing.T) {
	// GIVEN: A primary plus two non-primary records, the older one inactive
	// WHEN: Deleting the primary
	// THEN: The oldest remaining ACTIVE record is promoted

	ctx := context.Background()
	m := store.NewMemory()
	primary, _ := m.Create(ctx, salary("hh-1", true))

	inactive := salary("hh-1", false)
	inactive.IsActive = false
	skipped, _ := m.Create(ctx, inactive)
	promotable, _ := m.Create(ctx, salary("hh-1", false))

	if err := m.Delete(ctx, primary.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got, _ := m.Get(ctx, skipped.ID)
	if got.IsPrimary {
		t.Error("inactive record must not be promoted")
	}
	got, _ = m.Get(ctx, promotable.ID)
	if !got.IsPrimary {
		t.Error("oldest active record should have been promoted")
	}
}

func TestMemory_DeleteLastRecordLeavesNoPrimary(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	only, _ := m.Create(ctx, salary("hh-1", true))

	if err := m.Delete(ctx, only.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if countPrimaries(t, m, "hh-1") != 0 {
		t.Error("empty household should have zero primaries")
	}
}

func TestMemory_ListFiltersByHouseholdAndActive(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	m.Create(ctx, salary("hh-1", true))
	inactive := salary("hh-1", false)
	inactive.IsActive = false
	m.Create(ctx, inactive)
	m.Create(ctx, salary("hh-2", true))

	all, _ := m.List(ctx, "hh-1", false)
	if len(all) != 2 {
		t.Errorf("expected 2 records for hh-1, got %d", len(all))
	}
	active, _ := m.List(ctx, "hh-1", true)
	if len(active) != 1 {
		t.Errorf("expected 1 active record for hh-1, got %d", len(active))
	}
}

func TestMemory_NotFoundErrors(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.Get(ctx, "nope")
	if !errors.Is(err, income.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound from get, got %v", err)
	}
	_, err = m.Update(ctx, "nope", income.RecordPatch{})
	if !errors.Is(err, income.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound from update, got %v", err)
	}
	if err := m.Delete(ctx, "nope"); !errors.Is(err, income.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound from delete, got %v", err)
	}
}
