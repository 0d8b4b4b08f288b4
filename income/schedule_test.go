package income_test

import (
	"testing"
	"time"

	"github.com/centavo/income-engine/income"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// WEEKEND SHIFT TESTS
// =============================================================================

func TestProjectSchedule_SaturdayShiftsToFriday(t *testing.T) {
	// GIVEN: Anchor day 15 and a month where the 15th is a Saturday
	// WHEN: Projecting from the start of that month
	// THEN: The payment shifts back one day to Friday the 14th

	projs := income.ProjectSchedule(date(2025, time.November, 1), []int{15}, 1)
	if len(projs) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(projs))
	}
	if !projs[0].Adjusted.Equal(date(2025, time.November, 14)) {
		t.Errorf("expected 2025-11-14, got %s", projs[0].Adjusted)
	}
	if projs[0].Adjusted.Weekday() != time.Friday {
		t.Errorf("expected Friday, got %s", projs[0].Adjusted.Weekday())
	}
}

func TestProjectSchedule_SundayShiftsTwoDays(t *testing.T) {
	// GIVEN: Anchor day 1 and a month starting on a Sunday (March 2026)
	// WHEN: Projecting from late February
	// THEN: The payment shifts back two days, crossing into February

	projs := income.ProjectSchedule(date(2026, time.February, 20), []int{1}, 1)
	if len(projs) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(projs))
	}
	if !projs[0].Adjusted.Equal(date(2026, time.February, 27)) {
		t.Errorf("expected 2026-02-27, got %s", projs[0].Adjusted)
	}
	if projs[0].Adjusted.Weekday() != time.Friday {
		t.Errorf("expected Friday, got %s", projs[0].Adjusted.Weekday())
	}
}

func TestProjectSchedule_WeekdayUnchanged(t *testing.T) {
	// December 15, 2025 is a Monday; no adjustment applies.
	projs := income.ProjectSchedule(date(2025, time.December, 1), []int{15}, 1)
	if len(projs) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(projs))
	}
	if projs[0].Shifted() {
		t.Errorf("weekday payment should not shift, got %s", projs[0].Adjusted)
	}
}

// =============================================================================
// MONTH CLAMPING TESTS
// =============================================================================

func TestProjectSchedule_Day31ClampsToFebruaryEnd(t *testing.T) {
	// GIVEN: Anchor day 31 in February 2025 (28 days, the 28th a Friday)
	// WHEN: Projecting from February 1st
	// THEN: The anchor clamps to February 28

	projs := income.ProjectSchedule(date(2025, time.February, 1), []int{31}, 1)
	if len(projs) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(projs))
	}
	if !projs[0].Original.Equal(date(2025, time.February, 28)) {
		t.Errorf("expected clamp to 2025-02-28, got %s", projs[0].Original)
	}
}

func TestProjectSchedule_Day31ClampsToLeapFebruary(t *testing.T) {
	projs := income.ProjectSchedule(date(2028, time.February, 1), []int{31}, 1)
	if len(projs) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(projs))
	}
	if projs[0].Original.Day() != 29 {
		t.Errorf("expected leap-year clamp to the 29th, got %s", projs[0].Original)
	}
}

// =============================================================================
// ORDERING, LOOKAHEAD, DETERMINISM
// =============================================================================

func TestProjectSchedule_QuincenaLookahead(t *testing.T) {
	// GIVEN: Quincena anchors 15 and 30, starting November 2025
	// WHEN: Projecting four payments
	// THEN: Nov 15 (Sat -> 14), Nov 30 (Sun -> 28), Dec 15, Dec 30, ascending

	projs := income.ProjectSchedule(date(2025, time.November, 1), []int{15, 30}, 4)
	want := []time.Time{
		date(2025, time.November, 14),
		date(2025, time.November, 28),
		date(2025, time.December, 15),
		date(2025, time.December, 30),
	}
	if len(projs) != len(want) {
		t.Fatalf("expected %d projections, got %d", len(want), len(projs))
	}
	for i, p := range projs {
		if !p.Adjusted.Equal(want[i]) {
			t.Errorf("projection %d: expected %s, got %s", i, want[i], p.Adjusted)
		}
	}
}

func TestProjectSchedule_DiscardsDatesBeforeToday(t *testing.T) {
	// Projecting mid-month must not return the month's earlier anchor.
	projs := income.ProjectSchedule(date(2025, time.December, 20), []int{15, 30}, 2)
	for _, p := range projs {
		if p.Adjusted.Before(date(2025, time.December, 20)) {
			t.Errorf("projection %s is before today", p.Adjusted)
		}
	}
}

func TestProjectSchedule_Deterministic(t *testing.T) {
	// Re-running with the same today and anchors yields the same list.
	a := income.ProjectSchedule(date(2025, time.November, 1), []int{15, 30}, 6)
	b := income.ProjectSchedule(date(2025, time.November, 1), []int{15, 30}, 6)
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Adjusted.Equal(b[i].Adjusted) || a[i].Label != b[i].Label {
			t.Errorf("projection %d differs between runs", i)
		}
	}
}

func TestProjectSchedule_EmptyInputs(t *testing.T) {
	if projs := income.ProjectSchedule(date(2025, time.November, 1), nil, 4); projs != nil {
		t.Errorf("expected no projections without anchors, got %d", len(projs))
	}
	if projs := income.ProjectSchedule(date(2025, time.November, 1), []int{15}, 0); projs != nil {
		t.Errorf("expected no projections with zero lookahead, got %d", len(projs))
	}
}

// =============================================================================
// LABEL TESTS
// =============================================================================

func TestProjectionLabels(t *testing.T) {
	// Shifted payments show the move; unshifted ones only the date.
	projs := income.ProjectSchedule(date(2025, time.November, 1), []int{15}, 2)
	if len(projs) != 2 {
		t.Fatalf("expected 2 projections, got %d", len(projs))
	}

	if got, want := projs[0].Label, "15 November → 14 November (Friday)"; got != want {
		t.Errorf("shifted label: expected %q, got %q", want, got)
	}
	if got, want := projs[1].Label, "15 December"; got != want {
		t.Errorf("unshifted label: expected %q, got %q", want, got)
	}
}
