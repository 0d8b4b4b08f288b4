/*
schedule.go - Payment date projection

PURPOSE:
  Turns recurring day-of-month anchors (the 15th, the 30th) into
  concrete upcoming calendar dates, adjusted for month length and the
  payday-on-weekend business rule.

ALGORITHM:
  For each of the next 12 candidate months, for each anchor:
  1. Clamp the anchor to the month's length (31 in February -> Feb 28/29)
  2. Shift weekend paydays back: Saturday -1 day, Sunday -2 days
  3. Discard dates strictly before today
  4. Dedupe by (adjusted date, anchor), sort ascending, stop at the
     requested count

DETERMINISM:
  A pure function of (today, anchors). "Now" is always passed in, never
  read from a clock, so projections are reproducible and testable.

LABELS:
  Human-readable preview strings for the UI layer. When the weekend rule
  moved the date, the label shows the move:
    "15 November"
    "15 November → 14 November (Friday)"

SEE ALSO:
  - types.go: PaymentDays anchors on IncomeRecord
  - bonus package: Analogous next-payment previews for statutory bonuses
*/
package income

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// PROJECTION RESULT
// =============================================================================

// PaymentProjection is a derived, never-persisted preview of one
// upcoming payment.
type PaymentProjection struct {
	// Anchor is the original day-of-month the schedule was built from.
	Anchor int

	// Original is the clamped date before weekend adjustment.
	Original time.Time

	// Adjusted is the date after the weekend rule. Equal to Original
	// for weekday paydays.
	Adjusted time.Time

	// Label is the display string for the preview layer.
	Label string
}

// Shifted reports whether the weekend rule moved the payment date.
func (p PaymentProjection) Shifted() bool {
	return !p.Original.Equal(p.Adjusted)
}

// projectionWindowMonths bounds the scan; anchors always recur within
// a year, so a longer window cannot produce new dates.
const projectionWindowMonths = 12

// =============================================================================
// CALENDAR HELPERS
// =============================================================================

func dateOnly(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the calendar length of a month (leap-aware).
func DaysInMonth(year int, month time.Month) int {
	return dateOnly(year, month+1, 1).AddDate(0, 0, -1).Day()
}

// ClampToMonth resolves an anchor day within a month, pulling day 31
// back to the 30th, 29th, or 28th as the month requires.
func ClampToMonth(year int, month time.Month, day int) time.Time {
	if max := DaysInMonth(year, month); day > max {
		day = max
	}
	return dateOnly(year, month, day)
}

// ShiftOffWeekend applies the payday rule: Saturday pays one day early,
// Sunday two days early. The shift may cross into the previous month.
func ShiftOffWeekend(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, -2)
	default:
		return d
	}
}

// =============================================================================
// PROJECTOR
// =============================================================================

// ProjectSchedule projects the next lookahead payment dates for the
// given anchors, starting from today's month. The result is sorted by
// adjusted date; identical (adjusted date, anchor) pairs appear once.
func ProjectSchedule(today time.Time, anchors []int, lookahead int) []PaymentProjection {
	if lookahead <= 0 || len(anchors) == 0 {
		return nil
	}

	today = dateOnly(today.Year(), today.Month(), today.Day())

	type seenKey struct {
		year   int
		month  time.Month
		day    int
		anchor int
	}
	seen := make(map[seenKey]bool)
	var out []PaymentProjection

	for offset := 0; offset < projectionWindowMonths; offset++ {
		// Anchor month arithmetic on the 1st: AddDate from a day-31
		// today would roll over short months.
		cursor := dateOnly(today.Year(), today.Month(), 1).AddDate(0, offset, 0)

		for _, anchor := range anchors {
			if anchor < minPaymentDay || anchor > maxPaymentDay {
				continue
			}
			original := ClampToMonth(cursor.Year(), cursor.Month(), anchor)
			adjusted := ShiftOffWeekend(original)
			if adjusted.Before(today) {
				continue
			}
			key := seenKey{adjusted.Year(), adjusted.Month(), adjusted.Day(), anchor}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, PaymentProjection{
				Anchor:   anchor,
				Original: original,
				Adjusted: adjusted,
				Label:    projectionLabel(original, adjusted),
			})
		}

		if len(out) >= lookahead {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Adjusted.Equal(out[j].Adjusted) {
			return out[i].Anchor < out[j].Anchor
		}
		return out[i].Adjusted.Before(out[j].Adjusted)
	})

	if len(out) > lookahead {
		out = out[:lookahead]
	}
	return out
}

// ProjectRecord projects a record's upcoming payments. Records without
// day anchors (irregular, project-based) have nothing to project.
func ProjectRecord(today time.Time, r IncomeRecord, lookahead int) []PaymentProjection {
	return ProjectSchedule(today, r.PaymentDays, lookahead)
}

func projectionLabel(original, adjusted time.Time) string {
	if original.Equal(adjusted) {
		return fmt.Sprintf("%d %s", adjusted.Day(), adjusted.Month())
	}
	return fmt.Sprintf("%d %s → %d %s (%s)",
		original.Day(), original.Month(),
		adjusted.Day(), adjusted.Month(), adjusted.Weekday())
}
