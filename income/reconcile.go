/*
reconcile.go - Turn-over-turn candidate merging

PURPOSE:
  The conversational extractor emits partial candidates on every user
  message: "I earn 5000" on one turn, "paid on the 15th and 30th" on
  the next. This file merges those increments into one candidate per
  real-world income source, without duplication and without losing
  previously confirmed fields.

MATCHING RULE:
  An incoming candidate matches an existing one when either
    (a) their normalized names match case-insensitively, or
    (b) type and frequency are equal and the resolved amounts are
        within max(50, 5% of amount) of each other.
  The scan is stable left-to-right; the first match wins. No match
  appends the candidate as a new income source.

MERGE POLICY:
  Non-nil incoming fields overwrite, with two exceptions:
    - Confidence keeps the maximum seen across turns
    - PaymentDays are unioned, sorted, and deduplicated, so a later,
      less specific message never drops a confirmed payday

IDEMPOTENCY:
  merge(merge(C, X), X) == merge(C, X). The engine is re-invoked on
  every turn, and retries must not fabricate duplicates.

SEE ALSO:
  - sync.go: Applies the same matching rule against canonical records
  - validate.go: Field validation before merging
*/
package income

import (
	"sort"
	"strings"
)

// =============================================================================
// AMOUNT RESOLUTION
// =============================================================================

// ResolveAmount is the single place "missing amount" semantics are
// decided. Order: explicit amount, then range floor, then range
// ceiling. A candidate that resolves nowhere is incomplete: kept in the
// session for later completion, excluded from monthly totals.
func ResolveAmount(c Candidate) (Money, bool) {
	switch {
	case c.Amount != nil:
		return *c.Amount, true
	case c.MinAmount != nil:
		return *c.MinAmount, true
	case c.MaxAmount != nil:
		return *c.MaxAmount, true
	default:
		return ZeroMoney(), false
	}
}

// Incomplete reports whether the candidate still lacks a resolvable
// amount.
func Incomplete(c Candidate) bool {
	_, ok := ResolveAmount(c)
	return !ok
}

// =============================================================================
// MATCHING
// =============================================================================

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// sameIncome decides whether two candidates describe the same
// real-world income source.
func sameIncome(existing, incoming Candidate) bool {
	if existing.Name != "" && incoming.Name != "" &&
		normalizeName(existing.Name) == normalizeName(incoming.Name) {
		return true
	}
	if existing.Type == "" || incoming.Type == "" {
		return false
	}
	if existing.Type != incoming.Type || existing.Frequency != incoming.Frequency {
		return false
	}
	a, aok := ResolveAmount(existing)
	b, bok := ResolveAmount(incoming)
	if !aok || !bok {
		return false
	}
	return a.WithinTolerance(b)
}

// matchesRecord applies the candidate matching rule against a canonical
// record (type + frequency + amount tolerance, or name).
func matchesRecord(r IncomeRecord, c Candidate) bool {
	if r.Name != "" && c.Name != "" && normalizeName(r.Name) == normalizeName(c.Name) {
		return true
	}
	if c.Type == "" || r.Type != c.Type || r.Frequency != c.Frequency {
		return false
	}
	amt, ok := ResolveAmount(c)
	if !ok {
		return false
	}
	return r.Amount.WithinTolerance(amt)
}

// =============================================================================
// MERGE
// =============================================================================

// Merge folds an incoming candidate into the existing session set.
// The input slices are never mutated; the result is a fresh set.
func Merge(existing []Candidate, incoming Candidate) []Candidate {
	merged := make([]Candidate, len(existing))
	for i, c := range existing {
		merged[i] = c.Clone()
	}

	for i := range merged {
		if sameIncome(merged[i], incoming) {
			merged[i] = mergeFields(merged[i], incoming)
			return merged
		}
	}
	return append(merged, incoming.Clone())
}

// MergeAll folds a turn's worth of candidates, left to right.
func MergeAll(existing []Candidate, incoming []Candidate) []Candidate {
	out := existing
	for _, c := range incoming {
		out = Merge(out, c)
	}
	return out
}

func mergeFields(base, update Candidate) Candidate {
	out := base.Clone()

	if update.Name != "" {
		out.Name = update.Name
	}
	if update.Description != "" {
		out.Description = update.Description
	}
	if update.Type != "" {
		out.Type = update.Type
	}
	if update.Frequency != "" {
		out.Frequency = update.Frequency
	}
	if update.Stability != "" {
		out.Stability = update.Stability
	}
	if update.Country != "" {
		out.Country = update.Country
	}
	if update.Amount != nil {
		out.Amount = cloneMoney(update.Amount)
	}
	if update.MinAmount != nil {
		out.MinAmount = cloneMoney(update.MinAmount)
	}
	if update.MaxAmount != nil {
		out.MaxAmount = cloneMoney(update.MaxAmount)
	}
	if update.IsVariable != nil {
		v := *update.IsVariable
		out.IsVariable = &v
	}

	// Confirmed paydays are never silently dropped by a later message.
	out.PaymentDays = UnionPaymentDays(out.PaymentDays, update.PaymentDays)

	if update.Confidence > out.Confidence {
		out.Confidence = update.Confidence
	}
	return out
}

// UnionPaymentDays merges two anchor lists, sorted and deduplicated.
func UnionPaymentDays(a, b []int) []int {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(a)+len(b))
	var out []int
	for _, day := range a {
		if !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	for _, day := range b {
		if !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	sort.Ints(out)
	return out
}

// SumResolvedMonthly totals the monthly equivalents of resolvable
// candidates. Incomplete candidates contribute nothing.
func SumResolvedMonthly(candidates []Candidate) Money {
	total := ZeroMoney()
	for _, c := range candidates {
		amt, ok := ResolveAmount(c)
		if !ok {
			continue
		}
		base := ConservativeBase(amt, c.MinAmount, c.MaxAmount, c.Variable())
		total = total.Add(ToMonthly(base, c.Frequency))
	}
	return total
}
