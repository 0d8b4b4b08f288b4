/*
sync.go - Create-vs-update planning against canonical records

PURPOSE:
  Given a finalized candidate set and the household's canonical records,
  decide which candidates become new records and which patch existing
  ones. The planner performs NO I/O: it returns a SyncPlan describing
  the writes, and the caller applies them through the Store interface.
  A retried call with the same inputs yields the same plan.

DECISIONS:
  - Candidates without a resolvable amount are skipped (still present
    in the session for later turns, never synced half-known)
  - A candidate matching a canonical record (same rule as reconcile.go)
    becomes an update patch; schedule information already on the record
    is only ever extended, never dropped
  - A non-matching candidate becomes a create; the first record of an
    empty household is the primary, and BaseAmount is the conservative
    anchor from normalize.go

SEE ALSO:
  - reconcile.go: The shared matching rule
  - store.go: Where the plan is applied
*/
package income

import "context"

// =============================================================================
// SYNC PLAN
// =============================================================================

// RecordUpdate pairs a canonical record id with the patch to apply.
type RecordUpdate struct {
	ID    RecordID
	Patch RecordPatch
}

// SyncPlan is a pure description of intended writes.
type SyncPlan struct {
	Creates []IncomeRecord
	Updates []RecordUpdate

	// Skipped counts candidates left out for lack of a resolved amount.
	Skipped int
}

func (p SyncPlan) IncomesCreated() int { return len(p.Creates) }
func (p SyncPlan) IncomesUpdated() int { return len(p.Updates) }

// =============================================================================
// PLANNER
// =============================================================================

// Plan reconciles candidates against canonical records and returns the
// writes needed to bring the store up to date.
func Plan(householdID string, candidates []Candidate, canonical []IncomeRecord) SyncPlan {
	var plan SyncPlan

	// Creates in this plan also count as canonical for later candidates,
	// so two new candidates describing the same income collapse into one
	// create even before anything is persisted.
	known := make([]IncomeRecord, len(canonical))
	copy(known, canonical)

	for _, c := range candidates {
		amount, ok := ResolveAmount(c)
		if !ok {
			plan.Skipped++
			continue
		}

		matched := false
		for i, r := range known {
			if !matchesRecord(r, c) {
				continue
			}
			if i >= len(canonical) {
				// The match is a create pending in this same plan; it has
				// no store-minted ID yet, so fold the candidate into the
				// pending record instead of emitting an update.
				merged := buildPatch(r, c, amount).Apply(plan.Creates[i-len(canonical)])
				plan.Creates[i-len(canonical)] = merged
				known[i] = merged
			} else {
				plan.Updates = append(plan.Updates, RecordUpdate{
					ID:    r.ID,
					Patch: buildPatch(r, c, amount),
				})
			}
			matched = true
			break
		}
		if matched {
			continue
		}

		record := buildRecord(householdID, c, amount, len(known) == 0)
		plan.Creates = append(plan.Creates, record)
		known = append(known, record)
	}

	return plan
}

// buildPatch turns a matched candidate into a partial update. Fields the
// candidate did not mention stay nil and therefore untouched.
func buildPatch(r IncomeRecord, c Candidate, amount Money) RecordPatch {
	var patch RecordPatch

	if c.Name != "" && normalizeName(c.Name) != normalizeName(r.Name) {
		name := c.Name
		patch.Name = &name
	}
	if c.Description != "" && c.Description != r.Description {
		desc := c.Description
		patch.Description = &desc
	}
	if !amount.Equal(r.Amount) {
		patch.Amount = &amount
	}
	if c.MinAmount != nil {
		patch.MinAmount = cloneMoney(c.MinAmount)
	}
	if c.MaxAmount != nil {
		patch.MaxAmount = cloneMoney(c.MaxAmount)
	}

	variable := c.Variable() || r.IsVariable
	if variable != r.IsVariable {
		patch.IsVariable = &variable
	}
	if c.Stability != "" && c.Stability != r.Stability {
		st := c.Stability
		patch.Stability = &st
	}

	min, max := c.MinAmount, c.MaxAmount
	if min == nil {
		min = r.MinAmount
	}
	if max == nil {
		max = r.MaxAmount
	}
	base := ConservativeBase(amount, min, max, variable)
	if !base.Equal(r.BaseAmount) {
		patch.BaseAmount = &base
	}

	// Schedule: union with what the record already knows. Previously
	// confirmed paydays are never dropped by a less specific message.
	if len(c.PaymentDays) > 0 {
		days, _ := ValidPaymentDays(c.PaymentDays)
		union := UnionPaymentDays(r.PaymentDays, days)
		if len(union) != len(r.PaymentDays) {
			patch.PaymentDays = union
			pattern := paymentPatternFor(union)
			if pattern != r.PaymentPattern {
				patch.PaymentPattern = &pattern
			}
		}
	}

	return patch
}

// buildRecord materializes a new canonical record from a candidate.
func buildRecord(householdID string, c Candidate, amount Money, firstRecord bool) IncomeRecord {
	days, _ := ValidPaymentDays(c.PaymentDays)
	days = UnionPaymentDays(days, nil)

	variable := c.Variable()
	stability := c.Stability
	if stability == "" {
		if variable {
			stability = StabilityVariable
		} else {
			stability = StabilityConsistent
		}
	}

	freq := c.Frequency
	if freq == "" {
		freq = FreqMonthly
	}
	typ := c.Type
	if typ == "" {
		typ = TypeOther
	}

	return IncomeRecord{
		HouseholdID:    householdID,
		Name:           c.Name,
		Description:    c.Description,
		Type:           typ,
		Frequency:      freq,
		Amount:         amount,
		MinAmount:      cloneMoney(c.MinAmount),
		MaxAmount:      cloneMoney(c.MaxAmount),
		IsVariable:     variable,
		Stability:      stability,
		BaseAmount:     ConservativeBase(amount, c.MinAmount, c.MaxAmount, variable),
		PaymentPattern: paymentPatternFor(days),
		PaymentDays:    days,
		IsPrimary:      firstRecord,
		IsActive:       true,
		Country:        c.Country,
	}
}

func paymentPatternFor(days []int) PaymentPattern {
	if len(days) > 1 {
		return PatternComplex
	}
	return PatternSimple
}

// Apply executes a plan against a store. This is the one place engine
// output touches persistence, kept separate so the planner itself stays
// replayable.
func Apply(ctx context.Context, store Store, plan SyncPlan) (created, updated int, err error) {
	for _, r := range plan.Creates {
		if _, err := store.Create(ctx, r); err != nil {
			return created, updated, err
		}
		created++
	}
	for _, u := range plan.Updates {
		if _, err := store.Update(ctx, u.ID, u.Patch); err != nil {
			return created, updated, err
		}
		updated++
	}
	return created, updated, nil
}
