/*
store.go - Persistence boundary for canonical income records

PURPOSE:
  Defines the interface between the pure engine and whatever holds the
  canonical records. The engine itself NEVER calls these methods - the
  sync planner returns intended writes (sync.go) and the caller applies
  them here. This keeps every engine function replayable.

PRIMARY INVARIANT:
  At most one active record per household carries IsPrimary. Stores
  enforce it on both ends:
  - Create: a record created as primary demotes any existing primary
  - Delete: deleting the primary promotes another active record;
    deleting the only record leaves the household with none

IMPLEMENTATIONS:
  - store/sqlite: production store (WAL, auto-migrate)
  - income/store: in-memory store for tests and dev

SEE ALSO:
  - sync.go: Produces the create/update intents applied through Store
*/
package income

import "context"

// =============================================================================
// RECORD PATCH - Partial update, nil means "leave unchanged"
// =============================================================================

type RecordPatch struct {
	Name        *string
	Description *string
	Frequency   *Frequency
	Amount      *Money
	MinAmount   *Money
	MaxAmount   *Money
	IsVariable  *bool
	Stability   *StabilityPattern
	BaseAmount  *Money

	// PaymentDays nil leaves the schedule untouched; a non-nil slice
	// replaces it. The sync planner only ever emits supersets of the
	// known schedule, so confirmed paydays survive updates.
	PaymentDays    []int
	PaymentPattern *PaymentPattern

	IsActive  *bool
	IsPrimary *bool
}

// Apply copies the patch onto a record, honoring nil-means-unchanged.
func (p RecordPatch) Apply(r IncomeRecord) IncomeRecord {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Frequency != nil {
		r.Frequency = *p.Frequency
	}
	if p.Amount != nil {
		r.Amount = *p.Amount
	}
	if p.MinAmount != nil {
		r.MinAmount = cloneMoney(p.MinAmount)
	}
	if p.MaxAmount != nil {
		r.MaxAmount = cloneMoney(p.MaxAmount)
	}
	if p.IsVariable != nil {
		r.IsVariable = *p.IsVariable
	}
	if p.Stability != nil {
		r.Stability = *p.Stability
	}
	if p.BaseAmount != nil {
		r.BaseAmount = *p.BaseAmount
	}
	if p.PaymentDays != nil {
		r.PaymentDays = clonePaymentDays(p.PaymentDays)
	}
	if p.PaymentPattern != nil {
		r.PaymentPattern = *p.PaymentPattern
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
	if p.IsPrimary != nil {
		r.IsPrimary = *p.IsPrimary
	}
	return r
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store persists canonical income records. Write discipline (atomicity,
// single-writer) is the implementation's concern, not the engine's.
type Store interface {
	// Create persists a new record and returns it with its minted ID.
	// Creating a primary record demotes any existing primary in the
	// same household.
	Create(ctx context.Context, r IncomeRecord) (IncomeRecord, error)

	// Update applies a partial patch. Returns ErrRecordNotFound if the
	// id is unknown.
	Update(ctx context.Context, id RecordID, patch RecordPatch) (IncomeRecord, error)

	// Delete removes a record. If it was the household's primary,
	// another active record is promoted; an emptied household ends
	// with no primary.
	Delete(ctx context.Context, id RecordID) error

	// Get returns one record by id.
	Get(ctx context.Context, id RecordID) (IncomeRecord, error)

	// List returns a household's records, active-only when asked,
	// ordered by creation.
	List(ctx context.Context, householdID string, activeOnly bool) ([]IncomeRecord, error)
}
