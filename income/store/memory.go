// Package store provides income.Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/centavo/income-engine/income"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records map[income.RecordID]income.IncomeRecord
	order   []income.RecordID
}

func NewMemory() *Memory {
	return &Memory{records: make(map[income.RecordID]income.IncomeRecord)}
}

func (m *Memory) Create(_ context.Context, r income.IncomeRecord) (income.IncomeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == "" {
		r.ID = income.RecordID(uuid.NewString())
	}

	// Single-primary invariant: a new primary demotes the old one.
	if r.IsPrimary {
		for id, existing := range m.records {
			if existing.HouseholdID == r.HouseholdID && existing.IsPrimary {
				existing.IsPrimary = false
				m.records[id] = existing
			}
		}
	}

	m.records[r.ID] = r
	m.order = append(m.order, r.ID)
	return r, nil
}

func (m *Memory) Update(_ context.Context, id income.RecordID, patch income.RecordPatch) (income.IncomeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return income.IncomeRecord{}, &income.RecordNotFoundError{ID: id}
	}

	updated := patch.Apply(r)
	if updated.IsPrimary && !r.IsPrimary {
		for otherID, existing := range m.records {
			if otherID != id && existing.HouseholdID == r.HouseholdID && existing.IsPrimary {
				existing.IsPrimary = false
				m.records[otherID] = existing
			}
		}
	}
	m.records[id] = updated
	return updated, nil
}

func (m *Memory) Delete(_ context.Context, id income.RecordID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return &income.RecordNotFoundError{ID: id}
	}
	delete(m.records, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	// Deleting the primary promotes the oldest remaining active record.
	if r.IsPrimary {
		for _, oid := range m.order {
			candidate := m.records[oid]
			if candidate.HouseholdID == r.HouseholdID && candidate.IsActive {
				candidate.IsPrimary = true
				m.records[oid] = candidate
				break
			}
		}
	}
	return nil
}

func (m *Memory) Get(_ context.Context, id income.RecordID) (income.IncomeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok {
		return income.IncomeRecord{}, &income.RecordNotFoundError{ID: id}
	}
	return r, nil
}

func (m *Memory) List(_ context.Context, householdID string, activeOnly bool) ([]income.IncomeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []income.IncomeRecord
	for _, id := range m.order {
		r := m.records[id]
		if r.HouseholdID != householdID {
			continue
		}
		if activeOnly && !r.IsActive {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
