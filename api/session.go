/*
session.go - Per-household candidate sessions

PURPOSE:
  Holds the in-flight candidate set for each household while a
  conversation is open. Candidates merge turn-over-turn through the
  income engine and only touch the canonical store when the caller
  syncs; discarding a session before sync loses nothing persistent.

CONCURRENCY:
  A single RWMutex guards the session map. Sessions are small and
  short-lived; contention is not a concern at this layer.

SEE ALSO:
  - income/reconcile.go: The merge the sessions delegate to
  - handlers.go: HTTP surface over sessions
*/
package api

import (
	"sync"

	"github.com/centavo/income-engine/income"
)

// =============================================================================
// SESSION STORE
// =============================================================================

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]income.Candidate
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string][]income.Candidate)}
}

// Merge folds a turn's candidates into the household's session and
// returns the merged set.
func (s *SessionStore) Merge(householdID string, incoming []income.Candidate) []income.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := income.MergeAll(s.sessions[householdID], incoming)
	s.sessions[householdID] = merged
	return cloneCandidates(merged)
}

// Get returns the current session set.
func (s *SessionStore) Get(householdID string) []income.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCandidates(s.sessions[householdID])
}

// Clear discards a session (user retracted or finished syncing).
func (s *SessionStore) Clear(householdID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, householdID)
}

func cloneCandidates(cs []income.Candidate) []income.Candidate {
	out := make([]income.Candidate, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}
