/*
scheduler.go - Nightly payment-projection refresher

PURPOSE:
  Recomputes every household's upcoming-payment snapshots from current
  records, so the dashboard's "next paydays" view reads from a cache
  instead of projecting on every request. Projections drift only as
  the calendar advances, so a nightly refresh is enough.

DESIGN:
  - robfig/cron drives the schedule ("0 3 * * *" by default)
  - Each run projects every record of every household and swaps the
    household's snapshot set atomically
  - A failed household is logged and skipped; the run continues

USAGE:
  scheduler := NewSnapshotScheduler(store)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - store/sqlite: ReplaceSnapshots / UpcomingPayments
  - income/schedule.go: The projection being cached
*/
package api

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/centavo/income-engine/income"
	"github.com/centavo/income-engine/store/sqlite"
)

// SnapshotScheduler refreshes payment-projection snapshots on a cron
// schedule.
type SnapshotScheduler struct {
	Store *sqlite.Store

	// Spec is a cron expression; defaults to 03:00 daily.
	Spec string

	// Lookahead is how many upcoming payments to cache per record.
	Lookahead int

	cron *cron.Cron
}

func NewSnapshotScheduler(store *sqlite.Store) *SnapshotScheduler {
	return &SnapshotScheduler{
		Store:     store,
		Spec:      "0 3 * * *",
		Lookahead: 6,
	}
}

// Start registers the cron job and begins the schedule.
func (s *SnapshotScheduler) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.Spec, func() { s.RefreshAll(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[scheduler] snapshot refresh scheduled: %s", s.Spec)
	return nil
}

// Stop halts the schedule, waiting for a running refresh to finish.
func (s *SnapshotScheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RefreshAll recomputes snapshots for every household. Also invoked
// once at startup so a fresh database has data before the first tick.
func (s *SnapshotScheduler) RefreshAll(ctx context.Context) {
	households, err := s.Store.Households(ctx)
	if err != nil {
		log.Printf("[scheduler] failed to list households: %v", err)
		return
	}

	today := time.Now()
	for _, householdID := range households {
		if err := s.refreshHousehold(ctx, householdID, today); err != nil {
			log.Printf("[scheduler] refresh failed for household %s: %v", householdID, err)
		}
	}
	log.Printf("[scheduler] refreshed snapshots for %d households", len(households))
}

func (s *SnapshotScheduler) refreshHousehold(ctx context.Context, householdID string, today time.Time) error {
	records, err := s.Store.List(ctx, householdID, true)
	if err != nil {
		return err
	}

	projections := make(map[income.RecordID][]income.PaymentProjection)
	for _, r := range records {
		if projs := income.ProjectRecord(today, r, s.Lookahead); len(projs) > 0 {
			projections[r.ID] = projs
		}
	}
	return s.Store.ReplaceSnapshots(ctx, householdID, projections)
}
