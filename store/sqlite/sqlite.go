/*
Package sqlite provides a SQLite-backed implementation of the income
store interfaces.

PURPOSE:
  Persists canonical income records and the nightly payment-projection
  snapshots. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  income.Store: Canonical record persistence

PRIMARY INVARIANT:
  The single-active-primary rule is enforced inside database
  transactions: creating or promoting a primary demotes the old one,
  and deleting the primary promotes the oldest remaining active record,
  all in one atomic write.

KEY TABLES:
  income_records:     Canonical income sources, one row per record
  payment_snapshots:  Upcoming weekend-adjusted payment dates, refreshed
                      nightly by the API scheduler

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers, single writer, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/income.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

SEE ALSO:
  - income/store.go: Interface definition
  - income/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/centavo/income-engine/income"
)

// Store implements income.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Canonical income records
	CREATE TABLE IF NOT EXISTS income_records (
		id TEXT PRIMARY KEY,
		household_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		income_type TEXT NOT NULL,
		frequency TEXT NOT NULL,
		amount TEXT NOT NULL,
		min_amount TEXT,
		max_amount TEXT,
		is_variable BOOLEAN NOT NULL DEFAULT FALSE,
		stability TEXT NOT NULL DEFAULT 'consistent',
		base_amount TEXT NOT NULL,
		payment_pattern TEXT NOT NULL DEFAULT 'simple',
		payment_days_json TEXT NOT NULL DEFAULT '[]',
		is_primary BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		country TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_income_records_household
		ON income_records(household_id);
	CREATE INDEX IF NOT EXISTS idx_income_records_household_active
		ON income_records(household_id, is_active);

	-- At most one active primary per household (hot invariant)
	CREATE UNIQUE INDEX IF NOT EXISTS idx_income_records_primary
		ON income_records(household_id)
		WHERE is_primary AND is_active;

	-- Upcoming payment snapshots, refreshed nightly
	CREATE TABLE IF NOT EXISTS payment_snapshots (
		id TEXT PRIMARY KEY,
		household_id TEXT NOT NULL,
		record_id TEXT NOT NULL,
		anchor_day INTEGER NOT NULL,
		original_date TEXT NOT NULL,
		adjusted_date TEXT NOT NULL,
		label TEXT NOT NULL,
		computed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payment_snapshots_household
		ON payment_snapshots(household_id, adjusted_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// INCOME RECORDS (income.Store interface)
// =============================================================================

func (s *Store) Create(ctx context.Context, r income.IncomeRecord) (income.IncomeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = income.RecordID(uuid.NewString())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return income.IncomeRecord{}, err
	}
	defer tx.Rollback()

	if r.IsPrimary {
		if err := demotePrimary(ctx, tx, r.HouseholdID, ""); err != nil {
			return income.IncomeRecord{}, err
		}
	}

	daysJSON, _ := json.Marshal(paymentDaysOrEmpty(r.PaymentDays))
	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO income_records (
			id, household_id, name, description, income_type, frequency,
			amount, min_amount, max_amount, is_variable, stability,
			base_amount, payment_pattern, payment_days_json,
			is_primary, is_active, country, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), r.HouseholdID, r.Name, r.Description, string(r.Type), string(r.Frequency),
		r.Amount.String(), moneyPtr(r.MinAmount), moneyPtr(r.MaxAmount), r.IsVariable, string(r.Stability),
		r.BaseAmount.String(), string(r.PaymentPattern), string(daysJSON),
		r.IsPrimary, r.IsActive, r.Country, now, now,
	)
	if err != nil {
		return income.IncomeRecord{}, fmt.Errorf("failed to insert income record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return income.IncomeRecord{}, err
	}
	return r, nil
}

func (s *Store) Update(ctx context.Context, id income.RecordID, patch income.RecordPatch) (income.IncomeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return income.IncomeRecord{}, err
	}
	defer tx.Rollback()

	current, err := getRecord(ctx, tx, id)
	if err != nil {
		return income.IncomeRecord{}, err
	}

	updated := patch.Apply(current)
	if updated.IsPrimary && !current.IsPrimary {
		if err := demotePrimary(ctx, tx, current.HouseholdID, id); err != nil {
			return income.IncomeRecord{}, err
		}
	}

	daysJSON, _ := json.Marshal(paymentDaysOrEmpty(updated.PaymentDays))
	_, err = tx.ExecContext(ctx, `
		UPDATE income_records SET
			name = ?, description = ?, income_type = ?, frequency = ?,
			amount = ?, min_amount = ?, max_amount = ?, is_variable = ?,
			stability = ?, base_amount = ?, payment_pattern = ?,
			payment_days_json = ?, is_primary = ?, is_active = ?,
			updated_at = ?
		WHERE id = ?`,
		updated.Name, updated.Description, string(updated.Type), string(updated.Frequency),
		updated.Amount.String(), moneyPtr(updated.MinAmount), moneyPtr(updated.MaxAmount), updated.IsVariable,
		string(updated.Stability), updated.BaseAmount.String(), string(updated.PaymentPattern),
		string(daysJSON), updated.IsPrimary, updated.IsActive,
		time.Now().UTC().Format(time.RFC3339), string(id),
	)
	if err != nil {
		return income.IncomeRecord{}, fmt.Errorf("failed to update income record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return income.IncomeRecord{}, err
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id income.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	current, err := getRecord(ctx, tx, id)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM income_records WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("failed to delete income record: %w", err)
	}

	// Promote the oldest remaining active record when the primary goes.
	// rowid is monotonic per insert; created_at only has second
	// resolution, which ties under fast successive writes.
	if current.IsPrimary {
		_, err = tx.ExecContext(ctx, `
			UPDATE income_records SET is_primary = TRUE, updated_at = ?
			WHERE id = (
				SELECT id FROM income_records
				WHERE household_id = ? AND is_active
				ORDER BY rowid
				LIMIT 1
			)`,
			time.Now().UTC().Format(time.RFC3339), current.HouseholdID,
		)
		if err != nil {
			return fmt.Errorf("failed to promote new primary: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) Get(ctx context.Context, id income.RecordID) (income.IncomeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRecord(ctx, s.db, id)
}

func (s *Store) List(ctx context.Context, householdID string, activeOnly bool) ([]income.IncomeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, household_id, name, description, income_type, frequency,
		       amount, min_amount, max_amount, is_variable, stability,
		       base_amount, payment_pattern, payment_days_json,
		       is_primary, is_active, country
		FROM income_records
		WHERE household_id = ?`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []income.IncomeRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// PAYMENT SNAPSHOTS - Nightly projection cache for the dashboard
// =============================================================================

// ReplaceSnapshots atomically swaps a household's upcoming-payment
// snapshot set. Called by the API scheduler after recomputing
// projections from current records.
func (s *Store) ReplaceSnapshots(ctx context.Context, householdID string, projections map[income.RecordID][]income.PaymentProjection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payment_snapshots WHERE household_id = ?`, householdID); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for recordID, projs := range projections {
		for _, p := range projs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO payment_snapshots (
					id, household_id, record_id, anchor_day,
					original_date, adjusted_date, label, computed_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), householdID, string(recordID), p.Anchor,
				p.Original.Format("2006-01-02"), p.Adjusted.Format("2006-01-02"), p.Label, now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert payment snapshot: %w", err)
			}
		}
	}
	return tx.Commit()
}

// UpcomingPayment is one cached projection row.
type UpcomingPayment struct {
	RecordID income.RecordID
	Anchor   int
	Original time.Time
	Adjusted time.Time
	Label    string
}

// UpcomingPayments returns a household's cached projections ordered by
// adjusted date.
func (s *Store) UpcomingPayments(ctx context.Context, householdID string) ([]UpcomingPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT record_id, anchor_day, original_date, adjusted_date, label
		FROM payment_snapshots
		WHERE household_id = ?
		ORDER BY adjusted_date, anchor_day`, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UpcomingPayment
	for rows.Next() {
		var (
			p                  UpcomingPayment
			recordID, org, adj string
		)
		if err := rows.Scan(&recordID, &p.Anchor, &org, &adj, &p.Label); err != nil {
			return nil, err
		}
		p.RecordID = income.RecordID(recordID)
		p.Original, _ = time.Parse("2006-01-02", org)
		p.Adjusted, _ = time.Parse("2006-01-02", adj)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Households lists distinct household ids with at least one record.
func (s *Store) Households(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT household_id FROM income_records`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func demotePrimary(ctx context.Context, db execer, householdID string, except income.RecordID) error {
	_, err := db.ExecContext(ctx, `
		UPDATE income_records SET is_primary = FALSE
		WHERE household_id = ? AND is_primary AND id != ?`,
		householdID, string(except),
	)
	return err
}

func getRecord(ctx context.Context, db querier, id income.RecordID) (income.IncomeRecord, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, household_id, name, description, income_type, frequency,
		       amount, min_amount, max_amount, is_variable, stability,
		       base_amount, payment_pattern, payment_days_json,
		       is_primary, is_active, country
		FROM income_records WHERE id = ?`, string(id))

	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return income.IncomeRecord{}, &income.RecordNotFoundError{ID: id}
	}
	return r, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (income.IncomeRecord, error) {
	var (
		r                            income.IncomeRecord
		id, typ, freq, stab, pattern string
		amount, baseAmount, daysJSON string
		minAmount, maxAmount         sql.NullString
	)
	err := row.Scan(
		&id, &r.HouseholdID, &r.Name, &r.Description, &typ, &freq,
		&amount, &minAmount, &maxAmount, &r.IsVariable, &stab,
		&baseAmount, &pattern, &daysJSON,
		&r.IsPrimary, &r.IsActive, &r.Country,
	)
	if err != nil {
		return income.IncomeRecord{}, err
	}

	r.ID = income.RecordID(id)
	r.Type = income.IncomeType(typ)
	r.Frequency = income.Frequency(freq)
	r.Stability = income.StabilityPattern(stab)
	r.PaymentPattern = income.PaymentPattern(pattern)
	r.Amount = income.MustParseMoney(amount)
	r.BaseAmount = income.MustParseMoney(baseAmount)
	if minAmount.Valid {
		m := income.MustParseMoney(minAmount.String)
		r.MinAmount = &m
	}
	if maxAmount.Valid {
		m := income.MustParseMoney(maxAmount.String)
		r.MaxAmount = &m
	}
	if err := json.Unmarshal([]byte(daysJSON), &r.PaymentDays); err != nil {
		return income.IncomeRecord{}, fmt.Errorf("corrupt payment days for %s: %w", id, err)
	}
	if len(r.PaymentDays) == 0 {
		r.PaymentDays = nil
	}
	return r, nil
}

func moneyPtr(m *income.Money) any {
	if m == nil {
		return nil
	}
	return m.String()
}

func paymentDaysOrEmpty(days []int) []int {
	if days == nil {
		return []int{}
	}
	return days
}
