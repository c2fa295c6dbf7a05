/*
Package sqlite provides a SQLite-backed implementation of loan.Store.

PURPOSE:
  Persists saved schedules. Parameters are stored in columns so schedules
  can be filtered in SQL; the records themselves are one JSON document per
  schedule since they are always read together.

KEY TABLES:
  schedules: One row per saved schedule

PRECISION:
  Capital, rate and every record value are stored as decimal strings.
  Nothing goes through REAL, so a schedule reads back exactly as it was
  computed, including high precision ones.

MIGRATION:
  Schema changes are versioned SQL files under migrations/, embedded in
  the binary and applied with golang-migrate on New().

CONCURRENCY:
  The pool is limited to one connection. SQLite serializes writers anyway,
  and an in-memory database only exists on the connection that created it.

USAGE:
  store, err := sqlite.New("./data/schedules.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  err = store.Save(ctx, loan.NewSavedSchedule(schedule))

SEE ALSO:
  - loan/store.go: Interface definition
  - loan/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/loan-schedule/loan"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout is fixed width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements loan.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates it to the
// latest schema version. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

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

// migrate applies all pending migrations.
func (s *Store) migrate() error {
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create source driver: %w", err)
	}

	// The migrate instance is not closed: closing it would close s.db.
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (uint, error) {
	var version uint
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_migrations LIMIT 1`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// =============================================================================
// SCHEDULES
// =============================================================================

// Save implements loan.Store. Saving an existing ID replaces the row.
func (s *Store) Save(ctx context.Context, saved loan.SavedSchedule) error {
	recordsJSON, err := json.Marshal(saved.Schedule.Records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	p := saved.Schedule.Params
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO schedules
			(id, method, capital, rate, periods, precision, high_precision, scale, records_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.ID,
		string(saved.Schedule.Method),
		p.Capital.String(),
		p.Rate.String(),
		p.Periods,
		p.Precision,
		p.HighPrecision,
		p.Scale,
		string(recordsJSON),
		saved.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

// Get implements loan.Store.
func (s *Store) Get(ctx context.Context, id string) (loan.SavedSchedule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, method, capital, rate, periods, precision, high_precision, scale, records_json, created_at
		FROM schedules WHERE id = ?`, id)

	saved, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return loan.SavedSchedule{}, loan.ErrScheduleNotFound
	}
	if err != nil {
		return loan.SavedSchedule{}, err
	}
	return saved, nil
}

// List implements loan.Store.
func (s *Store) List(ctx context.Context) ([]loan.SavedSchedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, method, capital, rate, periods, precision, high_precision, scale, records_json, created_at
		FROM schedules ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var result []loan.SavedSchedule
	for rows.Next() {
		saved, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, saved)
	}
	return result, rows.Err()
}

// Delete implements loan.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if n == 0 {
		return loan.ErrScheduleNotFound
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row scanner) (loan.SavedSchedule, error) {
	var (
		saved                  loan.SavedSchedule
		method, capital, rate  string
		recordsJSON, createdAt string
		p                      loan.Params
	)

	err := row.Scan(&saved.ID, &method, &capital, &rate, &p.Periods, &p.Precision,
		&p.HighPrecision, &p.Scale, &recordsJSON, &createdAt)
	if err != nil {
		return loan.SavedSchedule{}, err
	}

	if p.Capital, err = decimal.NewFromString(capital); err != nil {
		return loan.SavedSchedule{}, fmt.Errorf("schedule %s: invalid capital %q: %w", saved.ID, capital, err)
	}
	if p.Rate, err = decimal.NewFromString(rate); err != nil {
		return loan.SavedSchedule{}, fmt.Errorf("schedule %s: invalid rate %q: %w", saved.ID, rate, err)
	}

	var records []loan.Record
	if err := json.Unmarshal([]byte(recordsJSON), &records); err != nil {
		return loan.SavedSchedule{}, fmt.Errorf("schedule %s: invalid records: %w", saved.ID, err)
	}

	if saved.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return loan.SavedSchedule{}, fmt.Errorf("schedule %s: invalid created_at: %w", saved.ID, err)
	}

	saved.Schedule = loan.Schedule{
		Method:  loan.Method(method),
		Params:  p,
		Records: records,
	}
	return saved, nil
}

var _ loan.Store = (*Store)(nil)
