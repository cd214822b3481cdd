package persist

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/coachnudge/internal/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS slices (
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Slice names. Each slice is a self-contained JSON document; timestamps
// inside serialize as RFC 3339 strings and round-trip on load.
const (
	sliceSupervisees = "supervisees"
	sliceNudges      = "nudges"
	sliceSchedules   = "schedules"
	sliceCaseInfo    = "case_info"
)

// SQLite implements Gateway on a local SQLite database, one row per slice.
type SQLite struct {
	conn *sql.DB
}

var _ Gateway = (*SQLite)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("persist: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persist: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persist: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (g *SQLite) Close() error {
	return g.conn.Close()
}

func (g *SQLite) save(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("persist: marshal %s: %w", name, err)
	}
	_, err = g.conn.Exec(`
		INSERT INTO slices (name, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			data       = excluded.data,
			updated_at = excluded.updated_at
	`, name, string(data))
	if err != nil {
		return fmt.Errorf("persist: save %s: %w", name, err)
	}
	return nil
}

// load unmarshals the named slice into v. Returns false when the slice
// has never been saved.
func (g *SQLite) load(name string, v any) (bool, error) {
	var data string
	err := g.conn.QueryRow(`SELECT data FROM slices WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("persist: load %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("persist: unmarshal %s: %w", name, err)
	}
	return true, nil
}

// LoadSupervisees returns the persisted supervisee slice, empty when unset.
func (g *SQLite) LoadSupervisees() ([]domain.Supervisee, error) {
	out := []domain.Supervisee{}
	if _, err := g.load(sliceSupervisees, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveSupervisees overwrites the supervisee slice.
func (g *SQLite) SaveSupervisees(ss []domain.Supervisee) error {
	return g.save(sliceSupervisees, ss)
}

// LoadNudges returns the persisted nudge slice, empty when unset.
func (g *SQLite) LoadNudges() ([]domain.Nudge, error) {
	out := []domain.Nudge{}
	if _, err := g.load(sliceNudges, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveNudges overwrites the nudge slice.
func (g *SQLite) SaveNudges(ns []domain.Nudge) error {
	return g.save(sliceNudges, ns)
}

// LoadSchedules returns the persisted schedule slice, empty when unset.
func (g *SQLite) LoadSchedules() ([]domain.NudgeSchedule, error) {
	out := []domain.NudgeSchedule{}
	if _, err := g.load(sliceSchedules, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveSchedules overwrites the schedule slice.
func (g *SQLite) SaveSchedules(ss []domain.NudgeSchedule) error {
	return g.save(sliceSchedules, ss)
}

// LoadCaseInfo returns the persisted case info, or nil when no case is loaded.
func (g *SQLite) LoadCaseInfo() (*domain.CaseInfo, error) {
	var out domain.CaseInfo
	ok, err := g.load(sliceCaseInfo, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &out, nil
}

// SaveCaseInfo overwrites the case info slice.
func (g *SQLite) SaveCaseInfo(ci domain.CaseInfo) error {
	return g.save(sliceCaseInfo, ci)
}

// Clear removes every persisted slice.
func (g *SQLite) Clear() error {
	if _, err := g.conn.Exec(`DELETE FROM slices`); err != nil {
		return fmt.Errorf("persist: clear: %w", err)
	}
	return nil
}
