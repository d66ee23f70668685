// Package sqlite implements the Local Store on SQLite.
//
// Each collection is a table of (seq, id, data) rows where data is the JSON
// document. seq preserves first-insert order, which is the store iteration
// order returned by GetAll.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/keep/pkg/core"
)

// SchemaVersion is the only schema this package knows how to open.
const SchemaVersion = 1

// DefaultFile is the database file name inside a data directory.
const DefaultFile = "keep.db"

// Store implements core.Store backed by a database/sql handle.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the database file at path.
// Initialize must be called before use.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create data directory: %v", core.ErrStorage, err)
	}
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", core.ErrStorage, path, err)
	}
	// A single connection serializes writers; SQLite allows one at a time anyway.
	db.SetMaxOpenConns(1)

	s := NewWithDB(db, logger)
	s.path = path
	return s, nil
}

// NewWithDB wraps an existing handle.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

func table(c core.Collection) (string, error) {
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown collection %q", core.ErrStorage, c)
	}
	return string(c), nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", core.ErrStorage, op, err)
}

// Initialize creates the three collections on first open and stamps the
// schema version. Re-running it is a no-op.
func (s *Store) Initialize(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return storageErr("read schema version", err)
	}
	if version > SchemaVersion {
		return fmt.Errorf("%w: schema version %d is newer than supported %d", core.ErrStorage, version, SchemaVersion)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin init", err)
	}
	defer tx.Rollback()

	for _, c := range core.Collections {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	seq  INTEGER PRIMARY KEY AUTOINCREMENT,
	id   TEXT NOT NULL UNIQUE,
	data TEXT NOT NULL
)`, c)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return storageErr("create "+string(c), err)
		}
	}
	if version == 0 {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return storageErr("stamp schema version", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit init", err)
	}

	s.logger.Debug("local store initialized", "path", s.path, "version", SchemaVersion)
	return nil
}

// GetAll returns every record ordered by first insertion.
func (s *Store) GetAll(ctx context.Context, c core.Collection) ([]core.Record, error) {
	t, err := table(c)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id, data FROM "+t+" ORDER BY seq")
	if err != nil {
		return nil, storageErr("list "+t, err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var rec core.Record
		var data string
		if err := rows.Scan(&rec.ID, &data); err != nil {
			return nil, storageErr("scan "+t, err)
		}
		rec.Data = []byte(data)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list "+t, err)
	}
	return out, nil
}

// Get returns one record or core.ErrNotFound.
func (s *Store) Get(ctx context.Context, c core.Collection, id string) (core.Record, error) {
	t, err := table(c)
	if err != nil {
		return core.Record{}, err
	}
	var data string
	err = s.db.QueryRowContext(ctx, "SELECT data FROM "+t+" WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, core.ErrNotFound
	}
	if err != nil {
		return core.Record{}, storageErr("get "+t+"/"+id, err)
	}
	return core.Record{ID: id, Data: []byte(data)}, nil
}

// Put inserts or replaces a record in a single statement.
func (s *Store) Put(ctx context.Context, c core.Collection, rec core.Record) error {
	t, err := table(c)
	if err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("%w: record has no id", core.ErrValidation)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO "+t+" (id, data) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data",
		rec.ID, string(rec.Data))
	if err != nil {
		return storageErr("put "+t+"/"+rec.ID, err)
	}
	return nil
}

// Delete removes a record. Absent ids are not an error.
func (s *Store) Delete(ctx context.Context, c core.Collection, id string) error {
	t, err := table(c)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+t+" WHERE id = ?", id); err != nil {
		return storageErr("delete "+t+"/"+id, err)
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string `json:"path"`
	SchemaVersion int    `json:"schema_version"`
	OpenConns     int    `json:"open_connections"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		Path:          s.path,
		SchemaVersion: SchemaVersion,
		OpenConns:     s.db.Stats().OpenConnections,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string { return "sqlite-store" }

var _ core.Store = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
