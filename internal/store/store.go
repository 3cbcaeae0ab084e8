package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// Store is a handle on the monitoring database written by the workflow
// engine. It is read-only apart from one-time view provisioning, holds a
// single connection for the lifetime of one report and serializes all
// queries through it.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open connects to the monitoring database file. The engine may be writing
// to the file concurrently, so the connection waits up to lockTimeout for a
// writer's lock before giving up with a StoreUnavailableError.
func Open(path string, lockTimeout time.Duration) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &StoreUnavailableError{Path: path, Err: err}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", path, lockTimeout.Milliseconds())
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, &StoreUnavailableError{Path: path, Err: err}
	}

	// One report, one connection, no concurrent queries.
	db.SetMaxOpenConns(1)

	return &Store{db: db, path: path}, nil
}

// NewWithDB wraps an already-open database handle. Used by tests seeding
// in-memory databases.
func NewWithDB(db *sqlx.DB, path string) *Store {
	return &Store{db: db, path: path}
}

// Path returns the database file path this store was opened with.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Select runs a read-only query and scans the result set into dest, which
// must be a pointer to a slice of db-tagged structs.
func (s *Store) Select(ctx context.Context, dest any, query string, args ...any) error {
	log.Debug().Str("sql", query).Msg("store select")
	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		return &QueryError{Query: query, Err: err}
	}
	return nil
}

// Get runs a read-only query expected to yield exactly one row.
func (s *Store) Get(ctx context.Context, dest any, query string, args ...any) error {
	log.Debug().Str("sql", query).Msg("store get")
	if err := s.db.GetContext(ctx, dest, query, args...); err != nil {
		return &QueryError{Query: query, Err: err}
	}
	return nil
}

// Query runs a read-only query and returns the column names alongside the
// raw rows, for result sets whose shape is not known ahead of time (schema
// dumps, view listings).
func (s *Store) Query(ctx context.Context, query string, args ...any) ([]string, [][]any, error) {
	log.Debug().Str("sql", query).Msg("store query")

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, nil, &QueryError{Query: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, &QueryError{Query: query, Err: err}
	}

	var out [][]any
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return nil, nil, &QueryError{Query: query, Err: err}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, &QueryError{Query: query, Err: err}
	}

	return cols, out, nil
}

// ExecDDL executes a schema statement. Only view provisioning goes through
// here; everything else the store does is a read.
func (s *Store) ExecDDL(ctx context.Context, stmt string) error {
	log.Debug().Str("sql", stmt).Msg("store ddl")
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return &QueryError{Query: stmt, Err: err}
	}
	return nil
}

// SchemaList returns the names of all objects of the given kind ("table" or
// "view") present in the database.
func (s *Store) SchemaList(ctx context.Context, kind string) ([]string, error) {
	var names []string
	err := s.Select(ctx, &names, "SELECT name FROM sqlite_master WHERE type = ? ORDER BY name", kind)
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Schema returns the creation SQL for one named schema object.
func (s *Store) Schema(ctx context.Context, kind, name string) (string, error) {
	var ddl string
	err := s.Get(ctx, &ddl, "SELECT sql FROM sqlite_master WHERE type = ? AND name = ?", kind, name)
	if err != nil {
		return "", err
	}
	return ddl, nil
}
