package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (six shop tables + indexes)
const currentSchemaVersion = 1

// Store is the storage collaborator for the shop registry. All SQL issued
// through it is parameterized; callers never concatenate operator input into
// statement text.
//
// Uses SQLite with WAL mode. The shop tool assumes a single interactive
// session, so the connection pool is pinned to one writer.
type Store struct {
	db *sql.DB
}

// Querier is the subset of Store operations the registry and workflow layers
// depend on. Both *Store and *Tx satisfy it, so the same code path runs
// standalone or inside a transaction.
type Querier interface {
	ExecUpdate(ctx context.Context, stmt string, args ...any) error
	QueryRows(ctx context.Context, stmt string, args ...any) ([][]string, error)
	CurrentMax(ctx context.Context, table, idColumn string) (int, error)
}

// StorageError wraps a failure from the underlying database. Callers match
// it with errors.As; Op names the failed operation for diagnostics.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// Open creates or opens the shop database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent read access
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ExecUpdate applies a single insert/update statement with the given
// parameters. Returns a StorageError on failure.
func (s *Store) ExecUpdate(ctx context.Context, stmt string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return &StorageError{Op: "exec update", Err: err}
	}
	return nil
}

// QueryRows runs a SELECT and returns every row with all columns rendered as
// strings, in result-set order. An empty result is a nil slice, not an error.
func (s *Store) QueryRows(ctx context.Context, stmt string, args ...any) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	defer rows.Close()
	return scanAllStrings(rows)
}

// CurrentMax returns the maximum value of idColumn in table, or 0 when the
// table is empty. It backs the "current max + 1" identifier allocation rule.
//
// Table and column names cannot be bound as parameters; they must come from
// compile-time constants and are checked against a strict identifier pattern
// before interpolation.
func (s *Store) CurrentMax(ctx context.Context, table, idColumn string) (int, error) {
	return currentMax(ctx, s.db, table, idColumn)
}

// WithTx runs fn inside a single transaction, committing on nil return and
// rolling back otherwise. Multi-insert units (car + ownership, allocate +
// insert) go through here so they land atomically or not at all.
func (s *Store) WithTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "begin transaction", Err: err}
	}
	if err := fn(&Tx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return &StorageError{Op: "rollback", Err: rbErr}
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "commit", Err: err}
	}
	return nil
}

// Tx is a Querier bound to an open transaction. Created by WithTx.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) ExecUpdate(ctx context.Context, stmt string, args ...any) error {
	if _, err := t.tx.ExecContext(ctx, stmt, args...); err != nil {
		return &StorageError{Op: "exec update", Err: err}
	}
	return nil
}

func (t *Tx) QueryRows(ctx context.Context, stmt string, args ...any) ([][]string, error) {
	rows, err := t.tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	defer rows.Close()
	return scanAllStrings(rows)
}

func (t *Tx) CurrentMax(ctx context.Context, table, idColumn string) (int, error) {
	return currentMax(ctx, t.tx, table, idColumn)
}

// execer abstracts *sql.DB and *sql.Tx for the shared helpers below.
type execer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func currentMax(ctx context.Context, db execer, table, idColumn string) (int, error) {
	if !identPattern.MatchString(table) || !identPattern.MatchString(idColumn) {
		return 0, &StorageError{Op: "current max", Err: fmt.Errorf("invalid identifier %q.%q", table, idColumn)}
	}
	stmt := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", idColumn, table)
	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return 0, &StorageError{Op: "current max", Err: err}
	}
	defer rows.Close()

	var max int
	if rows.Next() {
		if err := rows.Scan(&max); err != nil {
			return 0, &StorageError{Op: "current max", Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return 0, &StorageError{Op: "current max", Err: err}
	}
	return max, nil
}

// scanAllStrings drains rows into [][]string. NULL columns render as "".
func scanAllStrings(rows *sql.Rows) ([][]string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, &StorageError{Op: "columns", Err: err}
	}

	var out [][]string
	for rows.Next() {
		raw := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &StorageError{Op: "scan", Err: err}
		}
		record := make([]string, len(cols))
		for i, v := range raw {
			if v.Valid {
				record[i] = v.String
			}
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "iterate", Err: err}
	}
	return out, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}
