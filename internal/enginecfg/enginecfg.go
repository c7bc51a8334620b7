// Package enginecfg stores the configuration record for a Custom OCR
// engine (spec §4.E) in a local SQLite database. This is the only
// persistence vigil performs: the Non-goal barring persistent storage
// of frames or OCR text (spec §2) does not reach engine configuration.
package enginecfg

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Kind selects how a Custom engine record is dispatched.
type Kind string

const (
	KindSubprocess Kind = "subprocess"
	KindHTTP       Kind = "http"
)

// Record is one Custom OCR engine configuration, identified by Name.
type Record struct {
	Name      string
	Kind      Kind
	Endpoint  string // used when Kind == KindHTTP
	Command   string // used when Kind == KindSubprocess
	Args      []string
	AuthToken string
}

const schema = `
CREATE TABLE IF NOT EXISTS ocr_engine_config (
	name       TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	endpoint   TEXT NOT NULL DEFAULT '',
	command    TEXT NOT NULL DEFAULT '',
	args       TEXT NOT NULL DEFAULT '',
	auth_token TEXT NOT NULL DEFAULT ''
);
`

// Store wraps a SQLite-backed table of Custom OCR engine records.
type Store struct {
	db *sql.DB
}

// Open initializes (creating if needed) the SQLite database at path
// and applies the engine-config schema, mirroring the teacher's
// single-writer WAL configuration.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create engine config directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_mutex=noop", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open engine config db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping engine config db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply engine config schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Upsert creates or replaces the record named r.Name.
func (s *Store) Upsert(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ocr_engine_config (name, kind, endpoint, command, args, auth_token)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			kind = excluded.kind,
			endpoint = excluded.endpoint,
			command = excluded.command,
			args = excluded.args,
			auth_token = excluded.auth_token
	`, r.Name, string(r.Kind), r.Endpoint, r.Command, joinArgs(r.Args), r.AuthToken)
	if err != nil {
		return fmt.Errorf("upsert engine config %q: %w", r.Name, err)
	}
	return nil
}

// Get loads the named record. ok is false if no such record exists.
func (s *Store) Get(ctx context.Context, name string) (rec Record, ok bool, err error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, kind, endpoint, command, args, auth_token FROM ocr_engine_config WHERE name = ?`, name)

	var argsJoined string
	err = row.Scan(&rec.Name, (*string)(&rec.Kind), &rec.Endpoint, &rec.Command, &argsJoined, &rec.AuthToken)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("load engine config %q: %w", name, err)
	}
	rec.Args = splitArgs(argsJoined)
	return rec, true, nil
}

// argSeparator is a control character unlikely to appear in a CLI
// argument, used to flatten Record.Args into a single TEXT column.
const argSeparator = "\x1f"

func joinArgs(args []string) string {
	return strings.Join(args, argSeparator)
}

func splitArgs(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, argSeparator)
}
