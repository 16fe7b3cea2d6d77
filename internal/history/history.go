// Package history remembers the last value chosen for a key.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"combopick/internal/infra/logx"
)

const (
	appName    = "combopick"
	dbFileName = "history.db"
)

// Entry is one remembered choice.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Path returns the default database location under the XDG state dir.
func Path() (string, error) {
	return xdg.StateFile(filepath.Join(appName, dbFileName))
}

// Open opens the store at the default location.
func Open() (*Store, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("history path: %w", err)
	}
	return OpenPath(path)
}

// OpenPath opens or creates the store at path. ":memory:" is accepted.
func OpenPath(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// one connection keeps :memory: databases shared and writes serialized
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history: %w", err)
	}
	logx.Debugf("history: opened %s", path)
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS choices (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// Last returns the value remembered for key. ok is false when there is none.
func (s *Store) Last(ctx context.Context, key string) (value string, ok bool, err error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, nil
	}
	err = s.db.QueryRowContext(ctx, `SELECT value FROM choices WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("history lookup %q: %w", key, err)
	}
	return value, true, nil
}

// Remember stores value as the latest choice for key.
func (s *Store) Remember(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("history: empty key")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO choices (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("history save %q: %w", key, err)
	}
	logx.With(logx.Fields{"key": key, "value": value}).Debug("history: remembered")
	return nil
}

// Forget removes key.
func (s *Store) Forget(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM choices WHERE key = ?`, key); err != nil {
		return fmt.Errorf("history forget %q: %w", key, err)
	}
	return nil
}

// Entries lists every remembered choice, most recent first.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value, updated_at FROM choices ORDER BY updated_at DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("history list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.Key, &e.Value, &ts); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		e.UpdatedAt = time.Unix(ts, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}
