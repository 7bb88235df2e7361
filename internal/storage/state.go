// Package storage persists the client's local state (session identity,
// preferences and the backend session cookie) across process restarts. It is
// the localStorage/browser-cookie analog backed by SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const darkModePref = "darkMode"

type StateDB struct {
	db *sql.DB
}

func NewStateDB(dbPath string) (*StateDB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &StateDB{db: db}, nil
}

func (s *StateDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Username returns the persisted session identity. ok is false when no
// session row exists, which means logged out.
func (s *StateDB) Username(ctx context.Context) (username string, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT username FROM session WHERE id = 1`)
	if err := row.Scan(&username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read session: %w", err)
	}
	return username, true, nil
}

func (s *StateDB) SaveUsername(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, username, updated_at) VALUES (1, ?, datetime('now'))
		ON CONFLICT (id) DO UPDATE SET username = excluded.username, updated_at = excluded.updated_at`,
		username)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearSession removes the persisted identity and the stored cookies.
func (s *StateDB) ClearSession(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cookies`); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return tx.Commit()
}

// DarkMode returns the persisted theme preference, defaulting to true when
// nothing has been saved yet.
func (s *StateDB) DarkMode(ctx context.Context) (bool, error) {
	var value string
	row := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE name = ?`, darkModePref)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return true, fmt.Errorf("read preference: %w", err)
	}
	return value == "true", nil
}

func (s *StateDB) SetDarkMode(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value`,
		darkModePref, value)
	if err != nil {
		return fmt.Errorf("save preference: %w", err)
	}
	return nil
}

// SaveCookies replaces the stored cookie set with the jar's current cookies
// for the backend host. Only name/value pairs survive; the backend session
// cookie is opaque so nothing more is needed.
func (s *StateDB) SaveCookies(ctx context.Context, cookies []*http.Cookie) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save cookies: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cookies`); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	for _, c := range cookies {
		if _, err := tx.ExecContext(ctx, `INSERT INTO cookies (name, value) VALUES (?, ?)`, c.Name, c.Value); err != nil {
			return fmt.Errorf("save cookie %s: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

// Cookies returns the stored cookie set.
func (s *StateDB) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM cookies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	defer rows.Close()

	var out []*http.Cookie
	for rows.Next() {
		c := &http.Cookie{}
		if err := rows.Scan(&c.Name, &c.Value); err != nil {
			return nil, fmt.Errorf("scan cookie: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
