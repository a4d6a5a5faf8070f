package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Keys mirror the browser storage entries of the original console.
const (
	sessionKeyLogin  = "royal-fox-admin-login"
	sessionKeyAPIURL = "royal-fox-admin-api-url"
)

// SessionStore persists the two pieces of session state that survive
// restarts: the login flag and the configured API base URL. There is no
// clear operation; logout is session-local and leaves the store untouched.
type SessionStore struct {
	db *sql.DB
}

// OpenSessionStore opens (or creates) the SQLite-backed store at path.
func OpenSessionStore(path string) (*SessionStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate session store: %w", err)
	}

	return &SessionStore{db: db}, nil
}

// Load reads the persisted session state. Absence of either value yields
// defaults: not logged in, no URL override.
func (s *SessionStore) Load(ctx context.Context) (loggedIn bool, apiBaseURL string, err error) {
	login, err := s.get(ctx, sessionKeyLogin)
	if err != nil {
		return false, "", err
	}
	url, err := s.get(ctx, sessionKeyAPIURL)
	if err != nil {
		return false, "", err
	}
	return login == "true", url, nil
}

// Save marks the session as logged in against the given API base URL,
// overwriting any prior values.
func (s *SessionStore) Save(ctx context.Context, apiBaseURL string) error {
	if err := s.set(ctx, sessionKeyLogin, "true"); err != nil {
		return err
	}
	return s.set(ctx, sessionKeyAPIURL, apiBaseURL)
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}

func (s *SessionStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *SessionStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
