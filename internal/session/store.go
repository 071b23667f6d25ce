package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/caremate-dev/caremate/internal/api"
)

// Fixed keys in the persisted key-value table.
const (
	keyToken = "token"
	keyRole  = "role"
)

// Store holds the current session and mirrors token/role changes into SQLite
// on every mutation (write-through). It implements api.Credentials, so the
// HTTP client reads the token from here and clears it on a 401.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	user    *User
	token   string
	role    string
	lastErr string
	client  *api.Client
}

// NewStore opens the SQLite database at dbPath, creates the table if it does
// not exist, and loads any persisted token/role (cold start).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	s := &Store{db: db}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Bind attaches the API client used by Login and Register. The client is
// constructed after the store (it needs the store as its credential source),
// so the wiring happens in two steps at process start.
func (s *Store) Bind(client *api.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS credentials (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT key, value FROM credentials`)
	if err != nil {
		return fmt.Errorf("query credentials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan credential: %w", err)
		}
		switch key {
		case keyToken:
			s.token = value
		case keyRole:
			s.role = value
		}
	}
	return rows.Err()
}

func (s *Store) persist(key, value string) error {
	if value == "" {
		_, err := s.db.Exec(`DELETE FROM credentials WHERE key = ?`, key)
		if err != nil {
			return fmt.Errorf("delete credential: %w", err)
		}
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO credentials (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

// Login posts credentials and, on success, stores user, token and role.
// On failure the store records a human-readable message ("Login failed"
// fallback) and returns the error.
func (s *Store) Login(ctx context.Context, creds Credentials) (*User, error) {
	s.mu.Lock()
	client := s.client
	s.lastErr = ""
	s.mu.Unlock()

	var resp authResponse
	if err := client.Post(ctx, "/auth/login", creds, &resp); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Login failed")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = resp.User
	s.token = resp.Token
	if resp.User != nil {
		s.role = resp.User.UserType
	}
	if err := s.persist(keyToken, s.token); err != nil {
		return nil, err
	}
	if err := s.persist(keyRole, s.role); err != nil {
		return nil, err
	}

	return resp.User, nil
}

// Register posts registration data. The server payload is returned without
// starting a session; callers log in afterwards.
func (s *Store) Register(ctx context.Context, data Registration) (*User, error) {
	s.mu.Lock()
	client := s.client
	s.lastErr = ""
	s.mu.Unlock()

	var resp authResponse
	if err := client.Post(ctx, "/auth/register", data, &resp); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Registration failed")
		s.mu.Unlock()
		return nil, err
	}

	return resp.User, nil
}

// Logout clears user, token and role locally. No server call.
func (s *Store) Logout() error {
	return s.Clear()
}

// Clear wipes the in-memory session and the persisted token/role. Used by
// Logout and by the HTTP client's 401 handling.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.role = ""
	if err := s.persist(keyToken, ""); err != nil {
		return err
	}
	return s.persist(keyRole, "")
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// CurrentUser returns the logged-in user, nil when only a persisted token is
// known (cold start before any authenticated call).
func (s *Store) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Role returns the persisted user role ("caregiver", "client", ...).
func (s *Store) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// LastError returns the most recent auth failure message, empty when the last
// operation succeeded.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
