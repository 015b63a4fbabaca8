package devserver

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/idilsaglam/todoapp/internal/model"
)

var (
	ErrNotFound           = errors.New("the conditional request failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

const sessionTTL = 24 * time.Hour

// Store keeps todos, users and sessions in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens (and migrates) the database at path. ":memory:" gives a
// private in-memory database.
func OpenStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection: an in-memory database only lives on its connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}
	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS todos (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token      TEXT PRIMARY KEY,
		username   TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		expires_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) timestamp() (time.Time, string) {
	t := s.now().UTC()
	return t, t.Format(time.RFC3339Nano)
}

func scanTodo(sc interface{ Scan(...any) error }) (model.Item, error) {
	var (
		it               model.Item
		created, updated string
	)
	if err := sc.Scan(&it.ID, &it.Name, &it.Description, &created, &updated); err != nil {
		return model.Item{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		it.CreatedAt = &t
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		it.UpdatedAt = &t
	}
	return it, nil
}

// ListTodos returns every todo in insertion order.
func (s *Store) ListTodos() ([]model.Item, error) {
	rows, err := s.db.Query(`SELECT id, name, description, created_at, updated_at FROM todos ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) getTodo(id string) (model.Item, error) {
	row := s.db.QueryRow(`SELECT id, name, description, created_at, updated_at FROM todos WHERE id = ?`, id)
	it, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, ErrNotFound
	}
	return it, err
}

// CreateTodo inserts item, assigning an id when it has none.
func (s *Store) CreateTodo(item model.Item) (model.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return model.Item{}, fmt.Errorf("name is required")
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	_, ts := s.timestamp()
	if _, err := s.db.Exec(`INSERT INTO todos (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Description, ts, ts); err != nil {
		return model.Item{}, fmt.Errorf("insert todo: %w", err)
	}
	return s.getTodo(item.ID)
}

// UpdateTodo overwrites name and description of an existing todo.
func (s *Store) UpdateTodo(item model.Item) (model.Item, error) {
	_, ts := s.timestamp()
	res, err := s.db.Exec(`UPDATE todos SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		item.Name, item.Description, ts, item.ID)
	if err != nil {
		return model.Item{}, fmt.Errorf("update todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Item{}, ErrNotFound
	}
	return s.getTodo(item.ID)
}

// DeleteTodo removes the todo with id and returns it.
func (s *Store) DeleteTodo(id string) (model.Item, error) {
	it, err := s.getTodo(id)
	if err != nil {
		return model.Item{}, err
	}
	if _, err := s.db.Exec(`DELETE FROM todos WHERE id = ?`, id); err != nil {
		return model.Item{}, fmt.Errorf("delete todo: %w", err)
	}
	return it, nil
}

// AddUser creates or replaces a user with a bcrypt-hashed password.
func (s *Store) AddUser(username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO users (username, password_hash) VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash`, username, string(hash))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Login checks the password and opens a session.
func (s *Store) Login(username, password string) (token string, expires time.Time, err error) {
	var hash string
	err = s.db.QueryRow(`SELECT password_hash FROM users WHERE username = ?`, username).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("query user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("token: %w", err)
	}
	token = hex.EncodeToString(buf)
	now, _ := s.timestamp()
	expires = now.Add(sessionTTL)
	if _, err := s.db.Exec(`INSERT INTO sessions (token, username, expires_at) VALUES (?, ?, ?)`,
		token, username, expires.Format(time.RFC3339Nano)); err != nil {
		return "", time.Time{}, fmt.Errorf("insert session: %w", err)
	}
	return token, expires, nil
}

// SessionUser returns the user owning a live session token.
func (s *Store) SessionUser(token string) (string, error) {
	var username, expires string
	err := s.db.QueryRow(`SELECT username, expires_at FROM sessions WHERE token = ?`, token).Scan(&username, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("query session: %w", err)
	}
	exp, err := time.Parse(time.RFC3339Nano, expires)
	if err != nil || s.now().After(exp) {
		return "", ErrUnauthorized
	}
	return username, nil
}
