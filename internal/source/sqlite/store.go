// Package sqlite implements the relational source adapter. Filter trees
// compile to parameterized WHERE clauses; the store is a plain SQLite
// database holding the users table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  name        TEXT NOT NULL,
  email       TEXT UNIQUE,
  region      TEXT,
  signup_date TEXT
);
`

// Store wraps the SQLite connection serving user queries.
// WAL mode allows concurrent reads while a seed is in progress.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies pragmas and
// the schema. Safe to call repeatedly.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SeedUser is one demo row for Seed.
type SeedUser struct {
	Name       string
	Email      string
	Region     string
	SignupDate string
}

// DemoUsers is the default demo data set, shared with the csv/xlsx
// fixtures so the three sources overlap.
var DemoUsers = []SeedUser{
	{Name: "Alice", Email: "alice@example.com", Region: "NA", SignupDate: "2024-12-01"},
	{Name: "Bob", Email: "bob@example.com", Region: "EU", SignupDate: "2024-12-15"},
	{Name: "Carol", Email: "carol@example.com", Region: "APAC", SignupDate: "2025-01-10"},
	{Name: "user21", Email: "user21@example.com", Region: "EU", SignupDate: "2025-01-22"},
	{Name: "user36", Email: "user36@example.com", Region: "NA", SignupDate: "2025-02-03"},
}

// Seed replaces the users table contents with the given rows. Existing
// rows are cleared first so seeding is idempotent.
func (s *Store) Seed(ctx context.Context, users []SeedUser) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM users"); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	for _, u := range users {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (name, email, region, signup_date) VALUES (?, ?, ?, ?)",
			u.Name, u.Email, u.Region, u.SignupDate)
		if err != nil {
			return fmt.Errorf("insert user %q: %w", u.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
