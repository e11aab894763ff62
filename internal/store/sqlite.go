package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formbind/internal/people"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS people (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	id        TEXT NOT NULL UNIQUE,
	version   INTEGER NOT NULL,
	email_key TEXT NOT NULL UNIQUE,
	data      TEXT NOT NULL
)`

// SQLite is a Repository stored in a single SQLite table. Each person is kept
// as a JSON document next to the columns needed for locking and uniqueness.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens dsn with the pure Go sqlite driver and creates the table
// when missing. An empty dsn opens a private in-memory database.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// one connection keeps in-memory databases alive and serialises writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, p people.Person) (saved people.Person, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return people.Person{}, fmt.Errorf("store: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	key := emailKey(p.Email)
	var owner string
	switch err := tx.QueryRowContext(ctx, `SELECT id FROM people WHERE email_key = ?`, key).Scan(&owner); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return people.Person{}, fmt.Errorf("store: lookup email: %w", err)
	case owner != p.ID:
		return people.Person{}, duplicateEmail()
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
		p.Version = 1
		data, err := json.Marshal(p)
		if err != nil {
			return people.Person{}, fmt.Errorf("store: encode %s: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO people (id, version, email_key, data) VALUES (?, ?, ?, ?)`,
			p.ID, p.Version, key, string(data)); err != nil {
			return people.Person{}, fmt.Errorf("store: insert %s: %w", p.ID, err)
		}
	} else {
		expected := p.Version
		p.Version++
		data, err := json.Marshal(p)
		if err != nil {
			return people.Person{}, fmt.Errorf("store: encode %s: %w", p.ID, err)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE people SET version = ?, email_key = ?, data = ? WHERE id = ? AND version = ?`,
			p.Version, key, string(data), p.ID, expected)
		if err != nil {
			return people.Person{}, fmt.Errorf("store: update %s: %w", p.ID, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return people.Person{}, fmt.Errorf("store: update %s: %w", p.ID, err)
		} else if n == 0 {
			return people.Person{}, s.missedUpdate(ctx, tx, p.ID, expected)
		}
	}

	if err := tx.Commit(); err != nil {
		return people.Person{}, fmt.Errorf("store: commit %s: %w", p.ID, err)
	}
	return p, nil
}

func (s *SQLite) missedUpdate(ctx context.Context, tx *sql.Tx, id string, expected int) error {
	var current int
	err := tx.QueryRowContext(ctx, `SELECT version FROM people WHERE id = ?`, id).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	case err != nil:
		return fmt.Errorf("store: lookup %s: %w", id, err)
	default:
		return fmt.Errorf("%w: %s is at version %d, got %d", ErrStale, id, current, expected)
	}
}

func (s *SQLite) FindByID(ctx context.Context, id string) (people.Person, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM people WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return people.Person{}, false, nil
	}
	if err != nil {
		return people.Person{}, false, fmt.Errorf("store: find %s: %w", id, err)
	}
	var p people.Person
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return people.Person{}, false, fmt.Errorf("store: decode %s: %w", id, err)
	}
	return p, true, nil
}

func (s *SQLite) List(ctx context.Context) ([]people.Person, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM people ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []people.Person
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		var p people.Person
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
