// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store indexes parsed resumes in SQLite so they can be searched
// by section content and exported.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/resume2json/pkg/types"
)

const defaultMaxResults = 20

// ErrNotFound is returned when a resume ID is not in the store.
var ErrNotFound = errors.New("resume not found")

// Store manages the resume index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Entry is one stored resume.
type Entry struct {
	ID        string          `json:"id" yaml:"id"`
	SourcePDF string          `json:"source_pdf" yaml:"source_pdf"`
	Name      string          `json:"name" yaml:"name"`
	Phone     string          `json:"phone" yaml:"phone"`
	Email     string          `json:"email" yaml:"email"`
	Address   string          `json:"address" yaml:"address"`
	ParsedAt  time.Time       `json:"parsed_at" yaml:"parsed_at"`
	Document  json.RawMessage `json:"document" yaml:"-"`
}

// Open opens or creates the database at cfg.DBPath, creating its parent
// directory and schema if needed.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1) // one writer; batch conversions index concurrently

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resumes (
			id TEXT PRIMARY KEY,
			source_pdf TEXT NOT NULL UNIQUE,
			name TEXT,
			phone TEXT,
			email TEXT,
			address TEXT,
			document TEXT NOT NULL,
			parsed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			resume_id TEXT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			heading TEXT NOT NULL,
			kind TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (resume_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_heading ON sections(heading)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores rec as the parse of sourcePDF. Saving the same source again
// keeps its ID and replaces its identity fields and sections. It returns
// the resume ID.
func (s *Store) Save(ctx context.Context, sourcePDF string, rec types.Record) (string, error) {
	doc, err := compactJSON(rec)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	parsedAt := time.Now().UTC().Format(time.RFC3339Nano)

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM resumes WHERE source_pdf = ?`, sourcePDF).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO resumes (id, source_pdf, name, phone, email, address, document, parsed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, sourcePDF, rec.Name, rec.Phone, rec.Email, rec.Address, string(doc), parsedAt,
		)
		if err != nil {
			return "", fmt.Errorf("inserting resume: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("looking up %s: %w", sourcePDF, err)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE resumes SET name = ?, phone = ?, email = ?, address = ?, document = ?, parsed_at = ?
			 WHERE id = ?`,
			rec.Name, rec.Phone, rec.Email, rec.Address, string(doc), parsedAt, id,
		)
		if err != nil {
			return "", fmt.Errorf("updating resume: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE resume_id = ?`, id); err != nil {
		return "", fmt.Errorf("deleting old sections: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (resume_id, position, heading, kind, content) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, sec := range rec.Sections {
		if _, err := stmt.ExecContext(ctx, id, i, sec.Heading, string(sec.Kind), sec.Text()); err != nil {
			return "", fmt.Errorf("inserting section %q: %w", sec.Heading, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return id, nil
}

// Get returns the resume with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_pdf, name, phone, email, address, document, parsed_at
		 FROM resumes WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return e, err
}

// List returns all stored resumes ordered by name and source path.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_pdf, name, phone, email, address, document, parsed_at
		 FROM resumes ORDER BY name, source_pdf`)
	if err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e        Entry
		name     sql.NullString
		phone    sql.NullString
		email    sql.NullString
		address  sql.NullString
		doc      string
		parsedAt string
	)
	if err := row.Scan(&e.ID, &e.SourcePDF, &name, &phone, &email, &address, &doc, &parsedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scanning resume: %w", err)
	}
	e.Name, e.Phone, e.Email, e.Address = name.String, phone.String, email.String, address.String
	e.Document = json.RawMessage(doc)
	if t, err := time.Parse(time.RFC3339Nano, parsedAt); err == nil {
		e.ParsedAt = t
	}
	return e, nil
}

func compactJSON(rec types.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
