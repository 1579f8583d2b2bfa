// Package store persists the murmur case bank in SQLite. The bank is written
// once at startup by the import path and read-only afterwards.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jtown42/heartsoundtutorstatic/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cases (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		case_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		buzzwords TEXT NOT NULL DEFAULT '[]',
		teaching_pearl TEXT NOT NULL DEFAULT '',
		audio_ref TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS imported_files (
		path TEXT PRIMARY KEY,
		sha256 TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertCase stores a normalized case, preserving insertion order.
func (s *Store) InsertCase(c model.CaseItem) (int64, error) {
	buzz, err := json.Marshal(c.Buzzwords)
	if err != nil {
		return 0, fmt.Errorf("encode buzzwords: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO cases (case_id, title, category, buzzwords, teaching_pearl, audio_ref)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Category, string(buzz), c.TeachingPearl, c.AudioRef,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListCases returns all cases in insertion order.
func (s *Store) ListCases() ([]model.CaseItem, error) {
	rows, err := s.db.Query(
		`SELECT case_id, title, category, buzzwords, teaching_pearl, audio_ref FROM cases ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []model.CaseItem
	for rows.Next() {
		var c model.CaseItem
		var buzz string
		if err := rows.Scan(&c.ID, &c.Title, &c.Category, &buzz, &c.TeachingPearl, &c.AudioRef); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(buzz), &c.Buzzwords); err != nil {
			return nil, fmt.Errorf("decode buzzwords for %q: %w", c.ID, err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// CaseCount returns the number of cases in the bank.
func (s *Store) CaseCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM cases`).Scan(&count)
	return count, err
}

// Bank materializes the ordered read-only case bank handed to the engine.
func (s *Store) Bank() (model.CaseBank, error) {
	cases, err := s.ListCases()
	if err != nil {
		return nil, err
	}
	return model.CaseBank(cases), nil
}

// GetImportedFileHash returns the recorded content hash for a bank file, or
// "" when the file has never been imported.
func (s *Store) GetImportedFileHash(path string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT sha256 FROM imported_files WHERE path = ?`, path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// SetImportedFileHash records the content hash of an imported bank file.
func (s *Store) SetImportedFileHash(path, hash string) error {
	_, err := s.db.Exec(
		`INSERT INTO imported_files (path, sha256) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET sha256 = ?`,
		path, hash, hash,
	)
	return err
}
