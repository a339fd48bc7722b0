// Package store records scan history in a sqlite database under the
// workspace directory.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // sqlite driver for database/sql

	"github.com/mehmetkoksal-w/resilience-theater/internal/report"
	"github.com/mehmetkoksal-w/resilience-theater/internal/verdict"
)

// ErrNotFound reports that no stored scan matches the given id.
var ErrNotFound = errors.New("scan not found")

// Store is a handle on the history database.
type Store struct {
	db *sql.DB
}

// Entry is one row of scan history.
type Entry struct {
	ScanID       string
	Root         string
	CreatedAt    time.Time
	FilesScanned int
	Detected     int
	Correct      int
	TheaterRatio float64
	Verdict      verdict.Verdict
	Complexity   float64
}

// Open opens the history database at path, creating it and applying
// pending migrations as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %s: %w", p, err)
		}
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

const schemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// historyMigrations is the ordered list of schema migrations, applied
// starting from version 0. Never modify an existing migration, only
// append new ones.
var historyMigrations = []func(*sql.Tx) error{
	// Migration 0: initial schema
	migrateV0,
}

func migrateV0(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scans (
            id TEXT PRIMARY KEY,
            root TEXT NOT NULL,
            created_at TEXT NOT NULL,
            files_scanned INTEGER NOT NULL,
            patterns_detected INTEGER NOT NULL,
            patterns_correct INTEGER NOT NULL,
            theater_ratio REAL,
            verdict TEXT NOT NULL,
            complexity REAL NOT NULL,
            report_json TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaVersionTable); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var current int
	row := db.QueryRow("SELECT COALESCE(MAX(version), -1) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	for i := current + 1; i < len(historyMigrations); i++ {
		if err := runMigration(db, i); err != nil {
			return fmt.Errorf("run migration %d: %w", i, err)
		}
	}
	return nil
}

func runMigration(db *sql.DB, version int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := historyMigrations[version](tx); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)", version, now); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion() (int, error) {
	var version int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), -1) FROM schema_version")
	err := row.Scan(&version)
	return version, err
}

// SaveScan records a finished scan together with its full report
// body. An undefined theater ratio is stored as NULL; sqlite REAL has
// no infinity either.
func (s *Store) SaveScan(rep *report.DetectionReport) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	var ratio any
	if !math.IsInf(rep.Metrics.TheaterRatio, 0) {
		ratio = rep.Metrics.TheaterRatio
	}
	_, err = s.db.Exec(`INSERT INTO scans(id, root, created_at, files_scanned, patterns_detected, patterns_correct, theater_ratio, verdict, complexity, report_json)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		rep.ScanID,
		rep.Root,
		rep.GeneratedAt.UTC().Format(time.RFC3339),
		rep.FilesScanned,
		rep.Metrics.PatternsDetected,
		rep.Metrics.PatternsCorrect,
		ratio,
		string(rep.Verdict),
		rep.Complexity.Score,
		string(body))
	if err != nil {
		return fmt.Errorf("insert scan %s: %w", rep.ScanID, err)
	}
	return nil
}

// List returns the most recent scans, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT id, root, created_at, files_scanned, patterns_detected, patterns_correct, theater_ratio, verdict, complexity
        FROM scans ORDER BY created_at DESC, rowid DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			created string
			ratio   sql.NullFloat64
			vstr    string
		)
		if err := rows.Scan(&e.ScanID, &e.Root, &created, &e.FilesScanned, &e.Detected, &e.Correct, &ratio, &vstr, &e.Complexity); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", e.ScanID, err)
		}
		e.CreatedAt = t
		e.Verdict = verdict.Verdict(vstr)
		switch {
		case ratio.Valid:
			e.TheaterRatio = ratio.Float64
		case e.Detected > 0:
			e.TheaterRatio = math.Inf(1)
		default:
			e.TheaterRatio = 1
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get loads a stored report by scan id. A unique id prefix resolves
// too; an ambiguous one is an error.
func (s *Store) Get(id string) (*report.DetectionReport, error) {
	var body string
	err := s.db.QueryRow(`SELECT report_json FROM scans WHERE id = ?;`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return s.getByPrefix(id)
	}
	if err != nil {
		return nil, err
	}
	return report.Decode([]byte(body))
}

func (s *Store) getByPrefix(prefix string) (*report.DetectionReport, error) {
	if prefix == "" {
		return nil, ErrNotFound
	}
	rows, err := s.db.Query(`SELECT id, report_json FROM scans WHERE id LIKE ? ESCAPE '\' LIMIT 2;`, likePattern(prefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		matches int
		body    string
	)
	for rows.Next() {
		var id string
		matches++
		if matches > 1 {
			return nil, fmt.Errorf("scan id prefix %q is ambiguous", prefix)
		}
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if matches == 0 {
		return nil, ErrNotFound
	}
	return report.Decode([]byte(body))
}

// likePattern turns a raw prefix into a LIKE pattern, escaping the
// wildcard characters.
func likePattern(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
