// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists processed consultations in SQLite so summaries
// and SOAP notes can be listed, searched and exported later.
package archive

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/medscribe/pkg/types"
)

const dbFile = "medscribe.db"

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New("record not found")

// Store manages the archive database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates dir/medscribe.db and its schema.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "archive"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
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

// Dir returns the archive directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			patient TEXT NOT NULL,
			diagnosis TEXT,
			sentiment TEXT,
			intent TEXT,
			exam TEXT,
			created_at TEXT NOT NULL,
			transcript TEXT NOT NULL,
			report TEXT NOT NULL,
			soap TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS record_keywords (
			record_id TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
			keyword TEXT NOT NULL,
			rank INTEGER NOT NULL,
			PRIMARY KEY (record_id, keyword)
		)`,
		`CREATE TABLE IF NOT EXISTS record_symptoms (
			record_id TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
			symptom TEXT NOT NULL,
			PRIMARY KEY (record_id, symptom)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_patient ON records(patient)`,
		`CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_keywords_keyword ON record_keywords(keyword)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordID derives the archive ID of a transcript: the first 12 hex
// characters of its SHA-256.
func RecordID(transcript string) string {
	h := sha256.Sum256([]byte(strings.TrimSpace(transcript)))
	return fmt.Sprintf("%x", h[:6])
}

// Save inserts or replaces rec. An empty ID is derived from the
// transcript. It reports whether an existing record was replaced.
func (s *Store) Save(ctx context.Context, rec *types.Record) (updated bool, err error) {
	if rec.ID == "" {
		rec.ID = RecordID(rec.Transcript)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	reportJSON, err := json.Marshal(rec.Report)
	if err != nil {
		return false, fmt.Errorf("marshaling report: %w", err)
	}
	soapJSON, err := json.Marshal(rec.SOAP)
	if err != nil {
		return false, fmt.Errorf("marshaling SOAP note: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM records WHERE id = ?`, rec.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking record %s: %w", rec.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (id, patient, diagnosis, sentiment, intent, exam, created_at, transcript, report, soap)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			patient=excluded.patient, diagnosis=excluded.diagnosis,
			sentiment=excluded.sentiment, intent=excluded.intent, exam=excluded.exam,
			created_at=excluded.created_at, transcript=excluded.transcript,
			report=excluded.report, soap=excluded.soap`,
		rec.ID, rec.Patient, rec.Report.Diagnosis,
		string(rec.Sentiment.Sentiment), string(rec.Sentiment.Intent), rec.Exam,
		rec.CreatedAt.UTC().Format(timeLayout), rec.Transcript,
		string(reportJSON), string(soapJSON),
	)
	if err != nil {
		return false, fmt.Errorf("upserting record: %w", err)
	}

	for _, table := range []string{"record_keywords", "record_symptoms"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE record_id = ?`, rec.ID); err != nil {
			return false, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, kw := range rec.Report.Keywords {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO record_keywords (record_id, keyword, rank) VALUES (?, ?, ?)`,
			rec.ID, strings.ToLower(kw), i,
		); err != nil {
			return false, fmt.Errorf("inserting keyword %q: %w", kw, err)
		}
	}
	for _, sym := range rec.Report.Symptoms {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO record_symptoms (record_id, symptom) VALUES (?, ?)`,
			rec.ID, strings.ToLower(sym),
		); err != nil {
			return false, fmt.Errorf("inserting symptom %q: %w", sym, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing record: %w", err)
	}
	return exists > 0, nil
}

// Get returns the record with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*types.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up record: %w", err)
	}
	return rec, nil
}

// Delete removes the record with id. Deleting a missing record returns
// ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

const recordColumns = `id, patient, exam, created_at, transcript, report, soap, sentiment, intent`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*types.Record, error) {
	var (
		rec        types.Record
		exam       sql.NullString
		createdAt  string
		reportJSON string
		soapJSON   string
		sentiment  sql.NullString
		intent     sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.Patient, &exam, &createdAt, &rec.Transcript,
		&reportJSON, &soapJSON, &sentiment, &intent); err != nil {
		return nil, err
	}

	rec.Exam = exam.String
	rec.Sentiment = types.SentimentResult{
		Sentiment: types.Sentiment(sentiment.String),
		Intent:    types.Intent(intent.String),
	}
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		rec.CreatedAt = t
	}
	if err := json.Unmarshal([]byte(reportJSON), &rec.Report); err != nil {
		return nil, fmt.Errorf("decoding report for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(soapJSON), &rec.SOAP); err != nil {
		return nil, fmt.Errorf("decoding SOAP note for %s: %w", rec.ID, err)
	}
	return &rec, nil
}
