// Package store persists generated reports in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mkarlsen/reportsmith/internal/reportgen"
)

var ErrNotFound = errors.New("report not found")

// Record is one persisted report with its generation metadata.
type Record struct {
	ID               string    `db:"report_id" json:"report_id"`
	UserName         string    `db:"user_name" json:"user_name"`
	UserRole         string    `db:"user_role" json:"user_role,omitempty"`
	BusinessCategory string    `db:"business_category" json:"business_category"`
	Framework        string    `db:"framework" json:"framework"`
	Focus            string    `db:"focus" json:"focus"`
	Tier             string    `db:"tier" json:"tier"`
	Markdown         string    `db:"markdown" json:"markdown"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	report_id         TEXT PRIMARY KEY,
	user_name         TEXT NOT NULL DEFAULT '',
	user_role         TEXT NOT NULL DEFAULT '',
	business_category TEXT NOT NULL DEFAULT '',
	framework         TEXT NOT NULL,
	focus             TEXT NOT NULL,
	tier              TEXT NOT NULL,
	markdown          TEXT NOT NULL,
	created_at        TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at DESC);
`

// Store is a SQLite-backed report archive.
type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a generated report and returns its assigned ID.
func (s *Store) Save(report reportgen.GeneratedReport, in reportgen.Input) (Record, error) {
	rec := Record{
		ID:               uuid.NewString(),
		UserName:         in.UserName,
		UserRole:         in.UserRole,
		BusinessCategory: in.BusinessCategory,
		Framework:        string(report.Framework),
		Focus:            string(report.Focus),
		Tier:             string(report.Tier),
		Markdown:         report.Markdown,
		CreatedAt:        report.GeneratedAt.UTC(),
	}
	_, err := s.db.NamedExec(`INSERT INTO reports
		(report_id, user_name, user_role, business_category, framework, focus, tier, markdown, created_at)
		VALUES (:report_id, :user_name, :user_role, :business_category, :framework, :focus, :tier, :markdown, :created_at)`, rec)
	if err != nil {
		return Record{}, fmt.Errorf("insert report: %w", err)
	}
	return rec, nil
}

// Get fetches one report by ID.
func (s *Store) Get(id string) (Record, error) {
	var rec Record
	err := s.db.Get(&rec, `SELECT * FROM reports WHERE report_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get report: %w", err)
	}
	return rec, nil
}

// ListRecent returns up to limit reports, newest first.
func (s *Store) ListRecent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []Record
	if err := s.db.Select(&recs, `SELECT * FROM reports ORDER BY created_at DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return recs, nil
}
