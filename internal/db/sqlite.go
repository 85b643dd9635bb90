package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jonathan/faculty-enricher/internal/types"
)

// SQLite is a file-backed store with the same surface as DB.
type SQLite struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, path: path, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	schema, err := loadMigration("sqlite.sql")
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

const sqliteUpsertRecord = `INSERT INTO faculty_records (` + recordColumns + `, seq, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		(SELECT COALESCE(MAX(seq), 0) + 1 FROM faculty_records), ?)
	ON CONFLICT (faculty_homepage_url) DO UPDATE SET
		faculty_name = excluded.faculty_name,
		faculty_department_name = excluded.faculty_department_name,
		faculty_university_name = excluded.faculty_university_name,
		faculty_phone = excluded.faculty_phone,
		faculty_email = excluded.faculty_email,
		faculty_expertise = excluded.faculty_expertise,
		faculty_department_url = excluded.faculty_department_url,
		faculty_university_url = excluded.faculty_university_url,
		faculty_biodata = excluded.faculty_biodata,
		faculty_location = excluded.faculty_location,
		updated_at = excluded.updated_at`

// AddRecords upserts every record in one transaction, keyed by homepage URL.
func (s *SQLite) AddRecords(ctx context.Context, records []types.FacultyRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsertRecord)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := s.now().UnixNano()
	for _, r := range records {
		id := r.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		args := append(recordArgs(r, id.String()), now)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to save record %s: %w", r.FacultyHomepageURL, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

// ListRecords retrieves records, optionally for one department, in insertion order.
func (s *SQLite) ListRecords(ctx context.Context, filters RecordFilters) ([]types.FacultyRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM faculty_records`
	var args []any
	if filters.DepartmentURL != "" {
		query += ` WHERE faculty_department_url = ?`
		args = append(args, filters.DepartmentURL)
	}
	query += ` ORDER BY seq ASC LIMIT ?`
	args = append(args, filters.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []types.FacultyRecord
	for rows.Next() {
		r, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// GetRecordByHomepage retrieves one record, or nil when none exists.
func (s *SQLite) GetRecordByHomepage(ctx context.Context, homepageURL string) (*types.FacultyRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM faculty_records WHERE faculty_homepage_url = ?`, homepageURL)
	r, err := scanSQLiteRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func scanSQLiteRecord(s scanner) (types.FacultyRecord, error) {
	var rawID string
	r, err := scanRecord(s, &rawID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("failed to scan record: %w", err)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return r, fmt.Errorf("invalid record id %q: %w", rawID, err)
	}
	r.ID = id
	return r, nil
}

// GetPage returns a cached rendered page fetched within maxAge.
func (s *SQLite) GetPage(ctx context.Context, url string, maxAge time.Duration) (string, bool, error) {
	cutoff := s.now().Add(-maxAge).UnixNano()
	var html string
	err := s.db.QueryRowContext(ctx,
		`SELECT html FROM rendered_pages WHERE url = ? AND fetched_at > ?`, url, cutoff,
	).Scan(&html)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get page %s: %w", url, err)
	}
	return html, true, nil
}

// PutPage stores a rendered page, replacing any older copy.
func (s *SQLite) PutPage(ctx context.Context, url, html string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rendered_pages (url, html, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT (url) DO UPDATE SET html = excluded.html, fetched_at = excluded.fetched_at`,
		url, html, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save page %s: %w", url, err)
	}
	return nil
}
