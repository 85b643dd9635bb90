package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/faculty-enricher/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	schema, err := loadMigration("postgres.sql")
	if err != nil {
		return err
	}
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

const pgUpsertRecord = `INSERT INTO faculty_records (` + recordColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (faculty_homepage_url) DO UPDATE SET
		faculty_name = EXCLUDED.faculty_name,
		faculty_department_name = EXCLUDED.faculty_department_name,
		faculty_university_name = EXCLUDED.faculty_university_name,
		faculty_phone = EXCLUDED.faculty_phone,
		faculty_email = EXCLUDED.faculty_email,
		faculty_expertise = EXCLUDED.faculty_expertise,
		faculty_department_url = EXCLUDED.faculty_department_url,
		faculty_university_url = EXCLUDED.faculty_university_url,
		faculty_biodata = EXCLUDED.faculty_biodata,
		faculty_location = EXCLUDED.faculty_location,
		updated_at = NOW()`

// AddRecords upserts every record in one transaction, keyed by homepage URL.
func (db *DB) AddRecords(ctx context.Context, records []types.FacultyRecord) error {
	if len(records) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, r := range records {
			id := r.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			batch.Queue(pgUpsertRecord, recordArgs(r, id)...)
		}
		br := tx.SendBatch(ctx, batch)
		for _, r := range records {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to save record %s: %w", r.FacultyHomepageURL, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to save records: %w", err)
		}
		return nil
	})
}

// ListRecords retrieves records, optionally for one department, oldest first.
func (db *DB) ListRecords(ctx context.Context, filters RecordFilters) ([]types.FacultyRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM faculty_records WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.DepartmentURL != "" {
		query += fmt.Sprintf(" AND faculty_department_url = $%d", argNum)
		args = append(args, filters.DepartmentURL)
		argNum++
	}
	query += fmt.Sprintf(" ORDER BY created_at ASC, faculty_homepage_url ASC LIMIT $%d", argNum)
	args = append(args, filters.limit())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []types.FacultyRecord
	for rows.Next() {
		var id uuid.UUID
		r, err := scanRecord(rows, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.ID = id
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// GetRecordByHomepage retrieves one record, or nil when none exists.
func (db *DB) GetRecordByHomepage(ctx context.Context, homepageURL string) (*types.FacultyRecord, error) {
	var id uuid.UUID
	r, err := scanRecord(db.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM faculty_records WHERE faculty_homepage_url = $1`,
		homepageURL,
	), &id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	r.ID = id
	return &r, nil
}

// GetPage returns a cached rendered page fetched within maxAge.
func (db *DB) GetPage(ctx context.Context, url string, maxAge time.Duration) (string, bool, error) {
	cutoff := time.Now().Add(-maxAge)
	var html string
	err := db.pool.QueryRow(ctx,
		`SELECT html FROM rendered_pages WHERE url = $1 AND fetched_at > $2`,
		url, cutoff,
	).Scan(&html)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get page %s: %w", url, err)
	}
	return html, true, nil
}

// PutPage stores a rendered page, replacing any older copy.
func (db *DB) PutPage(ctx context.Context, url, html string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO rendered_pages (url, html, fetched_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (url) DO UPDATE SET html = EXCLUDED.html, fetched_at = NOW()`,
		url, html,
	)
	if err != nil {
		return fmt.Errorf("failed to save page %s: %w", url, err)
	}
	return nil
}
