package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is the durable rolling-TTL variant of the Store. Entries outlive
// process restarts and expire individually once their age passes the TTL.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func OpenSQLite(path string, ttl time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS pricelists (
		username   TEXT PRIMARY KEY,
		pdf        BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLite{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *SQLite) Get(ctx context.Context, username string) ([]byte, error) {
	var pdf []byte
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT pdf, created_at FROM pricelists WHERE username = ?`, username,
	).Scan(&pdf, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read pricelist: %w", err)
	}
	if s.now().Unix()-createdAt >= int64(s.ttl/time.Second) {
		return nil, ErrNotFound
	}
	return pdf, nil
}

func (s *SQLite) Put(ctx context.Context, username string, pdf []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pricelists (username, pdf, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET pdf = excluded.pdf, created_at = excluded.created_at`,
		username, pdf, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store pricelist: %w", err)
	}
	return nil
}

func (s *SQLite) Owners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username FROM pricelists ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, username)
	}
	return owners, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
