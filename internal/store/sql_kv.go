package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Dialect captures what differs between the SQL backends
type Dialect struct {
	Name        string
	placeholder func(n int) string
}

var (
	// DialectPostgres uses $n placeholders (lib/pq)
	DialectPostgres = Dialect{Name: "postgres", placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }}
	// DialectSQLite uses ? placeholders (modernc.org/sqlite)
	DialectSQLite = Dialect{Name: "sqlite", placeholder: func(int) string { return "?" }}
)

// DialectFor maps a database driver name to its dialect
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres":
		return DialectPostgres, nil
	case "sqlite", "":
		return DialectSQLite, nil
	default:
		return Dialect{}, fmt.Errorf("no kv dialect for driver %q", driver)
	}
}

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at BIGINT,
	updated_at BIGINT NOT NULL
)`

// SQLKV stores every key as one row of kv_store.
// expires_at/updated_at are unix milliseconds.
type SQLKV struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewSQLKV(db *sql.DB, dialect Dialect) *SQLKV {
	return &SQLKV{db: db, dialect: dialect, now: time.Now}
}

// EnsureSchema creates kv_store if missing
func (s *SQLKV) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("failed to create kv_store: %w", err)
	}
	return nil
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, error) {
	q := `SELECT value, expires_at FROM kv_store WHERE key = ` + s.dialect.placeholder(1)

	var (
		value     string
		expiresAt sql.NullInt64
	)
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMiss
		}
		return "", err
	}
	if expiresAt.Valid && s.now().UnixMilli() >= expiresAt.Int64 {
		return "", ErrMiss
	}
	return value, nil
}

func (s *SQLKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	p := s.dialect.placeholder
	q := `INSERT INTO kv_store (key, value, expires_at, updated_at)
		VALUES (` + p(1) + `, ` + p(2) + `, ` + p(3) + `, ` + p(4) + `)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`

	now := s.now()
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(ttl).UnixMilli(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, q, key, value, expiresAt, now.UnixMilli())
	return err
}

func (s *SQLKV) Delete(ctx context.Context, key string) error {
	q := `DELETE FROM kv_store WHERE key = ` + s.dialect.placeholder(1)
	_, err := s.db.ExecContext(ctx, q, key)
	return err
}

// ScanKeys translates a Redis-style glob (* and ?) into LIKE
func (s *SQLKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	p := s.dialect.placeholder
	q := `SELECT key FROM kv_store
		WHERE key LIKE ` + p(1) + ` ESCAPE '\'
		AND (expires_at IS NULL OR expires_at > ` + p(2) + `)
		ORDER BY key`

	rows, err := s.db.QueryContext(ctx, q, globToLike(pattern), s.now().UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func globToLike(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '%', '_', '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		case '*':
			b.WriteRune('%')
		case '?':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
