package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthsync/common/database"
)

func setupSQLiteKV(t *testing.T) *SQLKV {
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	kv := NewSQLKV(db, DialectSQLite)
	require.NoError(t, kv.EnsureSchema(context.Background()))
	return kv
}

func TestSQLKV_SQLite_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	kv := setupSQLiteKV(t)

	_, err := kv.Get(ctx, "appointments")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "appointments", `[]`, 0))
	require.NoError(t, kv.Set(ctx, "appointments", `[{"id":"a"}]`, 0))
	v, err := kv.Get(ctx, "appointments")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, v, "second Set overwrites")

	require.NoError(t, kv.Delete(ctx, "appointments"))
	_, err = kv.Get(ctx, "appointments")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSQLKV_SQLite_TTL(t *testing.T) {
	ctx := context.Background()
	kv := setupSQLiteKV(t)
	now := time.Date(2025, 1, 19, 8, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }

	require.NoError(t, kv.Set(ctx, "otp", "123456", time.Minute))
	_, err := kv.Get(ctx, "otp")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = kv.Get(ctx, "otp")
	assert.ErrorIs(t, err, ErrMiss)

	keys, err := kv.ScanKeys(ctx, "*")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSQLKV_SQLite_ScanKeysEscapesUnderscore(t *testing.T) {
	ctx := context.Background()
	kv := setupSQLiteKV(t)

	require.NoError(t, kv.Set(ctx, "@healthsync_reports", "[]", 0))
	require.NoError(t, kv.Set(ctx, "@healthsyncXreports", "[]", 0))

	keys, err := kv.ScanKeys(ctx, "@healthsync_*")
	require.NoError(t, err)
	assert.Equal(t, []string{"@healthsync_reports"}, keys)
}

func TestSQLKV_Postgres_UsesDollarPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	kv := NewSQLKV(db, DialectPostgres)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value, expires_at FROM kv_store WHERE key = $1`)).
		WithArgs("appointments").
		WillReturnRows(sqlmock.NewRows([]string{"value", "expires_at"}).AddRow(`[]`, nil))

	mock.ExpectExec(`INSERT INTO kv_store`).
		WithArgs("appointments", `[{"id":"a"}]`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE key = $1`)).
		WithArgs("appointments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	v, err := kv.Get(ctx, "appointments")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
	require.NoError(t, kv.Set(ctx, "appointments", `[{"id":"a"}]`, 0))
	require.NoError(t, kv.Delete(ctx, "appointments"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLKV_Postgres_NoRowsIsMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	kv := NewSQLKV(db, DialectPostgres)

	mock.ExpectQuery(`SELECT value, expires_at FROM kv_store`).
		WithArgs("userEmail").
		WillReturnRows(sqlmock.NewRows([]string{"value", "expires_at"}))

	_, err = kv.Get(context.Background(), "userEmail")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name)

	d, err = DialectFor("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name)

	_, err = DialectFor("mysql")
	assert.Error(t, err)
}

func TestGlobToLike(t *testing.T) {
	assert.Equal(t, `@healthsync\_%`, globToLike("@healthsync_*"))
	assert.Equal(t, `a_b\%`, globToLike("a?b%"))
}
