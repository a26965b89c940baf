package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthsync/common/config"
)

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "healthsync.db")

	db, err := Open(&config.DatabaseConfig{Driver: DriverSQLite, Path: path})
	require.NoError(t, err)
	defer Close(db)

	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
	assert.FileExists(t, path)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestNewSQLiteDB_EmptyPath(t *testing.T) {
	_, err := NewSQLiteDB("")
	assert.Error(t, err)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
