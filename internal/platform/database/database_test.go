package database

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yamdb-api/internal/config"
	"yamdb-api/internal/model"
)

func TestNewSQLiteAndMigrate(t *testing.T) {
	db, err := NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "categories", "genres", "titles", "genre_titles"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewSelectsDriver(t *testing.T) {
	t.Run("sqlite file", func(t *testing.T) {
		cfg := &config.Config{Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "yamdb.db"),
		}}
		db, err := New(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", db.Dialector.Name())
	})

	t.Run("unsupported", func(t *testing.T) {
		cfg := &config.Config{Database: config.DatabaseConfig{Driver: "oracle"}}
		_, err := New(context.Background(), cfg)
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}

func TestLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: newLogger(&buf)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var user model.User
	err = db.Where("username = ?", "ghost").First(&user).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	_ = db.Exec("SELECT * FROM missing_table").Error
	assert.Contains(t, buf.String(), "missing_table")
}
