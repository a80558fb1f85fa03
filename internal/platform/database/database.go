package database

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"yamdb-api/internal/config"
	"yamdb-api/internal/model"
)

// New opens the database selected by cfg.Driver and pings it.
func New(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		return open(ctx, mysql.Open(cfg.MySQLDSN()), false)
	case "sqlite":
		return open(ctx, sqlite.Open(cfg.Database.SQLitePath), true)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

// NewSQLite opens a sqlite database at path. ":memory:" gives a private
// in-memory database because the pool is pinned to a single connection.
func NewSQLite(ctx context.Context, path string) (*gorm.DB, error) {
	return open(ctx, sqlite.Open(path), true)
}

func open(ctx context.Context, dialector gorm.Dialector, singleConn bool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(os.Stdout),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s failed: %w", dialector.Name(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get %s sql db failed: %w", dialector.Name(), err)
	}

	if singleConn {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(1 * time.Hour)
		sqlDB.SetConnMaxIdleTime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping %s failed: %w", dialector.Name(), err)
	}

	return db, nil
}

// newLogger logs slow queries and errors. Missed lookups are an expected
// outcome for the repositories and are not logged.
func newLogger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate creates or updates every table, including the genre_titles join.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Title{}, "Genres", &model.GenreTitle{}); err != nil {
		return fmt.Errorf("setup genre_titles join table failed: %w", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}
