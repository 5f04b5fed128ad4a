package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/tahcohcat/studyquest/internal/logger"
)

const (
	// DriverCGO is mattn/go-sqlite3.
	DriverCGO = "sqlite3"
	// DriverPure is modernc.org/sqlite, usable without cgo.
	DriverPure = "sqlite"

	MemoryPath = ":memory:"
)

type DB struct {
	*sqlx.DB
}

// NewDB opens the store, enables foreign keys and creates the schema.
func NewDB(driver, path string) (*DB, error) {
	if driver == "" {
		driver = DriverCGO
	}
	if path == "" {
		path = "studyquest.db"
	}

	dsn, err := dataSource(driver, path)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to :memory: is its own database.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	dbWrapper := &DB{DB: db}
	if err := dbWrapper.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.New().With("driver", driver).With("path", path).Info("Database connection established and tables initialized")
	return dbWrapper, nil
}

// dataSource builds the driver DSN. Transactions begin IMMEDIATE so a
// read-then-write transaction takes the write lock at BEGIN and waits out the
// busy timeout there, instead of failing with SQLITE_BUSY on lock upgrade.
func dataSource(driver, path string) (string, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	file := path != MemoryPath
	switch driver {
	case DriverCGO:
		dsn := path + sep + "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
		if file {
			dsn += "&_journal_mode=WAL"
		}
		return dsn, nil
	case DriverPure:
		dsn := path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
		if file {
			dsn += "&_pragma=journal_mode(WAL)"
		}
		return dsn, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// WithTx runs fn inside a transaction, committing on nil and rolling back
// otherwise. fn must use tx for every statement.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.New().WithError(rbErr).Warn("Rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
