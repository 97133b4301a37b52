// Package storage provides database access and persistence for the card
// catalog and saved decks.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB wraps the database connection.
type DB struct {
	conn *sql.DB
}

// Config holds database configuration settings.
type Config struct {
	// Path is the file path to the SQLite database.
	// Use ":memory:" for an in-memory database (useful for testing).
	Path string

	// MaxOpenConns sets the maximum number of open connections to the database.
	MaxOpenConns int

	// MaxIdleConns sets the maximum number of idle connections in the pool.
	MaxIdleConns int

	// ConnMaxLifetime sets the maximum amount of time a connection may be reused.
	ConnMaxLifetime time.Duration

	// BusyTimeout sets how long to wait when the database is locked.
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode.
	// Options: DELETE, TRUNCATE, PERSIST, MEMORY, WAL, OFF
	JournalMode string

	// Synchronous sets the SQLite synchronous mode.
	// Options: OFF, NORMAL, FULL, EXTRA
	Synchronous string

	// AutoMigrate automatically runs pending database migrations on Open.
	AutoMigrate bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:            path,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		BusyTimeout:     5 * time.Second,
		JournalMode:     "WAL",
		Synchronous:     "NORMAL",
	}
}

// Open creates a new database connection with the given configuration.
func Open(config *Config) (*DB, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if config.Path != ":memory:" {
		dir := filepath.Dir(config.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=%s&_synchronous=%s&_foreign_keys=on",
		config.Path,
		config.BusyTimeout.Milliseconds(),
		config.JournalMode,
		config.Synchronous,
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(config.MaxOpenConns)
	conn.SetMaxIdleConns(config.MaxIdleConns)
	conn.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := conn.Ping(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to close database after ping error: %w (original error: %v)", closeErr, err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}

	if config.AutoMigrate {
		if err := db.migrateInPlace(config, dsn); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// migrateInPlace runs pending migrations. File-backed databases go through
// the migration manager; in-memory databases apply the embedded migration
// SQL directly on the live connection, since a second connection would see a
// different database.
func (db *DB) migrateInPlace(config *Config, dsn string) error {
	if config.Path == ":memory:" {
		return applyEmbeddedMigrations(db.conn)
	}

	// Close the connection while golang-migrate holds the file.
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database for migration: %w", err)
	}

	mgr, err := NewMigrationManager(config.Path)
	if err != nil {
		return fmt.Errorf("failed to create migration manager: %w", err)
	}
	if err := mgr.Up(); err != nil {
		if closeErr := mgr.Close(); closeErr != nil {
			return fmt.Errorf("failed to close migration manager after error: %w (original error: %v)", closeErr, err)
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := mgr.Close(); err != nil {
		return fmt.Errorf("failed to close migration manager: %w", err)
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to reopen database after migrations: %w", err)
	}
	conn.SetMaxOpenConns(config.MaxOpenConns)
	conn.SetMaxIdleConns(config.MaxIdleConns)
	conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	if err := conn.Ping(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return fmt.Errorf("failed to close database after ping error: %w (original error: %v)", closeErr, err)
		}
		return fmt.Errorf("failed to ping database after migrations: %w", err)
	}

	db.conn = conn
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the database connection is alive.
func (db *DB) Ping() error {
	return db.conn.Ping()
}
