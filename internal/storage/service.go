package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Service provides high-level operations for storing and retrieving the card
// catalog and saved decks.
type Service struct {
	db *DB
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{db: db}
}

// DB returns the underlying database wrapper.
func (s *Service) DB() *DB {
	return s.db
}

// WithTransaction runs fn inside a transaction, committing on success and
// rolling back on error.
func (s *Service) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
