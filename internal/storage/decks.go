package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
	"github.com/overpower-tools/deckbuilder/internal/deck"
)

// DeckRecord is a saved deck's header row.
type DeckRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDeck creates a new empty deck and returns its record.
func (s *Service) CreateDeck(ctx context.Context, name string) (*DeckRecord, error) {
	id := uuid.NewString()
	query := `INSERT INTO decks (id, name) VALUES (?, ?)`
	if _, err := s.db.Conn().ExecContext(ctx, query, id, name); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}
	return s.GetDeckRecord(ctx, id)
}

// GetDeckRecord retrieves a deck header by id. Returns (nil, nil) when the
// deck does not exist.
func (s *Service) GetDeckRecord(ctx context.Context, id string) (*DeckRecord, error) {
	query := `SELECT id, name, created_at, updated_at FROM decks WHERE id = ?`

	var d DeckRecord
	err := s.db.Conn().QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}
	return &d, nil
}

// ListDecks retrieves all deck headers, most recently updated first.
func (s *Service) ListDecks(ctx context.Context) ([]*DeckRecord, error) {
	query := `SELECT id, name, created_at, updated_at FROM decks ORDER BY updated_at DESC`

	rows, err := s.db.Conn().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decks []*DeckRecord
	for rows.Next() {
		var d DeckRecord
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decks: %w", err)
	}
	return decks, nil
}

// RenameDeck updates a deck's name.
func (s *Service) RenameDeck(ctx context.Context, id, name string) error {
	query := `UPDATE decks SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := s.db.Conn().ExecContext(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename deck: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("deck %s not found", id)
	}
	return nil
}

// DeleteDeck removes a deck and its cards.
func (s *Service) DeleteDeck(ctx context.Context, id string) error {
	if _, err := s.db.Conn().ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}

// SetDeckCard sets the quantity for one deck entry, inserting or updating as
// needed. A quantity of 0 removes the entry.
func (s *Service) SetDeckCard(ctx context.Context, deckID string, e deck.Entry) error {
	if e.Quantity <= 0 {
		return s.RemoveDeckCard(ctx, deckID, e.Type, e.CardID)
	}

	query := `
		INSERT INTO deck_cards (deck_id, card_type, card_id, quantity, exclude_from_draw)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(deck_id, card_type, card_id) DO UPDATE SET
			quantity = excluded.quantity,
			exclude_from_draw = excluded.exclude_from_draw
	`
	_, err := s.db.Conn().ExecContext(ctx, query,
		deckID, string(e.Type), e.CardID, e.Quantity, boolToInt(e.ExcludeFromDraw))
	if err != nil {
		return fmt.Errorf("failed to set deck card: %w", err)
	}
	return s.touchDeck(ctx, deckID)
}

// RemoveDeckCard removes one entry from a deck.
func (s *Service) RemoveDeckCard(ctx context.Context, deckID string, cardType catalog.CardType, cardID string) error {
	query := `DELETE FROM deck_cards WHERE deck_id = ? AND card_type = ? AND card_id = ?`
	if _, err := s.db.Conn().ExecContext(ctx, query, deckID, string(cardType), cardID); err != nil {
		return fmt.Errorf("failed to remove deck card: %w", err)
	}
	return s.touchDeck(ctx, deckID)
}

// GetDeckEntries retrieves a deck's entries.
func (s *Service) GetDeckEntries(ctx context.Context, deckID string) ([]deck.Entry, error) {
	query := `
		SELECT card_type, card_id, quantity, exclude_from_draw
		FROM deck_cards
		WHERE deck_id = ?
		ORDER BY card_type, card_id
	`

	rows, err := s.db.Conn().QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []deck.Entry
	for rows.Next() {
		var e deck.Entry
		var cardType string
		var exclude int
		if err := rows.Scan(&cardType, &e.CardID, &e.Quantity, &exclude); err != nil {
			return nil, fmt.Errorf("failed to scan deck entry: %w", err)
		}
		e.Type = catalog.CardType(cardType)
		e.ExcludeFromDraw = exclude != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deck entries: %w", err)
	}
	return entries, nil
}

// ReplaceDeckEntries swaps a deck's entire entry list in one transaction.
// Used by the importer.
func (s *Service) ReplaceDeckEntries(ctx context.Context, deckID string, entries []deck.Entry) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, deckID); err != nil {
			return fmt.Errorf("failed to clear deck entries: %w", err)
		}
		insert := `
			INSERT INTO deck_cards (deck_id, card_type, card_id, quantity, exclude_from_draw)
			VALUES (?, ?, ?, ?, ?)
		`
		for _, e := range entries {
			if e.Quantity <= 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx, insert,
				deckID, string(e.Type), e.CardID, e.Quantity, boolToInt(e.ExcludeFromDraw)); err != nil {
				return fmt.Errorf("failed to insert deck entry %s/%s: %w", e.Type, e.CardID, err)
			}
		}
		_, err := tx.ExecContext(ctx, `UPDATE decks SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, deckID)
		return err
	})
}

func (s *Service) touchDeck(ctx context.Context, deckID string) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`UPDATE decks SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, deckID)
	if err != nil {
		return fmt.Errorf("failed to touch deck: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
