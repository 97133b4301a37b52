package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
)

// SaveCard saves or updates a catalog card. The normalized card is stored as
// a JSON payload keyed by (type, id); the name column is denormalized for
// lookups by name.
func (s *Service) SaveCard(ctx context.Context, card *catalog.Card) error {
	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to encode card %s/%s: %w", card.Type, card.ID, err)
	}

	query := `
		INSERT INTO cards (card_type, card_id, name, payload, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(card_type, card_id) DO UPDATE SET
			name = excluded.name,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err = s.db.Conn().ExecContext(ctx, query, string(card.Type), card.ID, card.Name, payload)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}

// GetCard retrieves a card by its composite key. Returns (nil, nil) when the
// card does not exist.
func (s *Service) GetCard(ctx context.Context, cardType catalog.CardType, cardID string) (*catalog.Card, error) {
	query := `SELECT payload FROM cards WHERE card_type = ? AND card_id = ?`

	var payload []byte
	err := s.db.Conn().QueryRowContext(ctx, query, string(cardType), cardID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return decodeCard(payload)
}

// GetCardsByType retrieves all cards of one type ordered by id.
func (s *Service) GetCardsByType(ctx context.Context, cardType catalog.CardType) ([]*catalog.Card, error) {
	query := `SELECT payload FROM cards WHERE card_type = ? ORDER BY card_id`

	rows, err := s.db.Conn().QueryContext(ctx, query, string(cardType))
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCards(rows)
}

// CountCards returns the number of cards in the catalog.
func (s *Service) CountCards(ctx context.Context) (int, error) {
	var n int
	err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

// ReplaceCatalog replaces the persisted catalog with the given cards in one
// transaction. Used when a fresh catalog dump is imported.
func (s *Service) ReplaceCatalog(ctx context.Context, cards []*catalog.Card) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
		insert := `
			INSERT INTO cards (card_type, card_id, name, payload)
			VALUES (?, ?, ?, ?)
		`
		for _, card := range cards {
			payload, err := json.Marshal(card)
			if err != nil {
				return fmt.Errorf("failed to encode card %s/%s: %w", card.Type, card.ID, err)
			}
			if _, err := tx.ExecContext(ctx, insert, string(card.Type), card.ID, card.Name, payload); err != nil {
				return fmt.Errorf("failed to insert card %s/%s: %w", card.Type, card.ID, err)
			}
		}
		return nil
	})
}

// LoadCatalog hydrates an in-memory catalog store from the cards table.
func (s *Service) LoadCatalog(ctx context.Context) (*catalog.Store, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `SELECT payload FROM cards`)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards, err := scanCards(rows)
	if err != nil {
		return nil, err
	}

	store := catalog.NewStore()
	store.ReplaceAll(cards)
	return store, nil
}

func decodeCard(payload []byte) (*catalog.Card, error) {
	var card catalog.Card
	if err := json.Unmarshal(payload, &card); err != nil {
		return nil, fmt.Errorf("failed to decode card payload: %w", err)
	}
	return &card, nil
}

func scanCards(rows *sql.Rows) ([]*catalog.Card, error) {
	var cards []*catalog.Card
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		card, err := decodeCard(payload)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}
	return cards, nil
}
