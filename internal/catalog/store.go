package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
)

// Lookup is the read interface the rules and statistics engines consume.
// Implementations must return ok=false for unknown cards instead of erroring;
// callers skip missing entries rather than failing.
type Lookup interface {
	Lookup(cardType CardType, id string) (*Card, bool)
}

// Store is a concurrency-safe in-memory card catalog. Reads are frequent
// (one lookup per rendered card); writes happen only at load and on
// watcher-triggered reloads.
type Store struct {
	mu    sync.RWMutex
	cards map[Key]*Card
}

// NewStore returns an empty catalog store.
func NewStore() *Store {
	return &Store{cards: make(map[Key]*Card)}
}

// Lookup returns the card for (cardType, id), if present.
func (s *Store) Lookup(cardType CardType, id string) (*Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[Key{Type: cardType, ID: id}]
	return c, ok
}

// FindByName returns the first card of cardType whose name matches
// case-insensitively. Used by the deck-list importer.
func (s *Store) FindByName(cardType CardType, name string) (*Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := strings.ToLower(strings.TrimSpace(name))
	for k, c := range s.cards {
		if k.Type == cardType && strings.ToLower(c.Name) == want {
			return c, true
		}
	}
	return nil, false
}

// Put adds or replaces a card.
func (s *Store) Put(c *Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[c.Key()] = c
}

// ReplaceAll swaps the entire catalog contents. Used by the file watcher so a
// reload is atomic from the readers' perspective.
func (s *Store) ReplaceAll(cards []*Card) {
	next := make(map[Key]*Card, len(cards))
	for _, c := range cards {
		next[c.Key()] = c
	}
	s.mu.Lock()
	s.cards = next
	s.mu.Unlock()
}

// Len returns the number of cards in the catalog.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}

// ByType returns all cards of the given type, sorted by id.
func (s *Store) ByType(cardType CardType) []*Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Card
	for k, c := range s.cards {
		if k.Type == cardType {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadFile reads a catalog dump: a JSON object mapping card type to an object
// of id -> record. Malformed records are logged and skipped; a catalog with
// holes is preferable to no catalog at all.
func LoadFile(path string) ([]*Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var dump map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	var cards []*Card
	for typeName, records := range dump {
		cardType := CardType(typeName)
		for id, rec := range records {
			card, err := Normalize(cardType, id, rec)
			if err != nil {
				log.Printf("catalog: skipping %s/%s: %v", typeName, id, err)
				continue
			}
			cards = append(cards, card)
		}
	}

	return cards, nil
}
