// Package deck provides the deck snapshot model, draw-pile derivation, and
// the per-session knock-out state used by the rules engine.
package deck

import "github.com/overpower-tools/deckbuilder/internal/catalog"

// Entry is one line of a deck: a card reference with a quantity. Duplicate
// adds of the same (type, id) merge by incrementing quantity.
type Entry struct {
	Type     catalog.CardType `json:"type"`
	CardID   string           `json:"card_id"`
	Quantity int              `json:"quantity"`

	// ExcludeFromDraw marks pre-placed cards that stay in the deck but are
	// removed from draw-pile statistics.
	ExcludeFromDraw bool `json:"exclude_from_draw,omitempty"`
}

// Deck is a full deck snapshot.
type Deck struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// AddEntry merges an entry into entries, incrementing quantity when the
// (type, id) pair is already present.
func AddEntry(entries []Entry, e Entry) []Entry {
	for i := range entries {
		if entries[i].Type == e.Type && entries[i].CardID == e.CardID {
			entries[i].Quantity += e.Quantity
			return entries
		}
	}
	return append(entries, e)
}

// Characters returns the deck's character entries.
func Characters(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Type == catalog.TypeCharacter {
			out = append(out, e)
		}
	}
	return out
}

// inDrawPile reports whether an entry's type contributes to the draw pile.
// Characters, locations and missions are placed, never drawn.
func inDrawPile(e Entry) bool {
	switch e.Type {
	case catalog.TypeCharacter, catalog.TypeLocation, catalog.TypeMission:
		return false
	}
	return !e.ExcludeFromDraw
}

// DrawPile expands the deck's drawable entries by quantity into one slot per
// physical card. The pile is derived on demand; it has no stored identity.
func DrawPile(entries []Entry) []Entry {
	var pile []Entry
	for _, e := range entries {
		if !inDrawPile(e) {
			continue
		}
		for i := 0; i < e.Quantity; i++ {
			slot := e
			slot.Quantity = 1
			pile = append(pile, slot)
		}
	}
	return pile
}

// DrawPileSize returns the number of slots in the draw pile without
// materializing it.
func DrawPileSize(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if inDrawPile(e) {
			n += e.Quantity
		}
	}
	return n
}
