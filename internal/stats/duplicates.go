// Package stats computes draw-probability statistics over a deck's draw pile.
package stats

import (
	"math"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
	"github.com/overpower-tools/deckbuilder/internal/deck"
)

// HandSize is the fixed opening-hand size.
const HandSize = 8

// DuplicateStats holds the duplicate-draw probabilities shown on card hover.
// Nil means no meaningful probability exists for the input (empty pile, card
// not in the deck, or an exhausted pile).
type DuplicateStats struct {
	FirstHand      *float64 `json:"first_hand"`
	AfterPlacement *float64 `json:"after_placement"`
}

// ComputeDuplicateStats computes both duplicate probabilities for one card.
func ComputeDuplicateStats(cardType catalog.CardType, cardID string, entries []deck.Entry, cat catalog.Lookup) DuplicateStats {
	return DuplicateStats{
		FirstHand:      FirstHandProbability(cardType, cardID, entries, cat),
		AfterPlacement: AfterPlacementProbability(cardType, cardID, entries, cat),
	}
}

// FirstHandProbability returns P(at least 2 cards of the target's duplicate
// class among the opening hand), as a percentage in [0, 100]. Nil when the
// draw pile is empty or the card is not in the deck.
func FirstHandProbability(cardType catalog.CardType, cardID string, entries []deck.Entry, cat catalog.Lookup) *float64 {
	n, d, ok := duplicateCounts(cardType, cardID, entries, cat)
	if !ok || n == 0 {
		return nil
	}
	if n < HandSize {
		// The whole pile is drawn; the outcome is deterministic.
		if d >= 2 {
			return pct(100)
		}
		return pct(0)
	}

	total := binomial(n, HandSize)
	if total == 0 {
		return pct(0)
	}
	p0 := binomial(n-d, HandSize) / total
	p1 := float64(d) * binomial(n-d, HandSize-1) / total
	return pct(clampPct((1 - p0 - p1) * 100))
}

// AfterPlacementProbability models drawing a second hand after an opening
// hand was drawn and one duplicate copy was placed: the pile shrinks by the
// hand, the duplicate class by the placed copy. Returns P(at least 1
// remaining duplicate among the next hand).
func AfterPlacementProbability(cardType catalog.CardType, cardID string, entries []deck.Entry, cat catalog.Lookup) *float64 {
	n, d, ok := duplicateCounts(cardType, cardID, entries, cat)
	if !ok || n == 0 {
		return nil
	}
	if d < 2 {
		return pct(0)
	}
	remaining := n - HandSize
	dups := d - 1
	if remaining <= 0 {
		return nil
	}
	if remaining < HandSize {
		return pct(100)
	}

	total := binomial(remaining, HandSize)
	if total == 0 {
		return pct(0)
	}
	none := binomial(remaining-dups, HandSize) / total
	return pct(clampPct((1 - none) * 100))
}

// duplicateCounts returns the draw-pile size and the number of pile slots in
// the target card's duplicate class (the target's own copies included).
// ok is false when the card is not part of the deck or has no catalog record.
func duplicateCounts(cardType catalog.CardType, cardID string, entries []deck.Entry, cat catalog.Lookup) (pile, dups int, ok bool) {
	inDeck := false
	for _, e := range entries {
		if e.Type == cardType && e.CardID == cardID {
			inDeck = true
			break
		}
	}
	if !inDeck {
		return 0, 0, false
	}
	target, found := cat.Lookup(cardType, cardID)
	if !found {
		return 0, 0, false
	}

	for _, slot := range deck.DrawPile(entries) {
		pile++
		if slot.Type != cardType {
			continue
		}
		other, found := cat.Lookup(slot.Type, slot.CardID)
		if !found {
			continue
		}
		if sameDuplicateClass(target, other) {
			dups++
		}
	}
	return pile, dups, true
}

// sameDuplicateClass decides whether two cards of the same type count as
// duplicates of each other. The class definition varies by type: specials
// pair on id and owner, teamworks on their printed gate and follow-up
// attacks, powers on value alone (any power type), and any two events are
// duplicates; everything else pairs on id.
func sameDuplicateClass(a, b *catalog.Card) bool {
	switch a.Type {
	case catalog.TypeSpecial:
		return a.ID == b.ID && a.Character == b.Character
	case catalog.TypeTeamwork:
		return a.ToUse == b.ToUse && a.FollowupAttackTypes == b.FollowupAttackTypes
	case catalog.TypePower:
		return a.Value == b.Value
	case catalog.TypeEvent:
		return true
	}
	return a.ID == b.ID
}

// binomial computes C(n, k) with the multiplicative formula, rounding the
// result to the nearest integer. The rounding slightly distorts ratios for
// large piles; it is kept deliberately so probabilities reproduce the
// established numbers exactly.
func binomial(n, k int) float64 {
	if n < 0 || k < 0 || k > n {
		return 0
	}
	if k == 0 || k == n {
		return 1
	}
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := 0; i < k; i++ {
		result = result * float64(n-i) / float64(i+1)
	}
	return math.Round(result)
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func pct(v float64) *float64 {
	return &v
}
