package stats

import (
	"testing"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
	"github.com/overpower-tools/deckbuilder/internal/deck"
)

func powerCard(id string, value int) *catalog.Card {
	return &catalog.Card{Type: catalog.TypePower, ID: id, Name: id, PowerType: "Energy", Value: value}
}

func testCatalog() *catalog.Store {
	cat := catalog.NewStore()
	cat.Put(powerCard("p5", 5))
	cat.Put(powerCard("p5b", 5)) // same value, different card: still a duplicate
	cat.Put(powerCard("p6", 6))
	cat.Put(powerCard("p7", 7))
	cat.Put(&catalog.Card{Type: catalog.TypeSpecial, ID: "s1", Name: "Overload", Character: "Surge"})
	cat.Put(&catalog.Card{Type: catalog.TypeSpecial, ID: "s1x", Name: "Overload", Character: "Oracle"})
	cat.Put(&catalog.Card{Type: catalog.TypeEvent, ID: "e1", Name: "Ambush", MissionSet: "Alpha"})
	cat.Put(&catalog.Card{Type: catalog.TypeEvent, ID: "e2", Name: "Betrayal", MissionSet: "Alpha"})
	cat.Put(&catalog.Card{
		Type: catalog.TypeTeamwork, ID: "t1", Name: "Flank",
		ToUse: "6 Combat", FollowupAttackTypes: "Energy, Combat",
	})
	cat.Put(&catalog.Card{
		Type: catalog.TypeTeamwork, ID: "t2", Name: "Pincer",
		ToUse: "6 Combat", FollowupAttackTypes: "Energy, Combat",
	})
	cat.Put(&catalog.Card{
		Type: catalog.TypeTeamwork, ID: "t3", Name: "Ambush Pair",
		ToUse: "6 Combat", FollowupAttackTypes: "Intelligence",
	})
	return cat
}

func TestFirstHandProbability(t *testing.T) {
	cat := testCatalog()

	t.Run("standard pile returns a probability strictly between 0 and 100", func(t *testing.T) {
		entries := []deck.Entry{
			{Type: catalog.TypePower, CardID: "p5", Quantity: 4},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 47},
		}
		got := FirstHandProbability(catalog.TypePower, "p5", entries, cat)
		if got == nil {
			t.Fatal("expected a probability, got nil")
		}
		if *got <= 0 || *got >= 100 {
			t.Errorf("probability = %v, want in (0, 100)", *got)
		}
	})

	t.Run("no duplicates yields zero", func(t *testing.T) {
		entries := []deck.Entry{
			{Type: catalog.TypePower, CardID: "p5", Quantity: 1},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 50},
		}
		got := FirstHandProbability(catalog.TypePower, "p5", entries, cat)
		if got == nil || *got != 0 {
			t.Errorf("probability = %v, want 0", got)
		}
	})

	t.Run("card not in deck", func(t *testing.T) {
		entries := []deck.Entry{{Type: catalog.TypePower, CardID: "p6", Quantity: 51}}
		if got := FirstHandProbability(catalog.TypePower, "p5", entries, cat); got != nil {
			t.Errorf("probability = %v, want nil", *got)
		}
	})

	t.Run("empty pile", func(t *testing.T) {
		entries := []deck.Entry{{Type: catalog.TypePower, CardID: "p5", Quantity: 2, ExcludeFromDraw: true}}
		if got := FirstHandProbability(catalog.TypePower, "p5", entries, cat); got != nil {
			t.Errorf("probability = %v, want nil", *got)
		}
	})

	t.Run("pile smaller than a hand is deterministic", func(t *testing.T) {
		entries := []deck.Entry{
			{Type: catalog.TypePower, CardID: "p5", Quantity: 2},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 3},
		}
		got := FirstHandProbability(catalog.TypePower, "p5", entries, cat)
		if got == nil || *got != 100 {
			t.Errorf("probability = %v, want 100", got)
		}

		entries[0].Quantity = 1
		got = FirstHandProbability(catalog.TypePower, "p5", entries, cat)
		if got == nil || *got != 0 {
			t.Errorf("probability = %v, want 0", got)
		}
	})

	t.Run("powers pair on value across different cards", func(t *testing.T) {
		withSameValue := []deck.Entry{
			{Type: catalog.TypePower, CardID: "p5", Quantity: 2},
			{Type: catalog.TypePower, CardID: "p5b", Quantity: 2},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 47},
		}
		withOtherValue := []deck.Entry{
			{Type: catalog.TypePower, CardID: "p5", Quantity: 2},
			{Type: catalog.TypePower, CardID: "p7", Quantity: 2},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 47},
		}
		same := FirstHandProbability(catalog.TypePower, "p5", withSameValue, cat)
		other := FirstHandProbability(catalog.TypePower, "p5", withOtherValue, cat)
		if same == nil || other == nil {
			t.Fatal("expected probabilities")
		}
		if *same <= *other {
			t.Errorf("same-value pile %v should exceed other-value pile %v", *same, *other)
		}
	})

	t.Run("events are all duplicates of each other", func(t *testing.T) {
		entries := []deck.Entry{
			{Type: catalog.TypeEvent, CardID: "e1", Quantity: 1},
			{Type: catalog.TypeEvent, CardID: "e2", Quantity: 1},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 49},
		}
		got := FirstHandProbability(catalog.TypeEvent, "e1", entries, cat)
		if got == nil || *got <= 0 {
			t.Errorf("probability = %v, want > 0 (distinct events still pair)", got)
		}
	})

	t.Run("specials pair on id and owner", func(t *testing.T) {
		entries := []deck.Entry{
			{Type: catalog.TypeSpecial, CardID: "s1", Quantity: 1},
			{Type: catalog.TypeSpecial, CardID: "s1x", Quantity: 1},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 49},
		}
		// Same name, different owner: not a duplicate pair.
		got := FirstHandProbability(catalog.TypeSpecial, "s1", entries, cat)
		if got == nil || *got != 0 {
			t.Errorf("probability = %v, want 0", got)
		}
	})

	t.Run("teamworks pair on gate and follow-up attacks", func(t *testing.T) {
		entries := []deck.Entry{
			{Type: catalog.TypeTeamwork, CardID: "t1", Quantity: 1},
			{Type: catalog.TypeTeamwork, CardID: "t2", Quantity: 1},
			{Type: catalog.TypeTeamwork, CardID: "t3", Quantity: 1},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 48},
		}
		got := FirstHandProbability(catalog.TypeTeamwork, "t1", entries, cat)
		if got == nil || *got <= 0 {
			t.Errorf("probability = %v, want > 0 (t2 matches t1's gate and follow-ups)", got)
		}

		only := []deck.Entry{
			{Type: catalog.TypeTeamwork, CardID: "t1", Quantity: 1},
			{Type: catalog.TypeTeamwork, CardID: "t3", Quantity: 1},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 49},
		}
		got = FirstHandProbability(catalog.TypeTeamwork, "t1", only, cat)
		if got == nil || *got != 0 {
			t.Errorf("probability = %v, want 0 (t3 differs in follow-up attacks)", got)
		}
	})
}

func TestAfterPlacementProbability(t *testing.T) {
	cat := testCatalog()

	t.Run("fewer than two duplicates yields zero", func(t *testing.T) {
		entries := []deck.Entry{
			{Type: catalog.TypePower, CardID: "p5", Quantity: 1},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 50},
		}
		got := AfterPlacementProbability(catalog.TypePower, "p5", entries, cat)
		if got == nil || *got != 0 {
			t.Errorf("probability = %v, want 0", got)
		}
	})

	t.Run("pile exhausted by the first hand", func(t *testing.T) {
		entries := []deck.Entry{{Type: catalog.TypePower, CardID: "p5", Quantity: 8}}
		if got := AfterPlacementProbability(catalog.TypePower, "p5", entries, cat); got != nil {
			t.Errorf("probability = %v, want nil", *got)
		}
	})

	t.Run("small remainder with duplicates is certain", func(t *testing.T) {
		entries := []deck.Entry{
			{Type: catalog.TypePower, CardID: "p5", Quantity: 3},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 7},
		}
		got := AfterPlacementProbability(catalog.TypePower, "p5", entries, cat)
		if got == nil || *got != 100 {
			t.Errorf("probability = %v, want 100", got)
		}
	})

	t.Run("standard pile", func(t *testing.T) {
		entries := []deck.Entry{
			{Type: catalog.TypePower, CardID: "p5", Quantity: 4},
			{Type: catalog.TypePower, CardID: "p6", Quantity: 47},
		}
		got := AfterPlacementProbability(catalog.TypePower, "p5", entries, cat)
		if got == nil {
			t.Fatal("expected a probability, got nil")
		}
		if *got <= 0 || *got >= 100 {
			t.Errorf("probability = %v, want in (0, 100)", *got)
		}
	})

	t.Run("card not in deck", func(t *testing.T) {
		entries := []deck.Entry{{Type: catalog.TypePower, CardID: "p6", Quantity: 51}}
		if got := AfterPlacementProbability(catalog.TypePower, "p5", entries, cat); got != nil {
			t.Errorf("probability = %v, want nil", *got)
		}
	})
}

func TestComputeDuplicateStats(t *testing.T) {
	cat := testCatalog()
	entries := []deck.Entry{
		{Type: catalog.TypePower, CardID: "p5", Quantity: 4},
		{Type: catalog.TypePower, CardID: "p6", Quantity: 47},
	}
	s := ComputeDuplicateStats(catalog.TypePower, "p5", entries, cat)
	if s.FirstHand == nil || s.AfterPlacement == nil {
		t.Fatal("expected both probabilities")
	}
	if *s.FirstHand < 0 || *s.FirstHand > 100 || *s.AfterPlacement < 0 || *s.AfterPlacement > 100 {
		t.Errorf("probabilities out of range: %+v", s)
	}
}

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k int
		want float64
	}{
		{8, 0, 1},
		{8, 8, 1},
		{8, 1, 8},
		{5, 2, 10},
		{51, 8, 636763050},
		{7, 8, 0},
		{-1, 2, 0},
		{4, -1, 0},
	}
	for _, tt := range tests {
		if got := binomial(tt.n, tt.k); got != tt.want {
			t.Errorf("binomial(%d, %d) = %v, want %v", tt.n, tt.k, got, tt.want)
		}
	}
}
