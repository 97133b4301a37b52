package deck

import "sync"

// KOSession tracks which characters are marked knocked out during one
// deck-editing session. It is an explicit per-session object, created empty
// when a deck is opened and discarded with it; callers that serve concurrent
// requests for the same deck share one instance.
type KOSession struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewKOSession returns an empty KO session.
func NewKOSession() *KOSession {
	return &KOSession{ids: make(map[string]struct{})}
}

// Toggle flips the KO state of a character card id and returns the new state
// (true = knocked out).
func (s *KOSession) Toggle(cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[cardID]; ok {
		delete(s.ids, cardID)
		return false
	}
	s.ids[cardID] = struct{}{}
	return true
}

// Remove clears the KO state of a character card id. Called when the
// character is removed from the deck, keeping the session a subset of the
// deck's characters.
func (s *KOSession) Remove(cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, cardID)
}

// Clear resets the session.
func (s *KOSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

// IsKO reports whether the character card id is knocked out.
func (s *KOSession) IsKO(cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[cardID]
	return ok
}

// Snapshot returns the current KO set as a plain map, safe for the caller to
// hold while the session keeps changing.
func (s *KOSession) Snapshot() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.ids))
	for id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}
