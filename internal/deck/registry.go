package deck

import "sync"

// SessionRegistry hands out one KO session per open deck. Sessions are
// created lazily on first access and dropped when their deck is deleted.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*KOSession
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*KOSession)}
}

// Session returns the KO session for a deck, creating it if needed.
func (r *SessionRegistry) Session(deckID string) *KOSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[deckID]
	if !ok {
		s = NewKOSession()
		r.sessions[deckID] = s
	}
	return s
}

// Drop discards a deck's session.
func (r *SessionRegistry) Drop(deckID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, deckID)
}
