package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/overpower-tools/deckbuilder/internal/api/response"
	"github.com/overpower-tools/deckbuilder/internal/catalog"
	"github.com/overpower-tools/deckbuilder/internal/deck"
	"github.com/overpower-tools/deckbuilder/internal/importer"
	"github.com/overpower-tools/deckbuilder/internal/rules"
	"github.com/overpower-tools/deckbuilder/internal/stats"
	"github.com/overpower-tools/deckbuilder/internal/storage"
)

// DeckHandler handles deck-related API requests.
type DeckHandler struct {
	store    *storage.Service
	catalog  *catalog.Store
	sessions *deck.SessionRegistry
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(store *storage.Service, cat *catalog.Store, sessions *deck.SessionRegistry) *DeckHandler {
	return &DeckHandler{store: store, catalog: cat, sessions: sessions}
}

// DeckResponse is a deck header with its full entry list.
type DeckResponse struct {
	*storage.DeckRecord
	Entries []deck.Entry `json:"entries"`
}

// ListDecks returns all deck headers.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.store.ListDecks(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, decks)
}

// CreateDeckRequest represents a request to create a deck.
type CreateDeckRequest struct {
	Name string `json:"name"`
}

// CreateDeck creates a new empty deck.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}

	record, err := h.store.CreateDeck(r.Context(), req.Name)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Created(w, DeckResponse{DeckRecord: record})
}

// GetDeck returns a deck with its entries.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}
	entries, err := h.store.GetDeckEntries(r.Context(), record.ID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, DeckResponse{DeckRecord: record, Entries: entries})
}

// RenameDeckRequest represents a request to rename a deck.
type RenameDeckRequest struct {
	Name string `json:"name"`
}

// RenameDeck updates a deck's name.
func (h *DeckHandler) RenameDeck(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}

	var req RenameDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}

	if err := h.store.RenameDeck(r.Context(), record.ID, req.Name); err != nil {
		response.InternalError(w, err)
		return
	}

	record, err := h.store.GetDeckRecord(r.Context(), record.ID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, record)
}

// DeleteDeck deletes a deck and discards its KO session.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteDeck(r.Context(), record.ID); err != nil {
		response.InternalError(w, err)
		return
	}
	h.sessions.Drop(record.ID)
	response.NoContent(w)
}

// SetCardRequest represents a request to set one deck entry's quantity.
type SetCardRequest struct {
	Type            catalog.CardType `json:"type"`
	CardID          string           `json:"card_id"`
	Quantity        int              `json:"quantity"`
	ExcludeFromDraw bool             `json:"exclude_from_draw"`
}

// SetCard inserts, updates or removes one deck entry. Quantity 0 removes it.
func (h *DeckHandler) SetCard(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}

	var req SetCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Type == "" || req.CardID == "" {
		response.BadRequest(w, errors.New("card type and id are required"))
		return
	}

	err := h.store.SetDeckCard(r.Context(), record.ID, deck.Entry{
		Type:            req.Type,
		CardID:          req.CardID,
		Quantity:        req.Quantity,
		ExcludeFromDraw: req.ExcludeFromDraw,
	})
	if err != nil {
		response.InternalError(w, err)
		return
	}

	// A character leaving the deck must also leave the KO session.
	if req.Type == catalog.TypeCharacter && req.Quantity <= 0 {
		h.sessions.Session(record.ID).Remove(req.CardID)
	}

	entries, err := h.store.GetDeckEntries(r.Context(), record.ID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, DeckResponse{DeckRecord: record, Entries: entries})
}

// RemoveCard removes one entry from a deck.
func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}
	cardType := catalog.CardType(chi.URLParam(r, "cardType"))
	cardID := chi.URLParam(r, "cardID")

	if err := h.store.RemoveDeckCard(r.Context(), record.ID, cardType, cardID); err != nil {
		response.InternalError(w, err)
		return
	}
	if cardType == catalog.TypeCharacter {
		h.sessions.Session(record.ID).Remove(cardID)
	}
	response.NoContent(w)
}

// ValidateDeck runs the full construction validator over a deck.
func (h *DeckHandler) ValidateDeck(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}
	entries, err := h.store.GetDeckEntries(r.Context(), record.ID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, rules.Validate(entries, h.catalog))
}

// CardUsability is the per-entry usability verdict for the current KO state.
type CardUsability struct {
	Type      catalog.CardType `json:"type"`
	CardID    string           `json:"card_id"`
	Name      string           `json:"name,omitempty"`
	Quantity  int              `json:"quantity"`
	InCatalog bool             `json:"in_catalog"`
	Usable    bool             `json:"usable"`
}

// UsabilityResponse pairs the KO state with every entry's verdict.
type UsabilityResponse struct {
	KO    []string        `json:"ko"`
	Cards []CardUsability `json:"cards"`
}

// GetUsability evaluates every deck entry against the active team. The ko
// query parameter overrides the session's KO set for one evaluation.
func (h *DeckHandler) GetUsability(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}
	entries, err := h.store.GetDeckEntries(r.Context(), record.ID)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	ko := h.sessions.Session(record.ID).Snapshot()
	if q := r.URL.Query().Get("ko"); q != "" {
		ko = make(map[string]struct{})
		for _, id := range strings.Split(q, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ko[id] = struct{}{}
			}
		}
	}
	team := rules.AssembleTeam(entries, ko, h.catalog)

	resp := UsabilityResponse{KO: sortedIDs(ko), Cards: make([]CardUsability, 0, len(entries))}
	for _, e := range entries {
		cu := CardUsability{Type: e.Type, CardID: e.CardID, Quantity: e.Quantity}
		if card, found := h.catalog.Lookup(e.Type, e.CardID); found {
			cu.Name = card.Name
			cu.InCatalog = true
			cu.Usable = rules.IsUsable(card, team)
		}
		resp.Cards = append(resp.Cards, cu)
	}
	response.Success(w, resp)
}

// KOState reports one character's KO flag after a toggle.
type KOState struct {
	CardID string `json:"card_id"`
	KO     bool   `json:"ko"`
}

// ToggleKO flips the KO state of one of the deck's characters.
func (h *DeckHandler) ToggleKO(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}
	cardID := chi.URLParam(r, "cardID")

	entries, err := h.store.GetDeckEntries(r.Context(), record.ID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if !hasCharacter(entries, cardID) {
		response.NotFound(w, errors.New("character not in deck"))
		return
	}

	ko := h.sessions.Session(record.ID).Toggle(cardID)
	response.Success(w, KOState{CardID: cardID, KO: ko})
}

// RemoveKO clears the KO state of one character.
func (h *DeckHandler) RemoveKO(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}
	h.sessions.Session(record.ID).Remove(chi.URLParam(r, "cardID"))
	response.NoContent(w)
}

// ListKO returns the deck's knocked-out character ids.
func (h *DeckHandler) ListKO(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}
	ko := h.sessions.Session(record.ID).Snapshot()
	response.Success(w, map[string][]string{"ko": sortedIDs(ko)})
}

// ClearKO resets the deck's KO session.
func (h *DeckHandler) ClearKO(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}
	h.sessions.Session(record.ID).Clear()
	response.NoContent(w)
}

// GetDuplicateStats returns duplicate-draw probabilities for one deck card.
func (h *DeckHandler) GetDuplicateStats(w http.ResponseWriter, r *http.Request) {
	record, ok := h.requireDeck(w, r)
	if !ok {
		return
	}
	cardType := catalog.CardType(chi.URLParam(r, "cardType"))
	cardID := chi.URLParam(r, "cardID")

	entries, err := h.store.GetDeckEntries(r.Context(), record.ID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, stats.ComputeDuplicateStats(cardType, cardID, entries, h.catalog))
}

// ImportDeckRequest represents a request to import a deck list. Partial
// imports defer the size and budget rules until the deck is complete.
type ImportDeckRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Partial bool   `json:"partial"`
}

// ImportDeckResponse is the outcome of a deck-list import.
type ImportDeckResponse struct {
	Deck       DeckResponse `json:"deck"`
	Warnings   []string     `json:"warnings,omitempty"`
	Validation rules.Result `json:"validation"`
}

// ImportDeck parses a deck list, saves it as a new deck, and reports the
// validation outcome. Partial imports filter the size and budget errors a
// still-growing deck cannot satisfy; ownership and usability errors are
// always reported.
func (h *DeckHandler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	var req ImportDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}
	if req.Content == "" {
		response.BadRequest(w, errors.New("deck content is required"))
		return
	}

	parsed := importer.NewParser(h.catalog).Parse(req.Content)
	if !parsed.ParsedOK() {
		response.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"errors":   parsed.Errors,
			"warnings": parsed.Warnings,
		})
		return
	}

	record, err := h.store.CreateDeck(r.Context(), req.Name)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if err := h.store.ReplaceDeckEntries(r.Context(), record.ID, parsed.Entries); err != nil {
		response.InternalError(w, err)
		return
	}

	validation := rules.Validate(parsed.Entries, h.catalog)
	if req.Partial {
		validation = importer.ValidatePartial(parsed.Entries, h.catalog)
	}

	response.Created(w, ImportDeckResponse{
		Deck:       DeckResponse{DeckRecord: record, Entries: parsed.Entries},
		Warnings:   parsed.Warnings,
		Validation: validation,
	})
}

// requireDeck resolves the deckID route parameter, writing the error response
// when the deck does not exist.
func (h *DeckHandler) requireDeck(w http.ResponseWriter, r *http.Request) (*storage.DeckRecord, bool) {
	deckID := chi.URLParam(r, "deckID")
	if deckID == "" {
		response.BadRequest(w, errors.New("deck ID is required"))
		return nil, false
	}
	record, err := h.store.GetDeckRecord(r.Context(), deckID)
	if err != nil {
		response.InternalError(w, err)
		return nil, false
	}
	if record == nil {
		response.NotFound(w, errors.New("deck not found"))
		return nil, false
	}
	return record, true
}

func hasCharacter(entries []deck.Entry, cardID string) bool {
	for _, e := range entries {
		if e.Type == catalog.TypeCharacter && e.CardID == cardID {
			return true
		}
	}
	return false
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
