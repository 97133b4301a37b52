package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/overpower-tools/deckbuilder/internal/api/response"
	"github.com/overpower-tools/deckbuilder/internal/catalog"
)

// CardHandler handles catalog card API requests.
type CardHandler struct {
	catalog *catalog.Store
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cat *catalog.Store) *CardHandler {
	return &CardHandler{catalog: cat}
}

// ListCards returns all catalog cards of the requested type.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cardType := r.URL.Query().Get("type")
	if cardType == "" {
		response.BadRequest(w, errors.New("type query parameter is required"))
		return
	}
	response.Success(w, h.catalog.ByType(catalog.CardType(cardType)))
}

// GetCard returns one catalog card.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardType := catalog.CardType(chi.URLParam(r, "cardType"))
	cardID := chi.URLParam(r, "cardID")

	card, found := h.catalog.Lookup(cardType, cardID)
	if !found {
		response.NotFound(w, errors.New("card not found"))
		return
	}
	response.Success(w, card)
}
