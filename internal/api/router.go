package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/overpower-tools/deckbuilder/internal/api/handlers"
	"github.com/overpower-tools/deckbuilder/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		deckHandler := handlers.NewDeckHandler(s.store, s.catalog, s.sessions)
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.ListDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Post("/import", deckHandler.ImportDeck)
			r.Route("/{deckID}", func(r chi.Router) {
				r.Get("/", deckHandler.GetDeck)
				r.Put("/", deckHandler.RenameDeck)
				r.Delete("/", deckHandler.DeleteDeck)
				r.Get("/validate", deckHandler.ValidateDeck)
				r.Get("/usability", deckHandler.GetUsability)
				r.Put("/cards", deckHandler.SetCard)
				r.Delete("/cards/{cardType}/{cardID}", deckHandler.RemoveCard)
				r.Get("/cards/{cardType}/{cardID}/duplicates", deckHandler.GetDuplicateStats)
				r.Get("/ko", deckHandler.ListKO)
				r.Post("/ko/{cardID}", deckHandler.ToggleKO)
				r.Delete("/ko/{cardID}", deckHandler.RemoveKO)
				r.Delete("/ko", deckHandler.ClearKO)
			})
		})

		cardHandler := handlers.NewCardHandler(s.catalog)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.ListCards)
			r.Get("/{cardType}/{cardID}", cardHandler.GetCard)
		})

		backupHandler := handlers.NewBackupHandler(s.store)
		r.Route("/backup", func(r chi.Router) {
			r.Get("/export", backupHandler.Export)
			r.Post("/import", backupHandler.Import)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "overpower-deckbuilder-api",
		"catalog": s.catalog.Len(),
	})
}
