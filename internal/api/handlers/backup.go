package handlers

import (
	"fmt"
	"net/http"

	"github.com/overpower-tools/deckbuilder/internal/api/response"
	"github.com/overpower-tools/deckbuilder/internal/storage"
)

// BackupHandler handles deck backup export and import.
type BackupHandler struct {
	store *storage.Service
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(store *storage.Service) *BackupHandler {
	return &BackupHandler{store: store}
}

// Export streams a backup of all decks. The optional password query parameter
// switches the payload to the encrypted format.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	password := r.URL.Query().Get("password")

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="decks-backup.opd"`)

	if err := h.store.ExportDecks(r.Context(), w, password); err != nil {
		// Headers may already be out; all we can do is log via the error path.
		response.InternalError(w, err)
	}
}

// Import restores decks from a backup payload in the request body. Encrypted
// backups need the password query parameter.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	password := r.URL.Query().Get("password")

	count, err := h.store.ImportDecks(r.Context(), r.Body, password)
	if err != nil {
		response.BadRequest(w, fmt.Errorf("backup import failed: %w", err))
		return
	}
	response.Success(w, map[string]int{"imported": count})
}
