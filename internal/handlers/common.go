package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/shelfsnap/shelfsnap/internal/library"
	"github.com/shelfsnap/shelfsnap/internal/queue"
)

const uploadsDir = "uploads"

// Handler serves the scan-queue HTTP API.
type Handler struct {
	orchestrator *queue.Orchestrator
	store        library.Store
}

// New creates a handler over a running orchestrator and its library store.
func New(orchestrator *queue.Orchestrator, store library.Store) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		store:        store,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) ensureUploadsDir() error {
	return os.MkdirAll(uploadsDir, 0755)
}
