package handlers

import (
	"net/http"
	"strings"
)

// HandleLibrary serves GET /api/library: all completed scans.
func (h *Handler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.store.List())
}

// HandleLibraryDetail serves GET and DELETE /api/library/{id}.
func (h *Handler) HandleLibraryDetail(w http.ResponseWriter, r *http.Request) {
	recordID := strings.TrimPrefix(r.URL.Path, "/api/library/")

	switch r.Method {
	case "GET":
		record, ok := h.store.Get(recordID)
		if !ok {
			h.writeError(w, "Record not found", http.StatusNotFound)
			return
		}
		h.writeJSON(w, record)
	case "DELETE":
		h.store.Delete(recordID)
		h.writeJSON(w, map[string]string{"status": "deleted"})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
