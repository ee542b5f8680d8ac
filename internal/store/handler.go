package store

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/clk-66/mrfxp/internal/protocol"
)

// Handler serves the one-shot HTTP fallback path.
type Handler struct {
	store *Store
}

func NewHandler(s *Store) *Handler {
	return &Handler{store: s}
}

// POST /mrfxp/fetch
//
//	{"Message":"SitesData"}    → masked site list
//	{"Message":"SettingsData"} → section list
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	var body protocol.FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch body.Message {
	case protocol.FetchSitesData:
		sites, err := h.store.ListMaskedSites(r.Context())
		if err != nil {
			slog.Error("fetch sites", "err", err)
			writeError(w, http.StatusInternalServerError, "failed to list sites")
			return
		}
		writeJSON(w, http.StatusOK, sites)

	case protocol.FetchSettingsData:
		sections, err := h.store.ListSections(r.Context())
		if err != nil {
			slog.Error("fetch sections", "err", err)
			writeError(w, http.StatusInternalServerError, "failed to list sections")
			return
		}
		writeJSON(w, http.StatusOK, sections)

	default:
		writeError(w, http.StatusBadRequest, "unknown message")
	}
}

// ---- Helpers -------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
