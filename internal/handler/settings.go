package handler

import (
	"encoding/json"
	"net/http"

	"github.com/harborline/loanserve/internal/models"
)

// UpdateSettings writes the organization configuration and invalidates the
// cache. Staff only.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireStaff(w, r)
	if !ok {
		return
	}

	var cfg models.OrgConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if cfg.FeeSchedule.RecordingFee < 0 || cfg.FeeSchedule.PayoffProcessingFee < 0 {
		writeError(w, http.StatusBadRequest, "fees must not be negative")
		return
	}

	if err := h.svc.UpdateSettings(r.Context(), cfg, identity.UserID); err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
