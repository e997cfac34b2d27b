package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/harborline/loanserve/internal/repository"
	"github.com/harborline/loanserve/internal/service"
)

type payoffRequest struct {
	GoodThroughDate string `json:"goodThroughDate"`
}

// CreatePayoffStatement computes a payoff breakdown good through the
// requested date. Malformed or past dates are rejected with 400.
func (h *Handler) CreatePayoffStatement(w http.ResponseWriter, r *http.Request) {
	identity, loanID, ok := h.loanFromRequest(w, r)
	if !ok {
		return
	}

	var req payoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goodThrough, err := time.ParseInLocation("2006-01-02", req.GoodThroughDate, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "goodThroughDate must be YYYY-MM-DD")
		return
	}

	breakdown, err := h.svc.GeneratePayoffStatement(r.Context(), loanID, goodThrough, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "loan not found")
		default:
			h.internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}
