package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/harborline/loanserve/internal/models"
	"github.com/harborline/loanserve/internal/repository"
	"github.com/harborline/loanserve/internal/service"
)

// GetLoan returns loan details to a caller who passed the access check.
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	_, loanID, ok := h.loanFromRequest(w, r)
	if !ok {
		return
	}

	loan, err := h.svc.GetLoan(r.Context(), loanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Access was confirmed first, so 404 leaks nothing here.
			writeError(w, http.StatusNotFound, "loan not found")
			return
		}
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// UpdateLoan applies a staff partial update restricted to the allow-listed
// mutable fields.
func (h *Handler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireStaff(w, r)
	if !ok {
		return
	}

	loanID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || loanID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	var update models.LoanUpdate
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: only allow-listed fields may be updated")
		return
	}

	loan, err := h.svc.UpdateLoan(r.Context(), loanID, update, identity.UserID)
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
	writeJSON(w, http.StatusOK, loan)
}
