package handler

import (
	"net/http"

	"github.com/harborline/loanserve/internal/middleware"
)

// GetCSRFToken issues a fresh token bound to the caller's session.
func (h *Handler) GetCSRFToken(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := h.guard.IssueToken(identity.SessionID)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}
