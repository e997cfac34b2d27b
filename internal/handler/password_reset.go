package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset issues a reset token for the given email. The
// response never reveals whether the account exists.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), email); err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "If the account exists, a reset email has been sent",
	})
}
