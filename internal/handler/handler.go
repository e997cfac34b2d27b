package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/harborline/loanserve/internal/access"
	"github.com/harborline/loanserve/internal/csrf"
	"github.com/harborline/loanserve/internal/ledger"
	"github.com/harborline/loanserve/internal/middleware"
	"github.com/harborline/loanserve/internal/models"
	"github.com/harborline/loanserve/internal/service"
	"github.com/sirupsen/logrus"
)

// Handler wires HTTP requests to the trust layer and business services.
type Handler struct {
	svc    *service.Service
	ledger *ledger.Ledger
	access *access.Checker
	guard  *csrf.Guard
	log    *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, l *ledger.Ledger, checker *access.Checker, guard *csrf.Guard, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, ledger: l, access: checker, guard: guard, log: log}
}

// loanFromRequest resolves the identity, loan id, and access decision
// shared by every loan-scoped endpoint. A denied check writes 403 (never
// 404, so existence is not leaked) and returns false.
func (h *Handler) loanFromRequest(w http.ResponseWriter, r *http.Request) (models.Identity, int64, bool) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return models.Identity{}, 0, false
	}

	loanID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || loanID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return models.Identity{}, 0, false
	}

	allowed, err := h.access.CanAccessLoan(r.Context(), identity.UserID, loanID, identity.Role)
	if err != nil {
		h.internalError(w, err)
		return models.Identity{}, 0, false
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "Forbidden")
		return models.Identity{}, 0, false
	}
	return identity, loanID, true
}

// requireStaff rejects non-staff callers with 403.
func (h *Handler) requireStaff(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return models.Identity{}, false
	}
	if !identity.IsStaff() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return models.Identity{}, false
	}
	return identity, true
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.log.Errorf("Internal error: %v", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
