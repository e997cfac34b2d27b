package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/harborline/loanserve/internal/export"
	"github.com/harborline/loanserve/internal/models"
)

// ListAuditEntries returns the audit trail for one loan. Staff only.
func (h *Handler) ListAuditEntries(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireStaff(w, r); !ok {
		return
	}

	loanID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || loanID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	entries, err := h.svc.ListAuditEntries(r.Context(), loanID, limit)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if entries == nil {
		entries = []models.AuditLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ExportAuditTrail streams an XML compliance export of recent audit
// entries. Admin only.
func (h *Handler) ExportAuditTrail(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireStaff(w, r)
	if !ok {
		return
	}
	if identity.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	entries, err := h.svc.ListAuditEntries(r.Context(), 0, 1000)
	if err != nil {
		h.internalError(w, err)
		return
	}

	out, err := export.AuditTrailXML(entries, time.Now().UTC())
	if err != nil {
		h.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-trail.xml"`)
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}
