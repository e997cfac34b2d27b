package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborline/loanserve/internal/ledger"
	"github.com/harborline/loanserve/internal/models"
)

// IdempotencyKeyHeader must accompany every financial mutation.
const IdempotencyKeyHeader = "Idempotency-Key"

// CreateTransaction creates a financial transaction exactly once per
// idempotency key. First creation answers 201; a replay answers 200 with
// the original row.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	identity, loanID, ok := h.loanFromRequest(w, r)
	if !ok {
		return
	}

	idempotencyKey := r.Header.Get(IdempotencyKeyHeader)
	if idempotencyKey == "" {
		writeError(w, http.StatusBadRequest, "Idempotency-Key header is required")
		return
	}

	var in ledger.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.LoanID = loanID

	tx, created, err := h.ledger.CreateTransaction(r.Context(), idempotencyKey, in, identity.UserID)
	if err != nil {
		if errors.Is(err, ledger.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, tx)
}

// ListTransactions returns a loan's transactions, newest first.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	_, loanID, ok := h.loanFromRequest(w, r)
	if !ok {
		return
	}

	transactions, err := h.svc.ListTransactions(r.Context(), loanID)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}
