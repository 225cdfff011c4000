package handlers

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/stautonico/banking-simulator/internal/service"
)

// CreateTransaction handles POST /api/v1/accounts/{accountNumber}/transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	sender, err := bindAccountNumber(r)
	if err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}

	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, service.ErrCodeInvalidAmount, err.Error())
		return
	}

	entry, err := h.ledger.Send(r.Context(), sender, req.Recipient, amount)
	if err != nil {
		h.writeServiceError(w, "send", err)
		return
	}

	h.logger.Info("money sent",
		"transaction_id", entry.ID,
		"sender", entry.Sender,
		"recipient", entry.Recipient,
		"amount", entry.Amount.StringFixed(2),
	)
	writeJSON(w, http.StatusCreated, newLedgerEntryResponse(entry))
}

// ListTransactions handles GET /api/v1/accounts/{accountNumber}/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountNumber, err := bindAccountNumber(r)
	if err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}

	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, ErrCodeInvalidRequest, "invalid format for parameter limit: "+err.Error())
		return
	}
	requested := 0
	if limit != nil {
		requested = *limit
	}

	entries, err := h.ledger.ListTransactions(r.Context(), accountNumber, requested)
	if err != nil {
		h.writeServiceError(w, "history lookup", err)
		return
	}

	resp := transactionListResponse{Transactions: make([]ledgerEntryResponse, 0, len(entries))}
	for i := range entries {
		resp.Transactions = append(resp.Transactions, newLedgerEntryResponse(&entries[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetTransaction handles GET /api/v1/accounts/{accountNumber}/transactions/{transactionId}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	accountNumber, err := bindAccountNumber(r)
	if err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}
	id, err := parseTransactionID(r.PathValue("transactionId"))
	if err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}

	entry, err := h.ledger.GetTransaction(r.Context(), accountNumber, id)
	if err != nil {
		h.writeServiceError(w, "transaction lookup", err)
		return
	}

	writeJSON(w, http.StatusOK, newLedgerEntryResponse(entry))
}

// CreateTransfer handles POST /api/v1/accounts/{accountNumber}/transfers
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	accountNumber, err := bindAccountNumber(r)
	if err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}

	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, service.ErrCodeInvalidAmount, err.Error())
		return
	}

	account, err := h.ledger.Transfer(r.Context(), accountNumber, req.Direction, amount)
	if err != nil {
		h.writeServiceError(w, "transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account))
}
