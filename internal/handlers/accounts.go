package handlers

import (
	"net/http"

	"github.com/stautonico/banking-simulator/internal/service"
)

// CreateAccount handles POST /api/v1/accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}

	account, err := h.accounts.Register(r.Context(), service.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		h.writeServiceError(w, "registration", err)
		return
	}

	h.logger.Info("account registered", "account_number", account.AccountNumber)
	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

// CreateSession handles POST /api/v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

// GetAccount handles GET /api/v1/accounts/{accountNumber}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountNumber, err := bindAccountNumber(r)
	if err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), accountNumber)
	if err != nil {
		h.writeServiceError(w, "account lookup", err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account))
}
