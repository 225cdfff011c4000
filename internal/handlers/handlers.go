// Package handlers implements HTTP handlers for the bank API.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/stautonico/banking-simulator/internal/service"
)

// Handler serves every endpoint of the bank API
type Handler struct {
	accounts      service.Registrar
	ledger        service.Ledger
	directory     service.Directory
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	accounts service.Registrar,
	ledger service.Ledger,
	directory service.Directory,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		accounts:      accounts,
		ledger:        ledger,
		directory:     directory,
		healthChecker: healthChecker,
		logger:        logger,
	}
}

// Mount registers the API routes on mux.
func (h *Handler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.GetHealth)

	mux.HandleFunc("POST /api/v1/accounts", h.CreateAccount)
	mux.HandleFunc("POST /api/v1/sessions", h.CreateSession)
	mux.HandleFunc("GET /api/v1/accounts/{accountNumber}", h.GetAccount)

	mux.HandleFunc("POST /api/v1/accounts/{accountNumber}/transactions", h.CreateTransaction)
	mux.HandleFunc("GET /api/v1/accounts/{accountNumber}/transactions", h.ListTransactions)
	mux.HandleFunc("GET /api/v1/accounts/{accountNumber}/transactions/{transactionId}", h.GetTransaction)
	mux.HandleFunc("POST /api/v1/accounts/{accountNumber}/transfers", h.CreateTransfer)

	mux.HandleFunc("GET /api/v1/directory/search", h.FindAccountNumber)
	mux.HandleFunc("GET /api/v1/directory/accounts/{accountNumber}", h.FindIdentity)
}
