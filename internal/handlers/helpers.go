package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"github.com/stautonico/banking-simulator/internal/service"
)

// Error codes produced by the HTTP layer itself
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNotFound       = "not_found"
)

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeSelfTransfer,
		service.ErrCodeNonPositiveAmount,
		service.ErrCodeInvalidAmount,
		service.ErrCodeInvalidIdentity,
		service.ErrCodeInvalidDirection,
		service.ErrCodeInvalidQuery,
		ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case service.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case service.ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case service.ErrCodeAccountNotFound,
		service.ErrCodeRecipientNotFound,
		service.ErrCodeTxNotFound,
		ErrCodeNotFound:
		return http.StatusNotFound
	case service.ErrCodeDuplicateIdentity:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func extractServiceError(err error) *service.ServiceError {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Best effort response writing
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code, message string) {
	writeJSON(w, statusForCode(code), errorResponse{Error: code, Message: message})
}

// writeServiceError maps a service failure onto its HTTP response. Internal
// causes are logged and never echoed to the client.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	svcErr := extractServiceError(err)
	if svcErr == nil || svcErr.Code == service.ErrCodeInternalError {
		h.logger.Error("unexpected error during "+op, "error", err)
		writeError(w, service.ErrCodeInternalError, "internal error")
		return
	}
	writeError(w, svcErr.Code, svcErr.Message)
}

func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not a decimal number", raw)
	}
	return amount, nil
}

func bindAccountNumber(r *http.Request) (int64, error) {
	var accountNumber int64
	err := runtime.BindStyledParameterWithOptions("simple", "accountNumber", r.PathValue("accountNumber"), &accountNumber, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter accountNumber: %w", err)
	}
	return accountNumber, nil
}

// parseTransactionID reads a txn_-prefixed ledger entry id.
func parseTransactionID(raw string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(raw, PrefixTransaction)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid transaction ID format: missing %s prefix", PrefixTransaction)
	}

	id, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid transaction ID format: %w", err)
	}
	return id, nil
}
