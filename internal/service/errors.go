package service

import "fmt"

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeSelfTransfer       = "self_transfer"
	ErrCodeNonPositiveAmount  = "non_positive_amount"
	ErrCodeInvalidAmount      = "invalid_amount"
	ErrCodeInsufficientFunds  = "insufficient_funds"
	ErrCodeRecipientNotFound  = "recipient_not_found"
	ErrCodeAccountNotFound    = "account_not_found"
	ErrCodeTxNotFound         = "transaction_not_found"
	ErrCodeDuplicateIdentity  = "duplicate_identity"
	ErrCodeInvalidIdentity    = "invalid_identity"
	ErrCodeInvalidDirection   = "invalid_direction"
	ErrCodeInvalidQuery       = "invalid_query"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeInternalError      = "internal_error"
)

// internalError wraps a store or infrastructure failure unchanged.
func internalError(message string, err error) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeInternalError,
		Message: message,
		Err:     err,
	}
}
