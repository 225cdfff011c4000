package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/stautonico/banking-simulator/internal/models"
)

// PrefixTransaction marks ledger entry ids in API responses
const PrefixTransaction = "txn_"

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sendRequest struct {
	Amount    string `json:"amount"`
	Recipient int64  `json:"recipient_account_number"`
}

type transferRequest struct {
	Direction models.Direction `json:"direction"`
	Amount    string           `json:"amount"`
}

type accountResponse struct {
	CreatedAt     time.Time `json:"created_at"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Checking      string    `json:"checking"`
	Savings       string    `json:"savings"`
	Total         string    `json:"total"`
	AccountNumber int64     `json:"account_number"`
}

type ledgerEntryResponse struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Amount    string    `json:"amount"`
	Sender    int64     `json:"sender"`
	Recipient int64     `json:"recipient"`
}

type transactionListResponse struct {
	Transactions []ledgerEntryResponse `json:"transactions"`
}

type directoryMatchResponse struct {
	AccountNumber int64 `json:"account_number"`
}

type ownerNameResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func formatTransactionID(id uuid.UUID) string {
	return PrefixTransaction + id.String()
}

func newAccountResponse(account *models.Account) accountResponse {
	return accountResponse{
		AccountNumber: account.AccountNumber,
		Username:      account.Owner.Username,
		Email:         account.Owner.Email,
		FirstName:     account.Owner.FirstName,
		LastName:      account.Owner.LastName,
		Checking:      account.Checking.StringFixed(2),
		Savings:       account.Savings.StringFixed(2),
		Total:         account.Total().StringFixed(2),
		CreatedAt:     account.CreatedAt,
	}
}

func newLedgerEntryResponse(entry *models.LedgerEntry) ledgerEntryResponse {
	return ledgerEntryResponse{
		ID:        formatTransactionID(entry.ID),
		Sender:    entry.Sender,
		Recipient: entry.Recipient,
		Amount:    entry.Amount.StringFixed(2),
		CreatedAt: entry.CreatedAt,
	}
}
