package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stautonico/banking-simulator/internal/models"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Registrar opens accounts and checks credentials
type Registrar interface {
	Register(ctx context.Context, req RegisterRequest) (*models.Account, error)
	CreateAccount(ctx context.Context, identity models.Identity) (*models.Account, error)
	Authenticate(ctx context.Context, username, password string) (*models.Account, error)
	GetAccount(ctx context.Context, accountNumber int64) (*models.Account, error)
}

// Ledger moves money and reports history
type Ledger interface {
	Send(ctx context.Context, sender, recipient int64, amount decimal.Decimal) (*models.LedgerEntry, error)
	Transfer(ctx context.Context, accountNumber int64, direction models.Direction, amount decimal.Decimal) (*models.Account, error)
	ListTransactions(ctx context.Context, accountNumber int64, limit int) ([]models.LedgerEntry, error)
	GetTransaction(ctx context.Context, accountNumber int64, id uuid.UUID) (*models.LedgerEntry, error)
}

// Directory resolves identities to account numbers and back
type Directory interface {
	FindAccountNumber(ctx context.Context, firstName, lastName, email string) (int64, bool, error)
	FindIdentity(ctx context.Context, accountNumber int64) (models.OwnerName, bool, error)
}

// Ensure concrete types implement interfaces
var (
	_ Registrar = (*AccountService)(nil)
	_ Ledger    = (*LedgerService)(nil)
	_ Directory = (*DirectoryService)(nil)
)
