package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is an immutable record of money moving from one account's
// checking balance to another's.
type LedgerEntry struct {
	CreatedAt time.Time       `db:"created_at"`
	Amount    decimal.Decimal `db:"amount"`
	Sender    int64           `db:"sender"`
	Recipient int64           `db:"recipient"`
	ID        uuid.UUID       `db:"id"`
}

// Involves reports whether the account is either party of the entry.
func (e *LedgerEntry) Involves(accountNumber int64) bool {
	return e.Sender == accountNumber || e.Recipient == accountNumber
}

// Direction selects which way an intra-account transfer moves money.
type Direction string

const (
	DirectionToSavings  Direction = "to_savings"
	DirectionToChecking Direction = "to_checking"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionToSavings || d == DirectionToChecking
}
