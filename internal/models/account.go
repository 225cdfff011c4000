// Package models defines the domain types persisted by the ledger.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Identity is the registered owner of an account.
type Identity struct {
	Username     string `db:"username"`
	Email        string `db:"email"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	PasswordHash string `db:"password_hash"`
}

// OwnerName is what the directory reveals about an account holder.
type OwnerName struct {
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

// Account represents a customer account with its two balances
type Account struct {
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	Owner         Identity        `db:"-"`
	Checking      decimal.Decimal `db:"checking"`
	Savings       decimal.Decimal `db:"savings"`
	AccountNumber int64           `db:"account_number"`
	ID            uuid.UUID       `db:"id"`
}

// Name returns the owner's display name.
func (a *Account) Name() OwnerName {
	return OwnerName{FirstName: a.Owner.FirstName, LastName: a.Owner.LastName}
}

// Total is checking plus savings.
func (a *Account) Total() decimal.Decimal {
	return a.Checking.Add(a.Savings)
}
