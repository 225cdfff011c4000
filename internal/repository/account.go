package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stautonico/banking-simulator/internal/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	IdentityExists(ctx context.Context, username, email string) (bool, error)
	FindByAccountNumber(ctx context.Context, accountNumber int64) (*models.Account, error)
	FindByAccountNumberForUpdate(ctx context.Context, accountNumber int64) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByOwner(ctx context.Context, firstName, lastName, email string) (*models.Account, error)
	AdjustBalances(ctx context.Context, accountNumber int64, checkingDelta, savingsDelta decimal.Decimal) error
}

// accountRepository implements AccountRepository
type accountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `
	id, account_number, username, email, first_name, last_name, password_hash,
	checking, savings, created_at, updated_at`

func scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.Owner.Username,
		&account.Owner.Email,
		&account.Owner.FirstName,
		&account.Owner.LastName,
		&account.Owner.PasswordHash,
		&account.Checking,
		&account.Savings,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Create inserts a new account. The insert doubles as the reservation of the
// account number: a collision is reported as models.ErrAccountNumberTaken and
// a taken username or email as models.ErrDuplicateIdentity.
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	query := `
		INSERT INTO accounts (
			id, account_number, username, email, first_name, last_name,
			password_hash, checking, savings
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		account.ID,
		account.AccountNumber,
		account.Owner.Username,
		account.Owner.Email,
		account.Owner.FirstName,
		account.Owner.LastName,
		account.Owner.PasswordHash,
		account.Checking,
		account.Savings,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		switch uniqueConstraint(err) {
		case "accounts_account_number_key":
			return fmt.Errorf("account number %d: %w", account.AccountNumber, models.ErrAccountNumberTaken)
		case "accounts_username_key", "accounts_email_key":
			return fmt.Errorf("failed to create account: %w", models.ErrDuplicateIdentity)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// IdentityExists reports whether the username or the email is already registered
func (r *accountRepository) IdentityExists(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1 OR email = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check identity: %w", err)
	}
	return exists, nil
}

// FindByAccountNumber retrieves an account by its account number
func (r *accountRepository) FindByAccountNumber(ctx context.Context, accountNumber int64) (*models.Account, error) {
	query := `SELECT` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.findOne(ctx, "account number", query, accountNumber)
}

// FindByAccountNumberForUpdate retrieves an account and locks its row until
// the surrounding transaction ends
func (r *accountRepository) FindByAccountNumberForUpdate(ctx context.Context, accountNumber int64) (*models.Account, error) {
	query := `SELECT` + accountColumns + ` FROM accounts WHERE account_number = $1 FOR UPDATE`
	return r.findOne(ctx, "account number", query, accountNumber)
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT` + accountColumns + ` FROM accounts WHERE username = $1`
	return r.findOne(ctx, "username", query, username)
}

// FindByOwner matches all three identity fields exactly
func (r *accountRepository) FindByOwner(ctx context.Context, firstName, lastName, email string) (*models.Account, error) {
	query := `SELECT` + accountColumns + `
		FROM accounts
		WHERE first_name = $1 AND last_name = $2 AND email = $3
		ORDER BY created_at
		LIMIT 1`
	return r.findOne(ctx, "owner", query, firstName, lastName, email)
}

func (r *accountRepository) findOne(ctx context.Context, by, query string, args ...any) (*models.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by %s: %w", by, err)
	}
	return account, nil
}

// AdjustBalances atomically adjusts checking and savings by the given deltas
func (r *accountRepository) AdjustBalances(ctx context.Context, accountNumber int64, checkingDelta, savingsDelta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET checking = checking + $2,
		    savings = savings + $3,
		    updated_at = NOW()
		WHERE account_number = $1
	`

	result, err := r.db.ExecContext(ctx, query, accountNumber, checkingDelta, savingsDelta)
	if err != nil {
		return fmt.Errorf("failed to adjust account balances: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account not found: %w", models.ErrNotFound)
	}

	return nil
}
