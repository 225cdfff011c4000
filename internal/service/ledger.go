package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stautonico/banking-simulator/internal/db"
	"github.com/stautonico/banking-simulator/internal/models"
	"github.com/stautonico/banking-simulator/internal/repository"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// LedgerService moves money between and within accounts
type LedgerService struct {
	db  *db.DB
	now func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(database *db.DB) *LedgerService {
	return &LedgerService{
		db:  database,
		now: time.Now,
	}
}

// Send moves amount from the sender's checking balance to the recipient's
// checking balance and records a ledger entry. Either all three writes
// happen or none do.
func (s *LedgerService) Send(ctx context.Context, sender, recipient int64, amount decimal.Decimal) (*models.LedgerEntry, error) {
	if err := validateSendRequest(sender, recipient, amount); err != nil {
		return nil, err
	}

	var entry *models.LedgerEntry
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		entry, err = s.performSend(ctx,
			repository.NewAccountRepository(tx),
			repository.NewLedgerRepository(tx),
			sender, recipient, amount,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// performSend contains the core send logic. Rows are locked in ascending
// account-number order so that opposing sends cannot deadlock.
func (s *LedgerService) performSend(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	sender, recipient int64,
	amount decimal.Decimal,
) (*models.LedgerEntry, error) {
	first, second := sender, recipient
	if second < first {
		first, second = second, first
	}

	locked := make(map[int64]*models.Account, 2)
	for _, number := range []int64{first, second} {
		account, err := accountRepo.FindByAccountNumberForUpdate(ctx, number)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, internalError("failed to lock account", err)
		}
		locked[number] = account
	}

	from, ok := locked[sender]
	if !ok {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: fmt.Sprintf("account %d not found", sender),
		}
	}
	if _, ok := locked[recipient]; !ok {
		return nil, &ServiceError{
			Code:    ErrCodeRecipientNotFound,
			Message: fmt.Sprintf("recipient %d not found", recipient),
		}
	}

	if from.Checking.LessThan(amount) {
		return nil, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds in checking",
		}
	}

	if err := accountRepo.AdjustBalances(ctx, sender, amount.Neg(), decimal.Zero); err != nil {
		return nil, internalError("failed to debit sender", err)
	}
	if err := accountRepo.AdjustBalances(ctx, recipient, amount, decimal.Zero); err != nil {
		return nil, internalError("failed to credit recipient", err)
	}

	entry := &models.LedgerEntry{
		ID:        uuid.New(),
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		CreatedAt: s.now(),
	}
	if err := ledgerRepo.Create(ctx, entry); err != nil {
		return nil, internalError("failed to record ledger entry", err)
	}

	return entry, nil
}

// Transfer moves amount between the checking and savings balances of one
// account. It writes no ledger entry.
func (s *LedgerService) Transfer(ctx context.Context, accountNumber int64, direction models.Direction, amount decimal.Decimal) (*models.Account, error) {
	if err := validateTransferRequest(direction, amount); err != nil {
		return nil, err
	}

	var account *models.Account
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		account, err = s.performTransfer(ctx, repository.NewAccountRepository(tx), accountNumber, direction, amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (s *LedgerService) performTransfer(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	accountNumber int64,
	direction models.Direction,
	amount decimal.Decimal,
) (*models.Account, error) {
	account, err := accountRepo.FindByAccountNumberForUpdate(ctx, accountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: fmt.Sprintf("account %d not found", accountNumber),
		}
	}
	if err != nil {
		return nil, internalError("failed to lock account", err)
	}

	source, checkingDelta, savingsDelta := account.Checking, amount.Neg(), amount
	if direction == models.DirectionToChecking {
		source, checkingDelta, savingsDelta = account.Savings, amount, amount.Neg()
	}

	if source.LessThan(amount) {
		return nil, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: fmt.Sprintf("insufficient funds for %s", direction),
		}
	}

	if err := accountRepo.AdjustBalances(ctx, accountNumber, checkingDelta, savingsDelta); err != nil {
		return nil, internalError("failed to move funds", err)
	}

	account.Checking = account.Checking.Add(checkingDelta)
	account.Savings = account.Savings.Add(savingsDelta)

	return account, nil
}

// ListTransactions returns the account's ledger entries, most recent first.
// A non-positive limit means DefaultHistoryLimit.
func (s *LedgerService) ListTransactions(ctx context.Context, accountNumber int64, limit int) ([]models.LedgerEntry, error) {
	return s.performListTransactions(ctx,
		repository.NewAccountRepository(s.db),
		repository.NewLedgerRepository(s.db),
		accountNumber, limit,
	)
}

func (s *LedgerService) performListTransactions(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	accountNumber int64,
	limit int,
) ([]models.LedgerEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	if _, err := accountRepo.FindByAccountNumber(ctx, accountNumber); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Code:    ErrCodeAccountNotFound,
				Message: fmt.Sprintf("account %d not found", accountNumber),
			}
		}
		return nil, internalError("failed to find account", err)
	}

	entries, err := ledgerRepo.ListByAccount(ctx, accountNumber, limit)
	if err != nil {
		return nil, internalError("failed to list transactions", err)
	}

	return entries, nil
}

// GetTransaction returns one ledger entry. An entry the account is not a
// party to is reported as not found.
func (s *LedgerService) GetTransaction(ctx context.Context, accountNumber int64, id uuid.UUID) (*models.LedgerEntry, error) {
	return s.performGetTransaction(ctx, repository.NewLedgerRepository(s.db), accountNumber, id)
}

func (s *LedgerService) performGetTransaction(
	ctx context.Context,
	ledgerRepo repository.LedgerRepository,
	accountNumber int64,
	id uuid.UUID,
) (*models.LedgerEntry, error) {
	entry, err := ledgerRepo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, internalError("failed to find transaction", err)
	}
	if err != nil || !entry.Involves(accountNumber) {
		return nil, &ServiceError{
			Code:    ErrCodeTxNotFound,
			Message: fmt.Sprintf("transaction %s not found for account %d", id, accountNumber),
		}
	}

	return entry, nil
}

// inTx runs fn in a read-committed transaction, committing only if fn
// succeeds. Row locks taken by fn serialize concurrent writers.
func (s *LedgerService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return internalError("failed to start transaction", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return internalError("failed to commit transaction", err)
	}

	return nil
}

func validateSendRequest(sender, recipient int64, amount decimal.Decimal) error {
	if sender == recipient {
		return &ServiceError{
			Code:    ErrCodeSelfTransfer,
			Message: "cannot send money to your own account",
		}
	}

	return validateAmount(amount)
}

func validateTransferRequest(direction models.Direction, amount decimal.Decimal) error {
	if !direction.Valid() {
		return &ServiceError{
			Code:    ErrCodeInvalidDirection,
			Message: fmt.Sprintf("invalid direction %q: must be %s or %s", direction, models.DirectionToSavings, models.DirectionToChecking),
		}
	}

	return validateAmount(amount)
}

func validateAmount(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return &ServiceError{
			Code:    ErrCodeNonPositiveAmount,
			Message: err.Error(),
		}
	}

	if err := ValidateAmountPrecision(amount); err != nil {
		return &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: err.Error(),
		}
	}

	return nil
}
