package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stautonico/banking-simulator/internal/credential"
	"github.com/stautonico/banking-simulator/internal/db"
	"github.com/stautonico/banking-simulator/internal/models"
	"github.com/stautonico/banking-simulator/internal/repository"
)

// NumberGenerator draws a candidate account number.
type NumberGenerator func() (int64, error)

// AllocateAccountNumber draws uniformly from [MinAccountNumber, MaxAccountNumber].
// The draw alone does not reserve the number; CreateAccount does.
func AllocateAccountNumber() (int64, error) {
	span := big.NewInt(MaxAccountNumber - MinAccountNumber + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, fmt.Errorf("failed to draw account number: %w", err)
	}
	return MinAccountNumber + n.Int64(), nil
}

// RegisterRequest carries the fields a new customer signs up with
type RegisterRequest struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// AccountService is the account registry: it allocates account numbers,
// creates accounts and checks credentials
type AccountService struct {
	db          *db.DB
	hasher      credential.Hasher
	generate    NumberGenerator
	logger      *slog.Logger
	maxAttempts int
}

// NewAccountService creates a new AccountService
func NewAccountService(
	database *db.DB,
	hasher credential.Hasher,
	maxAttempts int,
	logger *slog.Logger,
) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &AccountService{
		db:          database,
		hasher:      hasher,
		generate:    AllocateAccountNumber,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// Register validates the sign-up fields, hashes the password and opens an account
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*models.Account, error) {
	return s.performRegister(ctx, repository.NewAccountRepository(s.db), req)
}

func (s *AccountService) performRegister(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	req RegisterRequest,
) (*models.Account, error) {
	identity := models.Identity{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := validateIdentityFields(identity); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidIdentity,
			Message: err.Error(),
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, internalError("failed to hash password", err)
	}
	identity.PasswordHash = hash

	return s.performCreateAccount(ctx, accountRepo, identity)
}

// CreateAccount opens an account for an identity whose password is already
// hashed. Both balances start at zero.
func (s *AccountService) CreateAccount(ctx context.Context, identity models.Identity) (*models.Account, error) {
	return s.performCreateAccount(ctx, repository.NewAccountRepository(s.db), identity)
}

// performCreateAccount draws numbers until an insert succeeds. The unique
// index on account_number is the reservation, so two concurrent callers can
// never end up with the same number.
func (s *AccountService) performCreateAccount(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	identity models.Identity,
) (*models.Account, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}

	exists, err := accountRepo.IdentityExists(ctx, identity.Username, identity.Email)
	if err != nil {
		return nil, internalError("failed to check identity", err)
	}
	if exists {
		return nil, &ServiceError{
			Code:    ErrCodeDuplicateIdentity,
			Message: "username or email already registered",
		}
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		number, err := s.generate()
		if err != nil {
			return nil, internalError("failed to allocate account number", err)
		}

		account := &models.Account{
			ID:            uuid.New(),
			AccountNumber: number,
			Owner:         identity,
			Checking:      decimal.Zero,
			Savings:       decimal.Zero,
		}

		err = accountRepo.Create(ctx, account)
		switch {
		case err == nil:
			s.logger.Info("account created",
				"account_number", account.AccountNumber,
				"username", identity.Username,
				"attempts", attempt,
			)
			return account, nil
		case errors.Is(err, models.ErrAccountNumberTaken):
			s.logger.Debug("account number collision, drawing again",
				"account_number", number,
				"attempt", attempt,
			)
		case errors.Is(err, models.ErrDuplicateIdentity):
			return nil, &ServiceError{
				Code:    ErrCodeDuplicateIdentity,
				Message: "username or email already registered",
				Err:     err,
			}
		default:
			return nil, internalError("failed to create account", err)
		}
	}

	s.logger.Error("account number space exhausted", "attempts", s.maxAttempts)
	return nil, &ServiceError{
		Code:    ErrCodeInternalError,
		Message: fmt.Sprintf("no free account number after %d attempts", s.maxAttempts),
	}
}

// Authenticate returns the account whose credentials match. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	return s.performAuthenticate(ctx, repository.NewAccountRepository(s.db), username, password)
}

func (s *AccountService) performAuthenticate(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	username, password string,
) (*models.Account, error) {
	invalid := &ServiceError{
		Code:    ErrCodeInvalidCredentials,
		Message: "invalid username or password",
	}

	if validateText("username", username) != nil {
		return nil, invalid
	}

	account, err := accountRepo.FindByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, internalError("failed to look up account", err)
	}

	if err := s.hasher.Compare(account.Owner.PasswordHash, password); err != nil {
		if errors.Is(err, credential.ErrMismatch) {
			return nil, invalid
		}
		return nil, internalError("failed to verify credentials", err)
	}

	return account, nil
}

// GetAccount returns the account with its current balances
func (s *AccountService) GetAccount(ctx context.Context, accountNumber int64) (*models.Account, error) {
	return s.performGetAccount(ctx, repository.NewAccountRepository(s.db), accountNumber)
}

func (s *AccountService) performGetAccount(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	accountNumber int64,
) (*models.Account, error) {
	account, err := accountRepo.FindByAccountNumber(ctx, accountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: fmt.Sprintf("account %d not found", accountNumber),
		}
	}
	if err != nil {
		return nil, internalError("failed to find account", err)
	}
	return account, nil
}

func validateIdentity(identity models.Identity) error {
	if err := validateIdentityFields(identity); err != nil {
		return err
	}
	if identity.PasswordHash == "" {
		return &ServiceError{
			Code:    ErrCodeInvalidIdentity,
			Message: "invalid identity: missing password hash",
		}
	}
	return nil
}

func validateIdentityFields(identity models.Identity) error {
	checks := []error{
		ValidateUsername(identity.Username),
		ValidateEmail(identity.Email),
		ValidateName("first name", identity.FirstName),
		ValidateName("last name", identity.LastName),
	}
	for _, err := range checks {
		if err != nil {
			return &ServiceError{
				Code:    ErrCodeInvalidIdentity,
				Message: err.Error(),
			}
		}
	}
	return nil
}
