package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stautonico/banking-simulator/internal/db"
	"github.com/stautonico/banking-simulator/internal/models"
	"github.com/stautonico/banking-simulator/internal/repository"
)

// DirectoryService answers lookups between identities and account numbers.
// A miss is reported through the found flag, never as an error.
type DirectoryService struct {
	db *db.DB
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(database *db.DB) *DirectoryService {
	return &DirectoryService{db: database}
}

// FindAccountNumber returns the account number whose owner matches all three
// fields exactly.
func (s *DirectoryService) FindAccountNumber(ctx context.Context, firstName, lastName, email string) (int64, bool, error) {
	return s.performFindAccountNumber(ctx, repository.NewAccountRepository(s.db), firstName, lastName, email)
}

func (s *DirectoryService) performFindAccountNumber(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	firstName, lastName, email string,
) (int64, bool, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" || strings.TrimSpace(email) == "" {
		return 0, false, &ServiceError{
			Code:    ErrCodeInvalidQuery,
			Message: "first name, last name and email are all required",
		}
	}

	for _, field := range []string{firstName, lastName, email} {
		if err := validateText("query", field); err != nil {
			return 0, false, &ServiceError{Code: ErrCodeInvalidQuery, Message: err.Error()}
		}
	}

	account, err := accountRepo.FindByOwner(ctx, firstName, lastName, email)
	if errors.Is(err, models.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, internalError("failed to search directory", err)
	}

	return account.AccountNumber, true, nil
}

// FindIdentity returns the owner name for an account number.
func (s *DirectoryService) FindIdentity(ctx context.Context, accountNumber int64) (models.OwnerName, bool, error) {
	return s.performFindIdentity(ctx, repository.NewAccountRepository(s.db), accountNumber)
}

func (s *DirectoryService) performFindIdentity(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	accountNumber int64,
) (models.OwnerName, bool, error) {
	if accountNumber <= 0 {
		return models.OwnerName{}, false, &ServiceError{
			Code:    ErrCodeInvalidQuery,
			Message: "account number must be positive",
		}
	}

	account, err := accountRepo.FindByAccountNumber(ctx, accountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return models.OwnerName{}, false, nil
	}
	if err != nil {
		return models.OwnerName{}, false, internalError("failed to search directory", err)
	}

	return account.Name(), true, nil
}
