package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// MinAccountNumber and MaxAccountNumber bound every allocated account number.
	MinAccountNumber int64 = 10_000_000
	MaxAccountNumber int64 = 999_999_999_999

	minUsernameLen = 3
	maxUsernameLen = 20
	minPasswordLen = 4
	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes = 72
	maxNameLen       = 100
	maxEmailLen      = 254
	amountPlaces     = 2
)

// ValidateAmount checks if amount is valid (positive)
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}

	return nil
}

// ValidateAmountPrecision rejects amounts with sub-cent digits.
func ValidateAmountPrecision(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(amountPlaces)) {
		return fmt.Errorf("invalid amount: at most %d decimal places allowed", amountPlaces)
	}
	if amount.Abs().GreaterThanOrEqual(decimal.New(1, 12)) {
		return fmt.Errorf("invalid amount: too large")
	}

	return nil
}

// ValidateAccountNumber checks the number lies in the allocatable range.
func ValidateAccountNumber(accountNumber int64) error {
	if accountNumber < MinAccountNumber || accountNumber > MaxAccountNumber {
		return fmt.Errorf("invalid account number: must be between %d and %d", MinAccountNumber, MaxAccountNumber)
	}

	return nil
}

// validateText rejects strings PostgreSQL cannot store in a text column.
func validateText(field, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("invalid %s: must be valid UTF-8", field)
	}
	if strings.ContainsRune(s, 0) {
		return fmt.Errorf("invalid %s: must not contain NUL characters", field)
	}

	return nil
}

func ValidateUsername(username string) error {
	if err := validateText("username", username); err != nil {
		return err
	}
	n := utf8.RuneCountInString(username)
	if n < minUsernameLen || n > maxUsernameLen {
		return fmt.Errorf("invalid username: must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	if strings.TrimSpace(username) != username {
		return fmt.Errorf("invalid username: must not start or end with whitespace")
	}

	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return fmt.Errorf("invalid password: must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("invalid password: must be at most %d bytes", maxPasswordBytes)
	}

	return nil
}

// ValidateName checks a first or last name.
func ValidateName(field, name string) error {
	if err := validateText(field, name); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("invalid %s: must not be empty", field)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return fmt.Errorf("invalid %s: must be at most %d characters", field, maxNameLen)
	}

	return nil
}

// ValidateEmail does a shape check only; ownership is not verified.
func ValidateEmail(email string) error {
	if err := validateText("email", email); err != nil {
		return err
	}
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return fmt.Errorf("invalid email: must look like name@domain")
	}
	if len(email) > maxEmailLen {
		return fmt.Errorf("invalid email: must be at most %d characters", maxEmailLen)
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return fmt.Errorf("invalid email: must not contain whitespace")
	}

	return nil
}
