package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrAccountNumberTaken indicates another account already holds the number
	ErrAccountNumberTaken = errors.New("account number already taken")

	// ErrDuplicateIdentity indicates the username or email is already registered
	ErrDuplicateIdentity = errors.New("identity already registered")
)
