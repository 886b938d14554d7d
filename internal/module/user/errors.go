package user

import "errors"

// Module errors.
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeleted     = errors.New("account deleted")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrForbidden          = errors.New("forbidden")

	// Password errors
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordRequired = errors.New("password required for email users")
	ErrNotEmailUser     = errors.New("account does not use password login")

	// Avatar errors
	ErrUnsupportedImageType = errors.New("unsupported image content type")
)
