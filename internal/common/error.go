// Package common defines shared constants and sentinel errors used across
// the AuthBridge backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential errors.
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailAlreadyInUse     = errors.New("email already in use")
	ErrInvalidSecurityAnswer = errors.New("invalid security answer")

	// Account status errors.
	ErrPendingResetBlocked = errors.New("account blocked for pending password reset")
	ErrStatusConflict      = errors.New("account status changed concurrently")
	ErrUnknownStatus       = errors.New("unknown account status")

	// Account lookup errors surfaced by the reset flow and CRUD.
	ErrUserNotFound = errors.New("user not found")

	// Token and request guard errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrCsrfMismatch = errors.New("invalid csrf token")

	// Input validation.
	ErrValidation = errors.New("validation failed")
)
