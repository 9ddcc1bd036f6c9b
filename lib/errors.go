package lib

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Auth errors
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailNotVerified     = errors.New("email not verified")
	ErrEmailAlreadyVerified = errors.New("email already verified")
)

// Token errors. The three codec failures stay distinct internally for
// diagnostics; callers collapse them into ErrInvalidOrExpiredToken before
// anything reaches a response body.
var (
	ErrMalformedToken        = errors.New("malformed token")
	ErrExpiredToken          = errors.New("expired token")
	ErrSignatureMismatch     = errors.New("token signature mismatch")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrTokenSubjectMismatch  = errors.New("token subject mismatch")
)

// MapPgError converts driver-level SQLSTATE failures into the sentinel
// taxonomy. Anything unrecognized propagates unmodified.
func MapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return ErrConflict
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// GetUserMessage maps a sentinel error onto the short human-readable message
// the boundary layer returns. Internal failure detail never leaks here.
func GetUserMessage(err error) string {
	switch {
	case errors.Is(err, ErrConflict):
		return "User with this email already exists"
	case errors.Is(err, ErrNotFound):
		return "User not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrEmailNotVerified):
		return "Please verify your email before signing in"
	case errors.Is(err, ErrEmailAlreadyVerified):
		return "Email is already verified"
	case errors.Is(err, ErrTokenSubjectMismatch):
		return "Invalid verification token"
	case errors.Is(err, ErrInvalidOrExpiredToken),
		errors.Is(err, ErrMalformedToken),
		errors.Is(err, ErrExpiredToken),
		errors.Is(err, ErrSignatureMismatch):
		return "Invalid or expired verification token"
	default:
		return "Something went wrong. Please try again"
	}
}
