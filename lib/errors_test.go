package lib

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapPgError(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: "23505"}
	if got := MapPgError(uniqueErr); !errors.Is(got, ErrConflict) {
		t.Fatalf("expected ErrConflict for 23505, got %v", got)
	}

	noDataErr := &pgconn.PgError{Code: "P0002"}
	if got := MapPgError(noDataErr); !errors.Is(got, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for P0002, got %v", got)
	}

	other := errors.New("connection reset")
	if got := MapPgError(other); got != other {
		t.Fatalf("expected unrecognized error to pass through, got %v", got)
	}

	wrapped := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})
	if got := MapPgError(wrapped); !errors.Is(got, ErrConflict) {
		t.Fatalf("expected ErrConflict for wrapped 23505, got %v", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(ErrConflict) {
		t.Fatal("expected ErrConflict to be a unique violation")
	}
	if !IsUniqueViolation(fmt.Errorf("signup: %w", ErrConflict)) {
		t.Fatal("expected wrapped ErrConflict to be a unique violation")
	}
	if IsUniqueViolation(ErrNotFound) {
		t.Fatal("expected ErrNotFound not to be a unique violation")
	}
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrConflict, "User with this email already exists"},
		{ErrNotFound, "User not found"},
		{ErrInvalidCredentials, "Invalid credentials"},
		{ErrEmailNotVerified, "Please verify your email before signing in"},
		{ErrEmailAlreadyVerified, "Email is already verified"},
		{ErrTokenSubjectMismatch, "Invalid verification token"},
		{ErrInvalidOrExpiredToken, "Invalid or expired verification token"},
		{ErrExpiredToken, "Invalid or expired verification token"},
		{ErrSignatureMismatch, "Invalid or expired verification token"},
		{errors.New("boom"), "Something went wrong. Please try again"},
	}

	for _, tc := range tests {
		if got := GetUserMessage(tc.err); got != tc.want {
			t.Fatalf("GetUserMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
