package services

import (
	"context"
	"errors"
	"testing"
	"time"
	"tradepost_server/lib"
	"tradepost_server/structs"
	"tradepost_server/structs/tables"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func newTokenService(t *testing.T, cfg *structs.Config) (*TokenService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewTokenService(cfg, testLogger(), db), mock
}

func TestIssue(t *testing.T) {
	ts, mock := newTokenService(t, newTestConfig())

	mock.ExpectExec(`INSERT INTO "auth_tokens"`).WillReturnResult(sqlmock.NewResult(0, 1))

	userID := uuid.New()
	token, err := ts.Issue(context.Background(), userID, tables.PurposeEmailVerification, "signed-value", 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token.Id == uuid.Nil {
		t.Fatal("expected a generated ledger id")
	}
	if token.UserId != userID {
		t.Fatalf("expected user id %s, got %s", userID, token.UserId)
	}
	if token.Status != tables.TokenStatusActive {
		t.Fatalf("expected active status, got %q", token.Status)
	}
	if !token.Expiry.After(time.Now().Add(23 * time.Hour)) {
		t.Fatalf("expected expiry about a day out, got %v", token.Expiry)
	}
}

func TestFindValid_ReturnsMatch(t *testing.T) {
	ts, mock := newTokenService(t, newTestConfig())

	tokenID := uuid.New()
	userID := uuid.New()
	rows := sqlmock.NewRows(tokenColumns()).AddRow(tokenRow(tokenID, userID, "signed-value")...)
	mock.ExpectQuery(`SELECT .+ FROM "auth_tokens"`).WillReturnRows(rows)

	token, err := ts.FindValid(context.Background(), "signed-value", tables.PurposeEmailVerification)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == nil {
		t.Fatal("expected a ledger row")
	}
	if token.Id != tokenID || token.UserId != userID {
		t.Fatalf("unexpected row: %+v", token)
	}
}

func TestFindValid_NoMatchReturnsNil(t *testing.T) {
	ts, mock := newTokenService(t, newTestConfig())

	mock.ExpectQuery(`SELECT .+ FROM "auth_tokens"`).WillReturnRows(sqlmock.NewRows(tokenColumns()))

	token, err := ts.FindValid(context.Background(), "unknown", tables.PurposeEmailVerification)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != nil {
		t.Fatalf("expected nil, got %+v", token)
	}
}

func TestConsume_TransitionsActiveRow(t *testing.T) {
	ts, mock := newTokenService(t, newTestConfig())

	mock.ExpectExec(`UPDATE "auth_tokens"`).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := ts.Consume(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConsume_AlreadyUsedRowLoses(t *testing.T) {
	ts, mock := newTokenService(t, newTestConfig())

	// Conditional update matched nothing: another consumer won the race.
	mock.ExpectExec(`UPDATE "auth_tokens"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := ts.Consume(context.Background(), uuid.New())
	if !errors.Is(err, lib.ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken, got %v", err)
	}
}

func TestPurgeByUserAndPurpose(t *testing.T) {
	ts, mock := newTokenService(t, newTestConfig())

	mock.ExpectExec(`DELETE FROM "auth_tokens"`).WillReturnResult(sqlmock.NewResult(0, 2))

	if err := ts.PurgeByUserAndPurpose(context.Background(), uuid.New(), tables.PurposeEmailVerification); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
