package services

import (
	"context"
	"errors"
	"testing"
	"tradepost_server/lib"
	"tradepost_server/structs"
	"tradepost_server/structs/tables"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func newUserService(t *testing.T, cfg *structs.Config) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewUserService(cfg, testLogger(), db, nil), mock
}

func TestCreate_DefaultsToBuyerRole(t *testing.T) {
	cfg := newTestConfig()
	us, mock := newUserService(t, cfg)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := us.Create(context.Background(), &structs.SignUpRequest{
		Email:    "alice@example.com",
		Password: "super secret pw",
		Role:     tables.RoleSeller,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Role != tables.RoleBuyer {
		t.Fatalf("expected requested role to be ignored, got %q", user.Role)
	}
	if user.Username != "alice" {
		t.Fatalf("expected username from email local-part, got %q", user.Username)
	}
	if user.EmailVerified {
		t.Fatal("new accounts must start unverified")
	}
	if user.Id == uuid.Nil {
		t.Fatal("expected a generated id")
	}

	ok, err := lib.VerifyPassword("super secret pw", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify the password (ok=%v, err=%v)", ok, err)
	}
}

func TestCreate_HonorsRequestedRoleWhenAllowed(t *testing.T) {
	cfg := newTestConfig()
	cfg.Auth.AllowRequestedRole = true
	us, mock := newUserService(t, cfg)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := us.Create(context.Background(), &structs.SignUpRequest{
		Email:    "bob@example.com",
		Password: "super secret pw",
		Role:     tables.RoleSeller,
		Username: "bobby",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != tables.RoleSeller {
		t.Fatalf("expected requested role to be honored, got %q", user.Role)
	}
	if user.Username != "bobby" {
		t.Fatalf("expected supplied username, got %q", user.Username)
	}
}

func TestCreate_DuplicateEmailMapsToConflict(t *testing.T) {
	us, mock := newUserService(t, newTestConfig())

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := us.Create(context.Background(), &structs.SignUpRequest{
		Email:    "dupe@example.com",
		Password: "super secret pw",
	})
	if !errors.Is(err, lib.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestFindByEmail_NoMatchReturnsNil(t *testing.T) {
	us, mock := newUserService(t, newTestConfig())

	mock.ExpectQuery(`SELECT .+ FROM "users"`).WillReturnRows(sqlmock.NewRows(userColumns()))

	user, err := us.FindByEmail(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestMarkEmailVerified(t *testing.T) {
	us, mock := newUserService(t, newTestConfig())

	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := us.MarkEmailVerified(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMarkEmailVerified_UnknownUser(t *testing.T) {
	us, mock := newUserService(t, newTestConfig())

	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := us.MarkEmailVerified(context.Background(), uuid.New())
	if !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetSanitizedProfile_StripsPasswordHash(t *testing.T) {
	us, mock := newUserService(t, newTestConfig())

	id := uuid.New()
	rows := sqlmock.NewRows(userColumns()).AddRow(userRow(id, "alice@example.com", "$argon2id$hash", true)...)
	mock.ExpectQuery(`SELECT .+ FROM "users"`).WillReturnRows(rows)

	user, err := us.GetSanitizedProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("expected password hash to be stripped")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("unexpected email %q", user.Email)
	}
}

func TestGetSanitizedProfile_UnknownUser(t *testing.T) {
	us, mock := newUserService(t, newTestConfig())

	mock.ExpectQuery(`SELECT .+ FROM "users"`).WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := us.GetSanitizedProfile(context.Background(), uuid.New())
	if !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile_EmptyRequestSkipsWrite(t *testing.T) {
	us, mock := newUserService(t, newTestConfig())

	id := uuid.New()
	// Only the refresh SELECT runs; an UPDATE would fail the expectation set.
	rows := sqlmock.NewRows(userColumns()).AddRow(userRow(id, "alice@example.com", "hash", true)...)
	mock.ExpectQuery(`SELECT .+ FROM "users"`).WillReturnRows(rows)

	user, err := us.UpdateProfile(context.Background(), id, &structs.UpdateProfileRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected refreshed profile")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateProfile_AppliesFields(t *testing.T) {
	us, mock := newUserService(t, newTestConfig())

	id := uuid.New()
	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	rows := sqlmock.NewRows(userColumns()).AddRow(userRow(id, "alice@example.com", "hash", true)...)
	mock.ExpectQuery(`SELECT .+ FROM "users"`).WillReturnRows(rows)

	city := "Rotterdam"
	user, err := us.UpdateProfile(context.Background(), id, &structs.UpdateProfileRequest{City: &city})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("expected sanitized profile after update")
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	us, mock := newUserService(t, newTestConfig())

	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))

	city := "Rotterdam"
	_, err := us.UpdateProfile(context.Background(), uuid.New(), &structs.UpdateProfileRequest{City: &city})
	if !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
