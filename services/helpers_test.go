package services

import (
	"database/sql/driver"
	"testing"
	"time"
	"tradepost_server/database"
	"tradepost_server/structs"
	"tradepost_server/structs/tables"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

func newTestConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:     "Tradepost",
			Environment: "test",
			FrontendURL: "http://localhost:3000",
		},
		Database: &structs.DatabaseConfig{
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Auth: &structs.AuthConfig{
			AccessTokenSecret:       "access-secret",
			AccessTokenExpiry:       time.Hour,
			EmailVerificationSecret: "verification-secret",
			EmailVerificationExpiry: 24 * time.Hour,
		},
		Email: &structs.EmailConfig{
			From: "noreply@example.com",
		},
		Cache: &structs.CacheConfig{},
	}
}

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqldb.Close() })
	return database.NewFromSQL(sqldb), mock
}

func userColumns() []string {
	return []string{
		"id", "username", "first_name", "last_name", "email", "password_hash",
		"role", "phone", "avatar", "email_verified", "address_line1",
		"address_line2", "city", "state", "zip_code", "country",
		"stripe_customer_id", "created_at", "updated_at",
	}
}

func userRow(id uuid.UUID, email, passwordHash string, verified bool) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id.String(), "alice", "Alice", "Doe", email, passwordHash,
		tables.RoleBuyer, nil, nil, verified, nil,
		nil, nil, nil, nil, nil,
		nil, now, now,
	}
}

func tokenColumns() []string {
	return []string{
		"id", "user_id", "token_value", "purpose", "expiry", "status",
		"created_at", "updated_at",
	}
}

func tokenRow(id, userID uuid.UUID, value string) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id.String(), userID.String(), value, tables.PurposeEmailVerification,
		now.Add(time.Hour), tables.TokenStatusActive, now, now,
	}
}

func testLogger() *gecho.Logger {
	return gecho.NewDefaultLogger()
}
