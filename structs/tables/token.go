package tables

import (
	"time"

	"github.com/google/uuid"
)

// Token purposes. A token minted for one workflow is never accepted by
// another, even when signed with the same subject.
const (
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
)

// Stored token states. Expiry is deliberately not a status: it is a function
// of time and is re-evaluated on every read instead of being written back.
const (
	TokenStatusActive = "active"
	TokenStatusUsed   = "used"
)

// AuthToken is the ledger entry accompanying a signed token value. The row
// tracks consumption and expiry; the signed value carries its own integrity
// protection and both must check out before the token grants anything.
type AuthToken struct {
	tableName  struct{}  `bun:"table:auth_tokens,alias:t"`
	Id         uuid.UUID `json:"id" bun:"id,pk,type:uuid"`
	UserId     uuid.UUID `json:"user_id" bun:"user_id,notnull,type:uuid"`
	TokenValue string    `json:"-" bun:"token_value,notnull"`
	Purpose    string    `json:"purpose" bun:"purpose,notnull"`
	Expiry     time.Time `json:"expiry" bun:"expiry,notnull"`
	Status     string    `json:"status" bun:"status,notnull"`
	CreatedAt  time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt  time.Time `json:"updated_at" bun:"updated_at,notnull"`
	User       *User     `json:"-" bun:"rel:belongs-to,join:user_id=id,on_delete:cascade"`
}
