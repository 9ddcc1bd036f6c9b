package tables

import (
	"time"

	"github.com/google/uuid"
)

// User roles. New accounts are created as buyers unless the deployment
// explicitly allows the requested role (see structs.AuthConfig).
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

type User struct {
	tableName        struct{}  `bun:"table:users,alias:u"`
	Id               uuid.UUID `json:"id" bun:"id,pk,type:uuid"`
	Username         string    `json:"username" bun:"username,notnull"`
	FirstName        string    `json:"first_name" bun:"first_name"`
	LastName         string    `json:"last_name" bun:"last_name"`
	Email            string    `json:"email" bun:"email,unique,notnull"`
	PasswordHash     string    `json:"-" bun:"password_hash,notnull"`
	Role             string    `json:"role" bun:"role,notnull"`
	Phone            *string   `json:"phone,omitempty" bun:"phone"`
	Avatar           *string   `json:"avatar,omitempty" bun:"avatar"`
	EmailVerified    bool      `json:"email_verified" bun:"email_verified,notnull"`
	AddressLine1     *string   `json:"address_line1,omitempty" bun:"address_line1"`
	AddressLine2     *string   `json:"address_line2,omitempty" bun:"address_line2"`
	City             *string   `json:"city,omitempty" bun:"city"`
	State            *string   `json:"state,omitempty" bun:"state"`
	ZipCode          *string   `json:"zip_code,omitempty" bun:"zip_code"`
	Country          *string   `json:"country,omitempty" bun:"country"`
	StripeCustomerId *string   `json:"stripe_customer_id,omitempty" bun:"stripe_customer_id"`
	CreatedAt        time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt        time.Time `json:"updated_at" bun:"updated_at,notnull"`
}

// Sanitize strips fields that must never leave the service, currently only
// the password hash. Safe to call on an already sanitized user.
func (u *User) Sanitize() *User {
	u.PasswordHash = ""
	return u
}
