package structs

import (
	"time"

	"github.com/google/uuid"
)

type ArgonParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// SessionClaims are the claims carried by a general-purpose access token.
// Session tokens intentionally have no purpose claim; purpose-bound tokens
// are minted and parsed separately (see lib.MintPurposeToken).
type SessionClaims struct {
	Sub      uuid.UUID `json:"sub"`
	Username string    `json:"username"`
	Iat      time.Time `json:"iat"`
	Exp      time.Time `json:"exp"`
	Jti      uuid.UUID `json:"jti"`
}

type AuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=buyer seller admin"`
	Username  string `json:"username" validate:"omitempty,min=2,max=50"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}
