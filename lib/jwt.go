package lib

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"tradepost_server/structs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// purposeClaims is the wire shape of a purpose-bound token: a subject, the
// workflow it authorizes, and an embedded expiry.
type purposeClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// sessionClaims is the wire shape of a general-purpose access token. No
// purpose claim: a session token must never pass a purpose check.
type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// MintPurposeToken produces a signed HS256 token binding a subject to a
// workflow, valid for ttl. The secret is selected per purpose by the caller.
func MintPurposeToken(subject uuid.UUID, purpose, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, purposeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
	})
	return token.SignedString([]byte(secret))
}

// VerifyPurposeToken validates a purpose-bound token and returns its subject
// and purpose. Failures are classified as ErrExpiredToken,
// ErrSignatureMismatch or ErrMalformedToken so the service layer can log the
// real reason while reporting one generic outcome.
func VerifyPurposeToken(tokenStr, secret string) (uuid.UUID, string, error) {
	claims := &purposeClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, "", classifyTokenError(err)
	}
	if !token.Valid {
		return uuid.Nil, "", ErrMalformedToken
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", ErrMalformedToken
	}

	return subject, claims.Purpose, nil
}

// MintSessionToken produces the access token returned on sign-in, bound to
// the user id and username with the default (non-verification) secret.
func MintSessionToken(userID uuid.UUID, username, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
		Username: username,
	})
	return token.SignedString([]byte(secret))
}

// ParseSessionClaims validates an access token and returns its claims.
func ParseSessionClaims(tokenStr, secret string) (*structs.SessionClaims, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid {
		return nil, ErrMalformedToken
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid sub claim: %w", err)
	}

	jti := uuid.Nil
	if claims.ID != "" {
		if jti, err = uuid.Parse(claims.ID); err != nil {
			return nil, fmt.Errorf("invalid jti claim: %w", err)
		}
	}

	out := &structs.SessionClaims{
		Sub:      sub,
		Username: claims.Username,
		Jti:      jti,
	}
	if claims.IssuedAt != nil {
		out.Iat = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.Exp = claims.ExpiresAt.Time
	}

	return out, nil
}

// ExtractBearerToken pulls the access token from the Authorization header.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("malformed authorization header")
	}

	return parts[1], nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureMismatch
	default:
		return ErrMalformedToken
	}
}
