package middleware

import (
	"context"
	"net/http"
	"tradepost_server/lib"
	"tradepost_server/structs"
	"tradepost_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing user data in request context
type contextKey string

const (
	UserContextKey   contextKey = "user"
	ClaimsContextKey contextKey = "claims"
)

// RequireAuth protects routes to holders of a valid access token. The token
// comes from the Authorization header as a bearer token.
func (mw *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := lib.ExtractBearerToken(r)
		if err != nil {
			mw.logger.Debug("Missing bearer token", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		claims, err := lib.ParseSessionClaims(tokenStr, mw.cfg.Auth.AccessTokenSecret)
		if err != nil {
			mw.logger.Warn("Failed to parse access token", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaimsFromContext extracts the session claims from request context.
func GetClaimsFromContext(ctx context.Context) (*structs.SessionClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.SessionClaims)
	return claims, ok
}

// GetUserFromContext extracts the sanitized user from request context.
func GetUserFromContext(ctx context.Context) (*tables.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*tables.User)
	return user, ok
}
