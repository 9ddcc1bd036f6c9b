package middleware

import (
	"context"
	"errors"
	"net/http"
	"tradepost_server/lib"

	"github.com/MonkyMars/gecho"
)

// RequireVerifiedEmail gates routes behind a verified email address. Must be
// mounted after RequireAuth; the two checks stay independent so a valid
// session alone never reaches a verified-only route. The loaded sanitized
// user is placed in the request context for the handler.
func (mw *Middleware) RequireVerifiedEmail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaimsFromContext(r.Context())
		if !ok {
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		user, err := mw.users.GetSanitizedProfile(r.Context(), claims.Sub)
		if err != nil {
			if errors.Is(err, lib.ErrNotFound) {
				// Token outlived its account.
				mw.logger.Warn("Access token for vanished user", gecho.Field("user_id", claims.Sub))
				gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
				return
			}
			mw.logger.Error("Failed to load user for verification check", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
			gecho.InternalServerError(w, gecho.Send())
			return
		}

		if !user.EmailVerified {
			mw.logger.Debug("Unverified user blocked", gecho.Field("user_id", user.Id))
			gecho.Forbidden(w, gecho.WithMessage("Please verify your email address to access this resource"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
