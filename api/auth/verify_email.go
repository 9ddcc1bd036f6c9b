package auth

import (
	"errors"
	"net/http"
	"tradepost_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleVerifyEmail consumes a verification token passed as a query parameter.
func (arm *AuthRoutesManager) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		gecho.BadRequest(w, gecho.WithMessage("Verification token is required"), gecho.Send())
		return
	}

	message, err := arm.authService.VerifyEmail(r.Context(), token)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidOrExpiredToken) || errors.Is(err, lib.ErrTokenSubjectMismatch) {
			gecho.BadRequest(w, gecho.WithMessage(lib.GetUserMessage(err)), gecho.Send())
			return
		}

		arm.logger.Error("Email verification failed", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to verify email. Please try again"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithMessage(message),
		gecho.Send(),
	)
}
