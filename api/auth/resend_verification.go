package auth

import (
	"errors"
	"net/http"
	"tradepost_server/lib"
	"tradepost_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ResendVerificationRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract and validate request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Please provide a valid email address"), gecho.WithData(err), gecho.Send())
		return
	}

	message, err := arm.authService.ResendVerification(r.Context(), body.Email)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) || errors.Is(err, lib.ErrEmailAlreadyVerified) {
			gecho.BadRequest(w, gecho.WithMessage(lib.GetUserMessage(err)), gecho.Send())
			return
		}

		arm.logger.Error("Failed to resend verification email", gecho.Field("error", err), gecho.Field("email", body.Email))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to resend verification email. Please try again"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithMessage(message),
		gecho.Send(),
	)
}
