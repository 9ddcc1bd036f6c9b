package auth

import (
	"errors"
	"net/http"
	"tradepost_server/lib"
	"tradepost_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Please check your login information and try again"), gecho.Send())
		return
	}

	accessToken, err := arm.authService.SignIn(r.Context(), body)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidCredentials) || errors.Is(err, lib.ErrEmailNotVerified) {
			// Both refusals are 401; the message distinguishes them.
			gecho.Unauthorized(w, gecho.WithMessage(lib.GetUserMessage(err)), gecho.Send())
			return
		}

		arm.logger.Error("Login failed", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to complete login. Please try again"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(structs.LoginResponse{AccessToken: accessToken}),
		gecho.Send(),
	)
}
