package auth

import (
	"net/http"
	"tradepost_server/lib"
	"tradepost_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SignUpRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract and validate request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Please check your registration information and try again"), gecho.WithData(err), gecho.Send())
		return
	}

	message, err := arm.authService.SignUp(r.Context(), body)
	if err != nil {
		userMessage := lib.GetUserMessage(err)

		// Duplicate emails return 409 Conflict (already logged as warn in service)
		if lib.IsUniqueViolation(err) {
			gecho.Conflict(w, gecho.WithMessage(userMessage), gecho.Send())
			return
		}

		gecho.InternalServerError(w, gecho.WithMessage(userMessage), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithMessage(message),
		gecho.Send(),
	)
}
