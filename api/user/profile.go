package user

import (
	"errors"
	"net/http"
	"tradepost_server/api/middleware"
	"tradepost_server/lib"
	"tradepost_server/structs"

	"github.com/MonkyMars/gecho"
)

func (urm *UserRoutesManager) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	// RequireVerifiedEmail already loaded the sanitized user.
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(user),
		gecho.Send(),
	)
}

func (urm *UserRoutesManager) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateProfileRequest](r)
	if err != nil {
		urm.logger.Warn("Failed to extract and validate request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Please check your profile information and try again"), gecho.WithData(err), gecho.Send())
		return
	}

	updated, err := urm.userService.UpdateProfile(r.Context(), claims.Sub, body)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w, gecho.WithMessage(lib.GetUserMessage(err)), gecho.Send())
			return
		}

		urm.logger.Error("Failed to update profile", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to update profile. Please try again"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(updated),
		gecho.Send(),
	)
}
