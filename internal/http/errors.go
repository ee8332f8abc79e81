package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"quickpoll/internal/domain/poll"
	"quickpoll/internal/domain/user"
	"quickpoll/internal/domain/vote"
	"quickpoll/internal/platform/apperr"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	if appErr.Kind() == apperr.KindInternal {
		slogLogger.Error("request failed", "code", appErr.Code, "err", err)
	}
	writeJSON(w, appErr.StatusCode(), errorBody{
		Error:   appErr.Code,
		Message: appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperr.BadRequest("invalid_input", validationMessage(verrs), err)
	}

	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "invalid credentials", err)
	case errors.Is(err, user.ErrInactiveUser):
		return apperr.Unauthorized("inactive_user", "user is inactive", err)
	case errors.Is(err, user.ErrEmailTaken):
		return apperr.BadRequest("email_taken", "email already taken", err)
	case errors.Is(err, user.ErrUserNotFound):
		return apperr.NotFound("not_found", "user not found", err)
	case errors.Is(err, user.ErrInvalidInput), errors.Is(err, user.ErrInvalidRole):
		return apperr.BadRequest("invalid_input", err.Error(), err)

	case errors.Is(err, poll.ErrPollNotFound):
		return apperr.NotFound("poll_not_found", "poll not found or closed", err)
	case errors.Is(err, poll.ErrForbidden):
		return apperr.Forbidden("forbidden", "only the poll owner can do this", err)
	case errors.Is(err, poll.ErrOwnerRequired):
		return apperr.Unauthorized("missing_token", "sign in to create polls", err)
	case isPollValidation(err):
		return apperr.BadRequest("invalid_poll", err.Error(), err)

	case errors.Is(err, vote.ErrOptionNotFound):
		return apperr.NotFound("option_not_found", "option not found in this poll", err)
	case errors.Is(err, vote.ErrAlreadyVoted):
		return apperr.Conflict("already_voted", "already voted in this poll", err)
	case errors.Is(err, vote.ErrAlreadyLiked):
		return apperr.Conflict("already_liked", "already liked this poll", err)
	case errors.Is(err, vote.ErrLikeNotFound):
		return apperr.NotFound("like_not_found", "poll is not liked", err)
	case errors.Is(err, vote.ErrVoterRequired):
		return apperr.BadRequest("invalid_input", "voter identity is required", err)

	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}

func isPollValidation(err error) bool {
	for _, target := range []error{
		poll.ErrInvalidTitle,
		poll.ErrDescriptionTooLong,
		poll.ErrTooFewOptions,
		poll.ErrTooManyOptions,
		poll.ErrOptionTooLong,
		poll.ErrDuplicateOptions,
		poll.ErrInvalidExpiry,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
