package api

import (
	"errors"
	"net/http"

	"livepoll/internal/domain/poll"
	"livepoll/internal/domain/user"
	"livepoll/internal/domain/vote"
	"livepoll/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		slogLogger.Error("request failed", "code", appErr.Code, "error", err)
	}
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
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

	switch {
	case errors.Is(err, vote.ErrInvalidVote),
		errors.Is(err, poll.ErrInvalidPoll),
		errors.Is(err, user.ErrInvalidUser):
		return apperr.BadRequest("invalid_input", err.Error(), err)
	case errors.Is(err, vote.ErrDuplicateVote):
		return apperr.Conflict("duplicate_vote", "user has already voted for this option", err)
	case errors.Is(err, user.ErrEmailTaken):
		return apperr.Conflict("email_taken", "email already taken", err)
	case errors.Is(err, vote.ErrVoterNotFound):
		return apperr.NotFound("voter_not_found", "voter not found", err)
	case errors.Is(err, vote.ErrOptionNotFound), errors.Is(err, poll.ErrOptionNotFound):
		return apperr.NotFound("option_not_found", "option not found", err)
	case errors.Is(err, poll.ErrPollNotFound):
		return apperr.NotFound("poll_not_found", "poll not found", err)
	case errors.Is(err, poll.ErrCreatorNotFound):
		return apperr.NotFound("creator_not_found", "creator not found", err)
	case errors.Is(err, user.ErrUserNotFound):
		return apperr.NotFound("user_not_found", "user not found", err)
	case errors.Is(err, apperr.ErrUnavailable):
		return apperr.Unavailable("store_unavailable", "storage is temporarily unavailable, retry later", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
