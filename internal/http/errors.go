package api

import (
	"database/sql"
	"errors"
	"net/http"

	"survey-system/internal/domain/survey"
	"survey-system/internal/domain/user"
	"survey-system/internal/domain/vote"
	"survey-system/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
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
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("not_found", "resource not found", err)
	case errors.Is(err, user.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "invalid credentials", err)
	case errors.Is(err, user.ErrEmailTaken):
		return apperr.BadRequest("email_taken", "email already taken", err)
	case errors.Is(err, survey.ErrNotFound):
		return apperr.NotFound("survey_not_found", "survey not found", err)
	case errors.Is(err, survey.ErrForbidden):
		return apperr.Forbidden("forbidden", "you may not modify this survey", err)
	case errors.Is(err, survey.ErrTitleRequired):
		return apperr.BadRequest("title_required", "title is required", err)
	case errors.Is(err, survey.ErrTooFewOptions):
		return apperr.BadRequest("too_few_options", "survey must have at least 2 options", err)
	case errors.Is(err, vote.ErrSurveyNotFound):
		return apperr.NotFound("survey_not_found", "survey not found", err)
	case errors.Is(err, vote.ErrSurveyClosed):
		return apperr.Forbidden("survey_closed", "survey is no longer active", err)
	case errors.Is(err, vote.ErrSelfVote):
		return apperr.Forbidden("self_vote_forbidden", "you cannot vote on your own survey", err)
	case errors.Is(err, vote.ErrAlreadyVoted):
		return apperr.Conflict("already_voted", "you already voted in this survey", err)
	case errors.Is(err, vote.ErrOptionNotInSurvey):
		return apperr.NotFound("option_not_found", "option does not belong to this survey", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
