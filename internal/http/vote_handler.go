package api

import (
	"encoding/json"
	"net/http"

	"survey-system/internal/platform/apperr"
	"survey-system/internal/worker"
)

type voteRequest struct {
	OptionID int64 `json:"option_id"`
}

// @Summary     Vote for an option
// @Tags        votes
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       id       path      int64        true  "Survey ID"
// @Param       request  body      voteRequest  true  "Vote payload"
// @Success     201      {object}  map[string]any
// @Failure     400      {object}  map[string]string  "invalid body"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     403      {object}  map[string]string  "survey closed or self-vote"
// @Failure     404      {object}  map[string]string  "survey or option not found"
// @Failure     409      {object}  map[string]string  "already voted"
// @Router      /api/v1/surveys/{id}/vote [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	surveyID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid survey id", err))
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if req.OptionID == 0 {
		errorResponse(w, apperr.BadRequest("invalid_input", "option_id is required", nil))
		return
	}

	caller := callerFromCtx(r)
	v, err := h.voteSvc.Cast(r.Context(), caller, surveyID, req.OptionID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	select {
	case h.voteCh <- worker.VoteEvent{SurveyID: surveyID, OptionID: req.OptionID, UserID: caller.ID}:
	default:
	}

	writeJSON(w, http.StatusCreated, map[string]any{"vote": v})
}
