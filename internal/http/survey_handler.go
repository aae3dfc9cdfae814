package api

import (
	"encoding/json"
	"net/http"

	"survey-system/internal/domain/survey"
	"survey-system/internal/platform/apperr"
)

type createSurveyRequest struct {
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	Options     []survey.OptionInput `json:"options"`
}

type updateSurveyRequest struct {
	Title       *string        `json:"title"`
	Description nullableString `json:"description"`
	IsActive    *bool          `json:"is_active"`
}

// nullableString records whether the key appeared at all, so an explicit
// "description": null can clear the field while an absent key leaves it.
type nullableString struct {
	set   bool
	value *string
}

func (n *nullableString) UnmarshalJSON(b []byte) error {
	n.set = true
	if string(b) == "null" {
		n.value = nil
		return nil
	}
	return json.Unmarshal(b, &n.value)
}

// @Summary     List active surveys open to the caller
// @Tags        surveys
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}   survey.Survey
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Router      /api/v1/surveys [get]
func (h *Handler) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	h.listSurveys(w, r, survey.ScopeActiveForVoter)
}

// @Summary     List the caller's own surveys
// @Tags        surveys
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}   survey.Survey
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Router      /api/v1/surveys/my [get]
func (h *Handler) handleMySurveys(w http.ResponseWriter, r *http.Request) {
	h.listSurveys(w, r, survey.ScopeMine)
}

// @Summary     List all surveys by other users (any state)
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}   survey.Survey
// @Failure     403  {object}  map[string]string  "forbidden"
// @Router      /api/v1/admin/surveys [get]
func (h *Handler) handleAdminSurveys(w http.ResponseWriter, r *http.Request) {
	h.listSurveys(w, r, survey.ScopeAdminAll)
}

func (h *Handler) listSurveys(w http.ResponseWriter, r *http.Request, scope survey.Scope) {
	surveys, err := h.surveySvc.List(r.Context(), callerFromCtx(r), scope)
	if err != nil {
		errorResponse(w, err)
		return
	}
	if surveys == nil {
		surveys = []survey.Survey{}
	}
	writeJSON(w, http.StatusOK, surveys)
}

// @Summary     Survey detail with aggregated results
// @Tags        surveys
// @Security    BearerAuth
// @Produce     json
// @Param       id   path      int64  true  "Survey ID"
// @Success     200  {object}  map[string]any
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/surveys/{id} [get]
func (h *Handler) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid survey id", err))
		return
	}

	s, opts, err := h.surveySvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	results, total, err := h.voteSvc.Results(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"survey":      s,
		"options":     opts,
		"results":     results,
		"total_votes": total,
	})
}

// @Summary     Create a survey
// @Tags        surveys
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      createSurveyRequest  true  "Survey payload"
// @Success     201      {object}  map[string]any
// @Failure     400      {object}  map[string]string  "invalid body or too few options"
// @Router      /api/v1/surveys [post]
func (h *Handler) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req createSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	for _, o := range req.Options {
		if o.Text == "" {
			errorResponse(w, apperr.BadRequest("invalid_input", "option text is required", nil))
			return
		}
	}

	s, opts, err := h.surveySvc.Create(r.Context(), callerFromCtx(r), survey.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Options:     req.Options,
	})
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"survey":  s,
		"options": opts,
	})
}

// @Summary     Update a survey (owner only)
// @Tags        surveys
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       id       path      int64                true  "Survey ID"
// @Param       request  body      updateSurveyRequest  true  "Fields to update"
// @Success     200      {object}  survey.Survey
// @Failure     403      {object}  map[string]string  "forbidden"
// @Failure     404      {object}  map[string]string  "not found"
// @Router      /api/v1/surveys/{id} [patch]
func (h *Handler) handleUpdateSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid survey id", err))
		return
	}

	var req updateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if req.Title != nil && *req.Title == "" {
		errorResponse(w, apperr.BadRequest("invalid_input", "title cannot be empty", nil))
		return
	}

	s, err := h.surveySvc.Update(r.Context(), callerFromCtx(r), id, survey.UpdateInput{
		Title:          req.Title,
		Description:    req.Description.value,
		DescriptionSet: req.Description.set,
		IsActive:       req.IsActive,
	})
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// @Summary     Delete a survey (owner or admin)
// @Tags        surveys
// @Security    BearerAuth
// @Param       id   path  int64  true  "Survey ID"
// @Success     204
// @Failure     403  {object}  map[string]string  "forbidden"
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/surveys/{id} [delete]
func (h *Handler) handleDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid survey id", err))
		return
	}

	if err := h.surveySvc.Delete(r.Context(), callerFromCtx(r), id); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Platform totals
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  map[string]int64
// @Failure     403  {object}  map[string]string  "forbidden"
// @Router      /api/v1/admin/stats [get]
func (h *Handler) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userSvc.Count(ctx)
	if err != nil {
		errorResponse(w, err)
		return
	}
	surveys, err := h.surveySvc.Count(ctx)
	if err != nil {
		errorResponse(w, err)
		return
	}
	votes, err := h.voteSvc.Count(ctx)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"totalUsers":   users,
		"totalSurveys": surveys,
		"totalVotes":   votes,
	})
}
