package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"survey-system/internal/domain/survey"
	"survey-system/internal/domain/user"
	"survey-system/internal/domain/vote"
	"survey-system/internal/metrics"
	jwtpkg "survey-system/internal/platform/jwt"
	"survey-system/internal/worker"
)

type Handler struct {
	userSvc   *user.Service
	surveySvc *survey.Service
	voteSvc   *vote.Service
	jwtMgr    *jwtpkg.Manager
	voteCh    chan<- worker.VoteEvent
	db        *sql.DB
}

func NewRouter(
	userSvc *user.Service,
	surveySvc *survey.Service,
	voteSvc *vote.Service,
	jwtMgr *jwtpkg.Manager,
	voteCh chan<- worker.VoteEvent,
	db *sql.DB,
) http.Handler {
	h := &Handler{
		userSvc:   userSvc,
		surveySvc: surveySvc,
		voteSvc:   voteSvc,
		jwtMgr:    jwtMgr,
		voteCh:    voteCh,
		db:        db,
	}

	metrics.Register()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtMgr))

			r.Get("/surveys", h.handleListSurveys)
			r.Get("/surveys/my", h.handleMySurveys)
			r.Post("/surveys", h.handleCreateSurvey)
			r.Get("/surveys/{id}", h.handleGetSurvey)
			r.Patch("/surveys/{id}", h.handleUpdateSurvey)
			r.Delete("/surveys/{id}", h.handleDeleteSurvey)
			r.With(RateLimitVotes(rate.Every(time.Minute/10), 3)).Post("/surveys/{id}/vote", h.handleVote)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole("admin"))
				r.Get("/admin/surveys", h.handleAdminSurveys)
				r.Get("/admin/stats", h.handleAdminStats)
			})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	return strconv.ParseInt(idStr, 10, 64)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
