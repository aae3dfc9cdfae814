package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "survey-system/docs"
	"survey-system/internal/config"
	"survey-system/internal/domain/survey"
	"survey-system/internal/domain/user"
	"survey-system/internal/domain/vote"
	api "survey-system/internal/http"
	"survey-system/internal/platform/database"
	jwtpkg "survey-system/internal/platform/jwt"
	"survey-system/internal/repository/postgres"
	"survey-system/internal/worker"
	"survey-system/pkg/logger"
)

// @title           Survey System API
// @version         1.0
// @description     Multi-option surveys with vote integrity rules and aggregated results
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zl.Sync()
	api.SetLogger(zl)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.DBDSN)
	if err != nil {
		zl.Fatal("db connect error", zap.Error(err))
	}
	defer db.Close()

	userRepo := postgres.NewUserRepo(db)
	surveyRepo := postgres.NewSurveyRepo(db)
	voteRepo := postgres.NewVoteRepo(db)

	userSvc := user.NewService(userRepo)
	surveySvc := survey.NewService(surveyRepo)
	voteSvc := vote.NewService(voteRepo)

	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret, cfg.JWTIssuer)

	voteCh := make(chan worker.VoteEvent, 100)
	voteWorker := worker.NewVoteWorker(voteCh, zl)

	router := api.NewRouter(userSvc, surveySvc, voteSvc, jwtMgr, voteCh, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go voteWorker.Run(ctx)

	go func() {
		zl.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("listen error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("server shutdown error", zap.Error(err))
	}

	zl.Info("server stopped")
}
