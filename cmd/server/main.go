package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/yusufkecer/vitals-media-backend/internal/config"
	"github.com/yusufkecer/vitals-media-backend/internal/db"
	"github.com/yusufkecer/vitals-media-backend/internal/handler"
	"github.com/yusufkecer/vitals-media-backend/internal/logger"
	"github.com/yusufkecer/vitals-media-backend/internal/middleware"
	"github.com/yusufkecer/vitals-media-backend/internal/repository"
	"github.com/yusufkecer/vitals-media-backend/internal/revocation"
	"github.com/yusufkecer/vitals-media-backend/internal/service"
	"github.com/yusufkecer/vitals-media-backend/internal/storage/minio"
	"github.com/yusufkecer/vitals-media-backend/internal/token"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("", "info").Fatal("failed to load config", "error", err)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", "error", err)
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database, log.Logger); err != nil {
		return err
	}

	objects, err := minio.Connect(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	revoked := revocation.New(cfg.Revocation.SweepInterval)
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	metrics := middleware.NewMetrics()

	userRepo := repository.NewUserRepository(database)
	metricRepo := repository.NewMetricRepository(database)
	videoRepo := repository.NewVideoRepository(database)

	authService := service.NewAuthService(userRepo, tokens, revoked, time.Now, log)
	importer := service.NewImporter(metricRepo, metrics, log)
	resolver := service.NewResolver(metricRepo)
	history := service.NewHistory(metricRepo, time.Now)
	dashboard := service.NewDashboard(metricRepo, loc, time.Now, log)
	videoService := service.NewVideoService(videoRepo, objects, time.Now, log)

	router := newRouter(cfg, log, authService, metrics, handlers{
		auth:    handler.NewAuthHandler(authService, log),
		users:   handler.NewUserHandler(authService, log),
		metrics: handler.NewMetricHandler(importer, resolver, history, dashboard, log),
		videos:  handler.NewVideoHandler(videoService, log),
	})

	apiServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", "addr", apiServer.Addr)
		return serve(apiServer)
	})
	g.Go(func() error {
		log.Info("metrics server starting", "addr", metricsServer.Addr)
		return serve(metricsServer)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(apiServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
