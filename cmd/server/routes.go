package main

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"github.com/yusufkecer/vitals-media-backend/internal/config"
	"github.com/yusufkecer/vitals-media-backend/internal/handler"
	"github.com/yusufkecer/vitals-media-backend/internal/logger"
	"github.com/yusufkecer/vitals-media-backend/internal/middleware"
)

const (
	healthPath   = "/api/v1/health"
	maxJSONBytes = 1 << 20
)

type handlers struct {
	auth    *handler.AuthHandler
	users   *handler.UserHandler
	metrics *handler.MetricHandler
	videos  *handler.VideoHandler
}

func newRouter(cfg *config.Config, log *logger.Logger, authn middleware.Authenticator, metrics *middleware.Metrics, h handlers) *mux.Router {
	limit := func(n int64, fn http.HandlerFunc) http.Handler {
		return middleware.MaxBytes(n)(fn)
	}
	loginRL := middleware.RateLimit(5, 15*time.Minute)

	r := mux.NewRouter()

	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.Instrument)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.APIKeyMiddleware(cfg.APIKey, healthPath))

	r.HandleFunc(healthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.Handle("/auth/register", limit(maxJSONBytes, h.auth.Register)).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/login", loginRL(limit(maxJSONBytes, h.auth.Login))).Methods(http.MethodPost, http.MethodOptions)

	// search and top/* are registered ahead of {id}.
	api.Handle("/videos", limit(cfg.Upload.MaxVideoBytes, h.videos.Create)).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/videos", h.videos.List).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/videos/search", h.videos.Search).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/videos/top/views", h.videos.TopViews).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/videos/top/favorites", h.videos.TopFavorites).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/videos/{id:[0-9]+}", h.videos.Get).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/videos/{id:[0-9]+}/favorites", h.videos.AddFavorite).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/videos/{id:[0-9]+}/favorites", h.videos.RemoveFavorite).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/videos/{id:[0-9]+}/increment_views", h.videos.IncrementViews).Methods(http.MethodPut, http.MethodOptions)
	api.Handle("/videos/{id:[0-9]+}/comments", limit(maxJSONBytes, h.videos.AddComment)).Methods(http.MethodPost, http.MethodOptions)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(authn, log))

	protected.HandleFunc("/auth/logout", h.auth.Logout).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/profile", h.users.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.Handle("/profile", limit(maxJSONBytes, h.users.Update)).Methods(http.MethodPatch, http.MethodOptions)
	protected.HandleFunc("/profile", h.users.Delete).Methods(http.MethodDelete, http.MethodOptions)
	protected.Handle("/import-data", limit(cfg.Upload.MaxImportBytes, h.metrics.Import)).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/dashboard/view", h.metrics.View).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/dashboard/history", h.metrics.History).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/dashboard/latest", h.metrics.Latest).Methods(http.MethodGet, http.MethodOptions)

	return r
}
