package handler

import (
	"context"
	"net/http"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/logger"
	"github.com/yusufkecer/vitals-media-backend/internal/middleware"
	"github.com/yusufkecer/vitals-media-backend/internal/token"
)

type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (domain.TokenResponse, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error)
	Logout(claims *token.Claims)
	Profile(ctx context.Context, userID int64) (domain.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (domain.Profile, error)
	DeleteAccount(ctx context.Context, claims *token.Claims) error
}

type AuthHandler struct {
	auth AuthService
	log  *logger.Logger
}

func NewAuthHandler(auth AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, r, h.log, err, "invalid request body")
		return
	}

	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, domain.Success(res))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, r, h.log, err, "invalid request body")
		return
	}

	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.Success(res))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.auth.Logout(claims)
	writeJSON(w, http.StatusOK, domain.SuccessMessage("logged out"))
}
