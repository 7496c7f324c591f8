package handler

import (
	"net/http"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/logger"
	"github.com/yusufkecer/vitals-media-backend/internal/middleware"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	auth AuthService
	log  *logger.Logger
}

func NewUserHandler(auth AuthService, log *logger.Logger) *UserHandler {
	return &UserHandler{auth: auth, log: log}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.auth.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.Success(profile))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var upd domain.ProfileUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeBodyError(w, r, h.log, err, "invalid request body")
		return
	}

	profile, err := h.auth.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.Success(profile))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.auth.DeleteAccount(r.Context(), claims); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.SuccessMessage("account deleted"))
}
