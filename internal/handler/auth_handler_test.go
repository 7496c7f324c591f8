package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/testutil"
	"github.com/yusufkecer/vitals-media-backend/internal/token"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid", fmt.Errorf("%w: weights: row 2: bad", domain.ErrInvalidArgument), http.StatusBadRequest, "invalid argument: weights: row 2: bad"},
		{"unauthorized", fmt.Errorf("%w: invalid token", domain.ErrUnauthorized), http.StatusUnauthorized, ""},
		{"not found", fmt.Errorf("%w: video 3", domain.ErrNotFound), http.StatusNotFound, ""},
		{"conflict", fmt.Errorf("%w: already favorite", domain.ErrConflict), http.StatusConflict, ""},
		{"too large", fmt.Errorf("failed to read upload: %w", &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge, "request body too large"},
		{"storage", errors.New("failed to query: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			writeServiceError(rec, req, testutil.MakeNoopLogger(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, domain.StatusError, body["status"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			} else {
				assert.Equal(t, tt.err.Error(), body["message"])
			}
		})
	}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, testutil.MakeNoopLogger())
		expires := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		svc.On("Register", mock.Anything, mock.MatchedBy(func(r domain.RegisterRequest) bool {
			return r.Username == "ana" && r.Weight == 60.5
		})).Return(domain.TokenResponse{UserID: 1, Token: "tok", ExpiresAt: expires}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
			strings.NewReader(`{"email":"a@b.co","username":"ana","password":"secret1","weight":60.5,"height":170}`))
		h.Register(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, "tok", data["token"])
		assert.Equal(t, float64(1), data["user_id"])
		svc.AssertExpectations(t)
	})

	t.Run("bad json", func(t *testing.T) {
		h := NewAuthHandler(new(MockAuthService), testutil.MakeNoopLogger())
		rec := httptest.NewRecorder()
		h.Register(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid request body", decodeBody(t, rec)["message"])
	})

	t.Run("body over limit", func(t *testing.T) {
		h := NewAuthHandler(new(MockAuthService), testutil.MakeNoopLogger())
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"`+strings.Repeat("a", 64)+`"}`))
		req.Body = http.MaxBytesReader(rec, req.Body, 16)
		h.Register(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "request body too large", decodeBody(t, rec)["message"])
	})

	t.Run("conflict", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, testutil.MakeNoopLogger())
		svc.On("Register", mock.Anything, mock.Anything).
			Return(domain.TokenResponse{}, fmt.Errorf("%w: email or username already exists", domain.ErrConflict))

		rec := httptest.NewRecorder()
		h.Register(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthService)
	h := NewAuthHandler(svc, testutil.MakeNoopLogger())
	svc.On("Login", mock.Anything, domain.LoginRequest{Username: "ana", Password: "nope"}).
		Return(domain.TokenResponse{}, fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized))

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ana","password":"nope"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "invalid username or password")
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes presented token", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, testutil.MakeNoopLogger())
		svc.On("Logout", mock.MatchedBy(func(c *token.Claims) bool { return c.ID == "jti-test" })).Return()

		rec := httptest.NewRecorder()
		h.Logout(rec, asUser(httptest.NewRequest(http.MethodPost, "/", nil), 7))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "logged out", decodeBody(t, rec)["message"])
		svc.AssertExpectations(t)
	})

	t.Run("no claims", func(t *testing.T) {
		h := NewAuthHandler(new(MockAuthService), testutil.MakeNoopLogger())
		rec := httptest.NewRecorder()
		h.Logout(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandler(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewUserHandler(svc, testutil.MakeNoopLogger())
		svc.On("Profile", mock.Anything, int64(7)).Return(domain.Profile{ID: 7, Username: "ana"}, nil)

		rec := httptest.NewRecorder()
		h.Get(rec, asUser(httptest.NewRequest(http.MethodGet, "/", nil), 7))

		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, "ana", data["username"])
		assert.NotContains(t, data, "password")
	})

	t.Run("get missing user", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewUserHandler(svc, testutil.MakeNoopLogger())
		svc.On("Profile", mock.Anything, int64(7)).Return(domain.Profile{}, fmt.Errorf("%w: user 7", domain.ErrNotFound))

		rec := httptest.NewRecorder()
		h.Get(rec, asUser(httptest.NewRequest(http.MethodGet, "/", nil), 7))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewUserHandler(svc, testutil.MakeNoopLogger())
		svc.On("UpdateProfile", mock.Anything, int64(7), mock.MatchedBy(func(u domain.ProfileUpdate) bool {
			return u.Username != nil && *u.Username == "bea" && u.Email == nil
		})).Return(domain.Profile{ID: 7, Username: "bea"}, nil)

		rec := httptest.NewRecorder()
		h.Update(rec, asUser(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"username":"bea"}`)), 7))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("update body over limit", func(t *testing.T) {
		h := NewUserHandler(new(MockAuthService), testutil.MakeNoopLogger())
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"username":"`+strings.Repeat("b", 64)+`"}`))
		req.Body = http.MaxBytesReader(rec, req.Body, 16)
		h.Update(rec, asUser(req, 7))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("update bad json", func(t *testing.T) {
		h := NewUserHandler(new(MockAuthService), testutil.MakeNoopLogger())
		rec := httptest.NewRecorder()
		h.Update(rec, asUser(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader("nope")), 7))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewUserHandler(svc, testutil.MakeNoopLogger())
		svc.On("DeleteAccount", mock.Anything, mock.MatchedBy(func(c *token.Claims) bool { return c.UserID == 7 })).Return(nil)

		rec := httptest.NewRecorder()
		h.Delete(rec, asUser(httptest.NewRequest(http.MethodDelete, "/", nil), 7))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "account deleted", decodeBody(t, rec)["message"])
		svc.AssertExpectations(t)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h := NewUserHandler(new(MockAuthService), testutil.MakeNoopLogger())
		rec := httptest.NewRecorder()
		h.Get(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
