package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/yusufkecer/vitals-media-backend/internal/logger"
	"github.com/yusufkecer/vitals-media-backend/internal/token"
)

type contextKey string

const claimsKey contextKey = "claims"

type Authenticator interface {
	Authenticate(raw string) (*token.Claims, error)
}

// AuthMiddleware requires a valid, unrevoked bearer token and stores its claims in the context.
func AuthMiddleware(auth Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeFailure(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == header || raw == "" {
				writeFailure(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			claims, err := auth.Authenticate(raw)
			if err != nil {
				log.Debug("token rejected", "path", r.URL.Path, "reason", err.Error())
				writeFailure(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFrom(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok && claims != nil
}

func UserID(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}
