package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit allows limit requests per client IP within window. The IP is the
// connection's RemoteAddr; forwarded headers count only after chi's RealIP has
// rewritten it behind a trusted proxy.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeFailure(w, http.StatusTooManyRequests, "too many requests")
		}),
	)
}
