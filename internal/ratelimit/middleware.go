package ratelimit

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/taskforge/taskforge/internal/api/respond"
	"github.com/taskforge/taskforge/internal/apperr"
	"github.com/taskforge/taskforge/internal/auth"
)

// Limiter enforces a request cap per identity per window. Over-cap requests
// get a hard reject; nothing is queued or delayed.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

// NewLimiter creates a limiter backed by the given store.
func NewLimiter(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window}
}

// Middleware throttles by the authenticated user id. It must be mounted
// after RequireAuth; requests without claims pass through unlimited.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		count, err := l.store.Increment(r.Context(), claims.UserID, l.window)
		if err != nil {
			// Fail open: a broken counter store must not reject traffic.
			log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Rate limit store unavailable")
			next.ServeHTTP(w, r)
			return
		}

		if count > l.max {
			respond.Error(w, r, apperr.RateLimited("Too many requests, slow down"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
