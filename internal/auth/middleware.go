package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskforge/taskforge/internal/api/respond"
	"github.com/taskforge/taskforge/internal/apperr"
)

type contextKey string

const claimsContextKey = contextKey("authClaims")

// ContextWithClaims returns a context carrying verified claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts the verified claims attached by the auth
// middleware, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// verifyMessage maps each verification failure to distinct user-facing text.
// All of them answer with the same status code.
func verifyMessage(err error) string {
	switch err {
	case ErrTokenExpired:
		return "Token has expired, please log in again"
	case ErrTokenNotYetValid:
		return "Token is not valid yet"
	case ErrTokenSignature:
		return "Token signature is invalid"
	default:
		return "Malformed authentication token"
	}
}

// RequireAuth creates a middleware that rejects requests without a valid
// bearer token and attaches the verified claims to the request context.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				respond.Error(w, r, apperr.AuthRequired("Authentication required"))
				return
			}

			claims, err := tokens.Verify(tokenStr)
			if err != nil {
				respond.Error(w, r, apperr.AuthInvalid(verifyMessage(err)))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches claims when a valid bearer token is present and
// otherwise continues unauthenticated. An invalid credential is not fatal
// here; this variant exists for mixed-access routes and must not be used
// where RequireAuth is meant.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenStr := bearerToken(r); tokenStr != "" {
				if claims, err := tokens.Verify(tokenStr); err == nil {
					r = r.WithContext(ContextWithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
