package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// Claims is the authenticated identity the middleware stores on the request
// context. It is deliberately decoupled from the token package so handlers
// never touch raw JWT types.
type Claims struct {
	Subject   string
	Role      string
	PersonID  int64
	CompanyID int64
}

// Validator checks a bearer token and returns its claims. Expired or
// tampered tokens must be rejected with an error.
type Validator interface {
	Validate(tokenString string) (*Claims, error)
}

type contextKeyClaims struct{}

// ContextKeyClaims is exported for use in handlers.
var ContextKeyClaims = contextKeyClaims{}

// GetClaims retrieves the authenticated claims from the context, or nil when
// the request did not pass through RequireAuth.
func GetClaims(ctx context.Context) *Claims {
	claims, ok := ctx.Value(ContextKeyClaims).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth rejects requests without a verifiable, unexpired bearer token
// and stores the token's claims on the request context for handlers.
func RequireAuth(validator Validator, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.Printf("unauthorized %s %s: missing bearer token", r.Method, r.URL.Path)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.Printf("unauthorized %s %s: %v", r.Method, r.URL.Path, err)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
