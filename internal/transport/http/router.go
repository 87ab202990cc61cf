package httptransport

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timeclock/internal/access"
	"timeclock/internal/person/models"
	"timeclock/internal/token"

	"timeclock/pkg/platform/middleware/auth"
)

// TokenValidator adapts the token service to the auth middleware's contract,
// rejecting expired tokens that a bare signature check would let through.
type TokenValidator struct {
	tokens *token.Service
}

func NewTokenValidator(tokens *token.Service) *TokenValidator {
	return &TokenValidator{tokens: tokens}
}

func (v *TokenValidator) Validate(tokenString string) (*auth.Claims, error) {
	claims, err := v.tokens.ValidateSignature(tokenString)
	if err != nil {
		return nil, err
	}
	if v.tokens.IsExpired(claims) {
		return nil, token.ErrInvalidToken
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, token.ErrInvalidToken
	}
	return &auth.Claims{
		Subject:   claims.Subject,
		Role:      role.String(),
		PersonID:  claims.PersonID,
		CompanyID: claims.CompanyID,
	}, nil
}

// RouterDeps carries everything the router needs wired in.
type RouterDeps struct {
	Registration RegistrationService
	Login        LoginService
	Attendance   AttendanceService
	Tokens       *token.Service
	PageSize     int
	Logger       *log.Logger
}

// requireRole lets the access gate decide whether the authenticated claims
// may pass. Mounted after RequireAuth.
func requireRole(gate *access.Gate, role models.Role, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var claims *token.Claims
			if ac := auth.GetClaims(r.Context()); ac != nil {
				claims = &token.Claims{Role: ac.Role, PersonID: ac.PersonID, CompanyID: ac.CompanyID}
			}
			if err := gate.Authorize(claims, role); err != nil {
				logger.Printf("forbidden %s %s: role %q required", r.Method, r.URL.Path, role)
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter wires all public endpoints, the auth middleware chain, and the
// metrics endpoint.
func NewRouter(deps RouterDeps) http.Handler {
	validator := NewTokenValidator(deps.Tokens)
	requireAuth := auth.RequireAuth(validator, deps.Logger)
	requireAdmin := requireRole(access.NewGate(), models.RoleAdmin, deps.Logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	NewLoginHandler(deps.Login).Register(r)
	NewRegistrationHandler(deps.Registration, requireAuth, deps.Logger).Register(r)
	NewAttendanceHandler(deps.Attendance, deps.PageSize, requireAuth, requireAdmin).Register(r)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
