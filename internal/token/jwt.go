// Package token issues and validates the signed identity tokens presented as
// bearer credentials. Tokens are never stored server-side; they expire purely
// by elapsed time.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "timeclock/pkg/domain-errors"
)

// ErrInvalidToken is the sentinel returned for tampered, malformed, or
// unverifiable tokens. Callers branch on it instead of propagating a fault.
var ErrInvalidToken = dErrors.New(dErrors.CodeUnauthorized, "invalid token")

// Claims represents the JWT claims for our access tokens. Subject carries the
// person's email.
type Claims struct {
	Role      string `json:"role"`
	PersonID  int64  `json:"person_id"`
	CompanyID int64  `json:"company_id"`
	jwt.RegisteredClaims
}

// Clock abstracts time.Now for testability.
type Clock func() time.Time

// Service handles JWT creation and validation. It is a pure function of its
// inputs and the signing key, safe under arbitrary parallel invocation.
type Service struct {
	signingKey []byte
	issuer     string
	clock      Clock
}

// Option configures a Service instance.
type Option func(*Service)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(signingKey string, issuer string, opts ...Option) *Service {
	s := &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Issue builds claims for the given identity and signs them with HS256.
// Fails with a signing error when no signing key is configured.
func (s *Service) Issue(subject string, role string, personID, companyID int64, ttl time.Duration) (string, error) {
	if len(s.signingKey) == 0 {
		return "", dErrors.New(dErrors.CodeSigning, "signing key unavailable")
	}

	now := s.clock()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:      role,
		PersonID:  personID,
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSigning, "sign token")
	}
	return signedToken, nil
}

// ValidateSignature verifies the signature and structural well-formedness of
// a token and returns its claims. Expiration is deliberately not checked here;
// an expired token with a good signature still yields its claims so callers
// can decide expiry independently.
func (s *Service) ValidateSignature(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithoutClaimsValidation())

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// IsExpired reports whether the claims' expiry has passed. A token is usable
// up to and including its expires-at instant.
func (s *Service) IsExpired(claims *Claims) bool {
	return s.clock().After(claims.ExpiresAt.Time)
}

// IsValid reports whether the token both verifies and has not expired.
func (s *Service) IsValid(tokenString string) bool {
	claims, err := s.ValidateSignature(tokenString)
	if err != nil {
		return false
	}
	return !s.IsExpired(claims)
}

// Refresh re-issues a token from its claims with a fresh issued-at and expiry.
// The signature must verify, but an already-expired token is still
// refreshable; expiry policy for refresh belongs to the caller presenting the
// token within whatever window the product allows.
func (s *Service) Refresh(tokenString string, ttl time.Duration) (string, error) {
	claims, err := s.ValidateSignature(tokenString)
	if err != nil {
		return "", err
	}
	return s.Issue(claims.Subject, claims.Role, claims.PersonID, claims.CompanyID, ttl)
}
