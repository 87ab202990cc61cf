// Package access maps a token's role claim to permitted operations.
package access

import (
	"timeclock/internal/person/models"
	"timeclock/internal/token"

	dErrors "timeclock/pkg/domain-errors"
)

// ErrForbidden is returned when the claims' role does not satisfy the
// required role for an operation.
var ErrForbidden = dErrors.New(dErrors.CodeForbidden, "insufficient role")

// Gate decides whether a set of claims may invoke an operation. It is
// stateless; one instance serves all requests.
type Gate struct{}

func NewGate() *Gate {
	return &Gate{}
}

// Authorize permits the call when no role is required or when the claims
// carry exactly the required role. Anything else is forbidden.
func (g *Gate) Authorize(claims *token.Claims, required models.Role) error {
	if claims == nil {
		return ErrForbidden
	}
	if required == "" {
		return nil
	}
	if models.Role(claims.Role) != required {
		return ErrForbidden
	}
	return nil
}
