// Package login exchanges credentials for signed session tokens. Lookups and
// credential mismatches collapse into one unauthorized error so responses
// never reveal which part failed.
package login

import (
	"context"
	"errors"
	"log"
	"time"

	"timeclock/internal/person/store"
	"timeclock/internal/token"

	dErrors "timeclock/pkg/domain-errors"
	"timeclock/pkg/platform/password"
	"timeclock/pkg/platform/sentinel"
)

// ErrBadCredentials is returned for unknown emails and wrong passwords alike.
var ErrBadCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")

type Service struct {
	persons  store.PersonStore
	tokens   *token.Service
	tokenTTL time.Duration
	log      *log.Logger
}

func NewService(persons store.PersonStore, tokens *token.Service, tokenTTL time.Duration, logger *log.Logger) *Service {
	return &Service{
		persons:  persons,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		log:      logger,
	}
}

// Authenticate verifies the credential pair and issues a fresh session token.
func (s *Service) Authenticate(ctx context.Context, email, credential string) (string, error) {
	person, err := s.persons.FindByEmail(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load person")
	}

	if !password.Verify(person.PasswordHash, credential) {
		s.log.Printf("failed login for person %d", person.ID)
		return "", ErrBadCredentials
	}

	signed, err := s.tokens.Issue(person.Email, person.Role.String(), person.ID, person.CompanyID, s.tokenTTL)
	if err != nil {
		return "", err
	}
	s.log.Printf("issued token for person %d", person.ID)
	return signed, nil
}

// Refresh re-issues a session token from an existing one. The old token's
// signature must verify, but an elapsed expiry does not block the refresh.
func (s *Service) Refresh(oldToken string) (string, error) {
	return s.tokens.Refresh(oldToken, s.tokenTTL)
}
