package login

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"timeclock/internal/person/models"
	"timeclock/internal/person/store"
	"timeclock/internal/token"
	"timeclock/pkg/platform/password"
)

type LoginSuite struct {
	suite.Suite

	ctx     context.Context
	persons *store.InMemoryPersonStore
	tokens  *token.Service
	service *Service
}

func TestLoginSuite(t *testing.T) {
	suite.Run(t, new(LoginSuite))
}

func (s *LoginSuite) SetupTest() {
	s.ctx = context.Background()
	s.persons = store.NewInMemoryPersonStore()
	s.tokens = token.NewService("login-suite-key", "timeclock")
	s.service = NewService(s.persons, s.tokens, 30*time.Minute, log.New(io.Discard, "", 0))
}

func (s *LoginSuite) seedPerson(email, credential string) *models.Person {
	hash, err := password.Hash(credential)
	s.Require().NoError(err)
	person := &models.Person{
		TaxID:        "51516554000",
		Email:        email,
		Name:         "Joana Silva",
		Role:         models.RoleUser,
		CompanyID:    7,
		PasswordHash: hash,
	}
	s.Require().NoError(s.persons.Save(s.ctx, person))
	return person
}

func (s *LoginSuite) TestAuthenticate() {
	person := s.seedPerson("joana@acme.com", "hunter22")

	signed, err := s.service.Authenticate(s.ctx, "joana@acme.com", "hunter22")
	s.Require().NoError(err)

	claims, err := s.tokens.ValidateSignature(signed)
	s.Require().NoError(err)
	s.Equal("joana@acme.com", claims.Subject)
	s.Equal(models.RoleUser.String(), claims.Role)
	s.Equal(person.ID, claims.PersonID)
	s.Equal(int64(7), claims.CompanyID)
	s.False(s.tokens.IsExpired(claims))
}

func (s *LoginSuite) TestAuthenticateWrongPassword() {
	s.seedPerson("joana@acme.com", "hunter22")

	_, err := s.service.Authenticate(s.ctx, "joana@acme.com", "wrong")
	s.ErrorIs(err, ErrBadCredentials)
}

func (s *LoginSuite) TestAuthenticateUnknownEmail() {
	_, err := s.service.Authenticate(s.ctx, "nobody@acme.com", "hunter22")
	s.ErrorIs(err, ErrBadCredentials)
}

func (s *LoginSuite) TestRefresh() {
	s.seedPerson("joana@acme.com", "hunter22")
	signed, err := s.service.Authenticate(s.ctx, "joana@acme.com", "hunter22")
	s.Require().NoError(err)

	refreshed, err := s.service.Refresh(signed)
	s.Require().NoError(err)

	claims, err := s.tokens.ValidateSignature(refreshed)
	s.Require().NoError(err)
	s.Equal("joana@acme.com", claims.Subject)
}

func (s *LoginSuite) TestRefreshRejectsGarbage() {
	_, err := s.service.Refresh("not-a-token")
	s.ErrorIs(err, token.ErrInvalidToken)
}
