package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"timeclock/internal/person/models"
	"timeclock/pkg/platform/sentinel"
)

type PersonStoreSuite struct {
	suite.Suite
	persons   *InMemoryPersonStore
	companies *InMemoryCompanyStore
	ctx       context.Context
}

func (s *PersonStoreSuite) SetupTest() {
	s.persons = NewInMemoryPersonStore()
	s.companies = NewInMemoryCompanyStore()
	s.ctx = context.Background()
}

func (s *PersonStoreSuite) SetupSubTest() {
	s.SetupTest()
}

func TestPersonStoreSuite(t *testing.T) {
	suite.Run(t, new(PersonStoreSuite))
}

func (s *PersonStoreSuite) newPerson(taxID, email string) *models.Person {
	return &models.Person{
		TaxID:        taxID,
		Email:        email,
		Name:         "Jane Doe",
		Role:         models.RoleUser,
		CompanyID:    1,
		PasswordHash: "$2a$10$fake",
	}
}

// TestCreationAndLookups verifies id assignment and retrieval by every key.
func (s *PersonStoreSuite) TestCreationAndLookups() {
	s.Run("assigns an id and finds by id, tax id, and email", func() {
		p := s.newPerson("51516554000", "jane@example.com")
		s.Require().NoError(s.persons.Save(s.ctx, p))
		s.NotZero(p.ID)

		byID, err := s.persons.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(p.TaxID, byID.TaxID)

		byTax, err := s.persons.FindByTaxID(s.ctx, "51516554000")
		s.Require().NoError(err)
		s.Equal(p.ID, byTax.ID)

		byEmail, err := s.persons.FindByEmail(s.ctx, "jane@example.com")
		s.Require().NoError(err)
		s.Equal(p.ID, byEmail.ID)
	})

	s.Run("returns ErrNotFound for unknown keys", func() {
		_, err := s.persons.FindByID(s.ctx, 999)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.persons.FindByTaxID(s.ctx, "000")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.persons.FindByEmail(s.ctx, "missing@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("lists persons by company", func() {
		a := s.newPerson("111", "a@example.com")
		b := s.newPerson("222", "b@example.com")
		b.CompanyID = 2
		s.Require().NoError(s.persons.Save(s.ctx, a))
		s.Require().NoError(s.persons.Save(s.ctx, b))

		found, err := s.persons.FindByCompanyID(s.ctx, 1)
		s.Require().NoError(err)
		s.Len(found, 1)
		s.Equal(a.ID, found[0].ID)
	})
}

// TestUniqueness verifies tax id and email conflicts surface as ErrConflict.
func (s *PersonStoreSuite) TestUniqueness() {
	s.Run("rejects duplicate tax id", func() {
		s.Require().NoError(s.persons.Save(s.ctx, s.newPerson("111", "a@example.com")))
		err := s.persons.Save(s.ctx, s.newPerson("111", "b@example.com"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("rejects duplicate email", func() {
		s.Require().NoError(s.persons.Save(s.ctx, s.newPerson("111", "a@example.com")))
		err := s.persons.Save(s.ctx, s.newPerson("222", "a@example.com"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("updating a person does not conflict with itself", func() {
		p := s.newPerson("111", "a@example.com")
		s.Require().NoError(s.persons.Save(s.ctx, p))
		p.Name = "Jane Q. Doe"
		s.Require().NoError(s.persons.Save(s.ctx, p))
	})
}

// TestDeletion verifies delete semantics including the missing-id case.
func (s *PersonStoreSuite) TestDeletion() {
	s.Run("deletes and makes the person unfindable", func() {
		p := s.newPerson("111", "a@example.com")
		s.Require().NoError(s.persons.Save(s.ctx, p))
		s.Require().NoError(s.persons.DeleteByID(s.ctx, p.ID))

		_, err := s.persons.FindByID(s.ctx, p.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound when deleting a non-existent person", func() {
		s.Require().ErrorIs(s.persons.DeleteByID(s.ctx, 42), sentinel.ErrNotFound)
	})
}

// TestCompanyStore covers company uniqueness and lookups.
func (s *PersonStoreSuite) TestCompanyStore() {
	s.Run("assigns an id and finds by tax id", func() {
		c := &models.Company{TaxID: "61245817000114", LegalName: "Acme Ltda"}
		s.Require().NoError(s.companies.Save(s.ctx, c))
		s.NotZero(c.ID)

		found, err := s.companies.FindByTaxID(s.ctx, "61245817000114")
		s.Require().NoError(err)
		s.Equal(c.ID, found.ID)
	})

	s.Run("rejects duplicate company tax id", func() {
		s.Require().NoError(s.companies.Save(s.ctx, &models.Company{TaxID: "999", LegalName: "A"}))
		err := s.companies.Save(s.ctx, &models.Company{TaxID: "999", LegalName: "B"})
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("returns ErrNotFound for unknown company", func() {
		_, err := s.companies.FindByTaxID(s.ctx, "404")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
