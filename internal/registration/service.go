// Package registration onboards companies and individuals. It owns the
// uniqueness pre-checks; the person/company stores remain the authoritative
// guard when concurrent registrations race past them.
package registration

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"

	"timeclock/internal/person/models"
	"timeclock/internal/person/store"
	"timeclock/internal/platform/metrics"

	dErrors "timeclock/pkg/domain-errors"
	"timeclock/pkg/platform/password"
	"timeclock/pkg/platform/sentinel"
)

type Service struct {
	persons   store.PersonStore
	companies store.CompanyStore
	metrics   *metrics.Metrics
	log       *log.Logger
}

func NewService(persons store.PersonStore, companies store.CompanyStore, m *metrics.Metrics, logger *log.Logger) *Service {
	return &Service{
		persons:   persons,
		companies: companies,
		metrics:   m,
		log:       logger,
	}
}

// IndividualDraft is the input for onboarding an employee into an existing
// company. Optional compensation fields stay nil when not supplied.
type IndividualDraft struct {
	Name           string
	Email          string
	TaxID          string
	CompanyTaxID   string
	Password       string
	LunchHours     *float64
	DailyWorkHours *float64
	HourlyRate     *float64
}

// CompanyDraft is the input for onboarding a new company.
type CompanyDraft struct {
	TaxID     string
	LegalName string
}

// AdminDraft is the first (admin) person created alongside a new company.
type AdminDraft struct {
	Name     string
	Email    string
	TaxID    string
	Password string
}

// UpdatePersonRequest carries replacement values for an existing person.
// Optional numerics follow clear-then-set: nil clears the stored value.
// A nil Password leaves the stored hash untouched.
type UpdatePersonRequest struct {
	Email          string
	LunchHours     *float64
	DailyWorkHours *float64
	HourlyRate     *float64
	Password       *string
}

// RegisterIndividual validates the draft against the company registry and
// existing persons, then persists a User-role person. All violations are
// accumulated and reported together; nothing is persisted when any check
// fails.
func (s *Service) RegisterIndividual(ctx context.Context, draft IndividualDraft) (*models.Person, error) {
	var violations dErrors.Violations

	company, err := s.companies.FindByTaxID(ctx, draft.CompanyTaxID)
	if errors.Is(err, sentinel.ErrNotFound) {
		violations.Add("company", "company not registered")
	} else if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve company")
	}

	if err := s.checkPersonAvailability(ctx, &violations, draft.TaxID, draft.Email, 0); err != nil {
		return nil, err
	}
	if err := violations.Err(); err != nil {
		return nil, err
	}

	hash, err := password.Hash(draft.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash credential")
	}

	person := &models.Person{
		TaxID:          draft.TaxID,
		Email:          draft.Email,
		Name:           draft.Name,
		Role:           models.RoleUser,
		CompanyID:      company.ID,
		PasswordHash:   hash,
		LunchHours:     draft.LunchHours,
		DailyWorkHours: draft.DailyWorkHours,
		HourlyRate:     draft.HourlyRate,
	}
	if err := s.persons.Save(ctx, person); err != nil {
		return nil, translateConflict(err, "persist person")
	}

	s.metrics.IncrementPersonsRegistered()
	s.log.Printf("registered person %d for company %d", person.ID, company.ID)
	return person, nil
}

// RegisterCompany onboards a company together with its admin person. Every
// uniqueness check runs before any persistence; violations accumulate into
// one aggregate result. The company is persisted first, then the admin
// linked to its id.
func (s *Service) RegisterCompany(ctx context.Context, companyDraft CompanyDraft, adminDraft AdminDraft) (*models.Company, *models.Person, error) {
	var violations dErrors.Violations

	_, err := s.companies.FindByTaxID(ctx, companyDraft.TaxID)
	if err == nil {
		violations.AddConflict("company", "company tax id already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve company")
	}

	if err := s.checkPersonAvailability(ctx, &violations, adminDraft.TaxID, adminDraft.Email, 0); err != nil {
		return nil, nil, err
	}
	if err := violations.Err(); err != nil {
		return nil, nil, err
	}

	hash, err := password.Hash(adminDraft.Password)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash credential")
	}

	company := &models.Company{
		TaxID:     companyDraft.TaxID,
		LegalName: companyDraft.LegalName,
	}
	if err := s.companies.Save(ctx, company); err != nil {
		return nil, nil, translateConflict(err, "persist company")
	}

	admin := &models.Person{
		TaxID:        adminDraft.TaxID,
		Email:        adminDraft.Email,
		Name:         adminDraft.Name,
		Role:         models.RoleAdmin,
		CompanyID:    company.ID,
		PasswordHash: hash,
	}
	if err := s.persons.Save(ctx, admin); err != nil {
		return nil, nil, translateConflict(err, "persist admin")
	}

	s.metrics.IncrementCompaniesRegistered()
	s.metrics.IncrementPersonsRegistered()
	s.log.Printf("registered company %d with admin %d", company.ID, admin.ID)
	return company, admin, nil
}

// UpdatePerson replaces a person's mutable fields. The email uniqueness check
// reruns only when the email actually changes. Optional numerics are cleared
// first and set only when supplied, so an omitted field becomes absent.
func (s *Service) UpdatePerson(ctx context.Context, id int64, req UpdatePersonRequest) (*models.Person, error) {
	person, err := s.persons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load person")
	}

	if req.Email != person.Email {
		other, err := s.persons.FindByEmail(ctx, req.Email)
		if err == nil && other.ID != id {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "check email")
		}
		person.Email = req.Email
	}

	person.LunchHours = req.LunchHours
	person.DailyWorkHours = req.DailyWorkHours
	person.HourlyRate = req.HourlyRate

	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash credential")
		}
		person.PasswordHash = hash
	}

	if err := s.persons.Save(ctx, person); err != nil {
		return nil, translateConflict(err, "persist person")
	}
	return person, nil
}

// PersonsByCompany lists every person linked to a company.
func (s *Service) PersonsByCompany(ctx context.Context, companyID int64) ([]*models.Person, error) {
	persons, err := s.persons.FindByCompanyID(ctx, companyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list persons")
	}
	return persons, nil
}

// checkPersonAvailability looks up the tax id and email in parallel and
// records a conflict violation for each one already taken. excludeID skips a
// match against the person being updated.
func (s *Service) checkPersonAvailability(ctx context.Context, violations *dErrors.Violations, taxID, email string, excludeID int64) error {
	var taxTaken, emailTaken bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		existing, err := s.persons.FindByTaxID(gctx, taxID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "check tax id")
		}
		taxTaken = existing.ID != excludeID
		return nil
	})
	g.Go(func() error {
		existing, err := s.persons.FindByEmail(gctx, email)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "check email")
		}
		emailTaken = existing.ID != excludeID
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if taxTaken {
		violations.AddConflict("taxId", "tax id already registered")
	}
	if emailTaken {
		violations.AddConflict("email", "email already registered")
	}
	return nil
}

// translateConflict converts a store-level uniqueness failure into the same
// conflict error the pre-checks produce, so racing registrations and
// sequential ones report identically.
func translateConflict(err error, op string) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "tax id or email already registered")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, op)
}
