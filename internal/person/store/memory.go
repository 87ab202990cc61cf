package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"timeclock/internal/person/models"
	"timeclock/pkg/platform/sentinel"
)

// In-memory stores keep tests and local development lightweight. They
// intentionally favor clarity over performance.
type InMemoryPersonStore struct {
	mu      sync.RWMutex
	nextID  int64
	persons map[int64]models.Person
}

func NewInMemoryPersonStore() *InMemoryPersonStore {
	return &InMemoryPersonStore{persons: make(map[int64]models.Person)}
}

func (s *InMemoryPersonStore) Save(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.persons {
		if id == p.ID {
			continue
		}
		if existing.TaxID == p.TaxID {
			return fmt.Errorf("person tax_id: %w", sentinel.ErrConflict)
		}
		if existing.Email == p.Email {
			return fmt.Errorf("person email: %w", sentinel.ErrConflict)
		}
	}

	now := time.Now()
	if p.ID == 0 {
		s.nextID++
		p.ID = s.nextID
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.persons[p.ID] = *p
	return nil
}

func (s *InMemoryPersonStore) FindByID(_ context.Context, id int64) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.persons[id]; ok {
		return &p, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryPersonStore) FindByTaxID(_ context.Context, taxID string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.persons {
		if p.TaxID == taxID {
			return &p, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryPersonStore) FindByEmail(_ context.Context, email string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.persons {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryPersonStore) FindByCompanyID(_ context.Context, companyID int64) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Person
	for _, p := range s.persons {
		if p.CompanyID == companyID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryPersonStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.persons, id)
	return nil
}

type InMemoryCompanyStore struct {
	mu        sync.RWMutex
	nextID    int64
	companies map[int64]models.Company
}

func NewInMemoryCompanyStore() *InMemoryCompanyStore {
	return &InMemoryCompanyStore{companies: make(map[int64]models.Company)}
}

func (s *InMemoryCompanyStore) Save(_ context.Context, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.companies {
		if id != c.ID && existing.TaxID == c.TaxID {
			return fmt.Errorf("company tax_id: %w", sentinel.ErrConflict)
		}
	}

	if c.ID == 0 {
		s.nextID++
		c.ID = s.nextID
		c.CreatedAt = time.Now()
	}
	s.companies[c.ID] = *c
	return nil
}

func (s *InMemoryCompanyStore) FindByID(_ context.Context, id int64) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.companies[id]; ok {
		return &c, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryCompanyStore) FindByTaxID(_ context.Context, taxID string) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.companies {
		if c.TaxID == taxID {
			return &c, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
