// Package store persists Person and Company records. Implementations enforce
// the uniqueness constraints (tax id per company, tax id and email per
// person) atomically; the registration workflow's pre-checks are advisory and
// the store is the authoritative guard against concurrent duplicates.
package store

import (
	"context"

	"timeclock/internal/person/models"
)

// PersonStore is interface-driven to keep the domain logic testable and to
// allow swapping in-memory and PostgreSQL persistence without rewiring
// business code.
type PersonStore interface {
	// Save inserts when ID is zero (assigning one) and updates otherwise.
	// Returns sentinel.ErrConflict wrapped with the offending column when a
	// unique constraint (tax_id, email) would be violated.
	Save(ctx context.Context, p *models.Person) error
	FindByID(ctx context.Context, id int64) (*models.Person, error)
	FindByTaxID(ctx context.Context, taxID string) (*models.Person, error)
	FindByEmail(ctx context.Context, email string) (*models.Person, error)
	FindByCompanyID(ctx context.Context, companyID int64) ([]*models.Person, error)
	DeleteByID(ctx context.Context, id int64) error
}

type CompanyStore interface {
	Save(ctx context.Context, c *models.Company) error
	FindByID(ctx context.Context, id int64) (*models.Company, error)
	FindByTaxID(ctx context.Context, taxID string) (*models.Company, error)
}
