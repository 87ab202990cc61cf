package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"timeclock/internal/person/models"
	"timeclock/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

// PostgresPersonStore persists persons in PostgreSQL.
type PostgresPersonStore struct {
	db *sql.DB
}

func NewPostgresPersonStore(db *sql.DB) *PostgresPersonStore {
	return &PostgresPersonStore{db: db}
}

func (s *PostgresPersonStore) Save(ctx context.Context, p *models.Person) error {
	if p.ID == 0 {
		query := `
			INSERT INTO persons (tax_id, email, name, role, company_id, password_hash, lunch_hours, daily_work_hours, hourly_rate)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at
		`
		err := s.db.QueryRowContext(ctx, query,
			p.TaxID, p.Email, p.Name, p.Role.String(), p.CompanyID, p.PasswordHash,
			nullFloat(p.LunchHours), nullFloat(p.DailyWorkHours), nullFloat(p.HourlyRate),
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return translateUnique(err, "insert person")
		}
		return nil
	}

	query := `
		UPDATE persons
		SET tax_id = $2, email = $3, name = $4, role = $5, company_id = $6,
			password_hash = $7, lunch_hours = $8, daily_work_hours = $9,
			hourly_rate = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		p.ID, p.TaxID, p.Email, p.Name, p.Role.String(), p.CompanyID, p.PasswordHash,
		nullFloat(p.LunchHours), nullFloat(p.DailyWorkHours), nullFloat(p.HourlyRate),
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return translateUnique(err, "update person")
	}
	return nil
}

const personColumns = `id, tax_id, email, name, role, company_id, password_hash, lunch_hours, daily_work_hours, hourly_rate, created_at, updated_at`

func (s *PostgresPersonStore) FindByID(ctx context.Context, id int64) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM persons WHERE id = $1`, id)
	return scanPerson(row)
}

func (s *PostgresPersonStore) FindByTaxID(ctx context.Context, taxID string) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM persons WHERE tax_id = $1`, taxID)
	return scanPerson(row)
}

func (s *PostgresPersonStore) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM persons WHERE email = $1`, email)
	return scanPerson(row)
}

func (s *PostgresPersonStore) FindByCompanyID(ctx context.Context, companyID int64) ([]*models.Person, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+personColumns+` FROM persons WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query persons by company: %w", err)
	}
	defer rows.Close()

	var out []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresPersonStore) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// PostgresCompanyStore persists companies in PostgreSQL.
type PostgresCompanyStore struct {
	db *sql.DB
}

func NewPostgresCompanyStore(db *sql.DB) *PostgresCompanyStore {
	return &PostgresCompanyStore{db: db}
}

func (s *PostgresCompanyStore) Save(ctx context.Context, c *models.Company) error {
	if c.ID == 0 {
		query := `
			INSERT INTO companies (tax_id, legal_name)
			VALUES ($1, $2)
			RETURNING id, created_at
		`
		err := s.db.QueryRowContext(ctx, query, c.TaxID, c.LegalName).Scan(&c.ID, &c.CreatedAt)
		if err != nil {
			return translateUnique(err, "insert company")
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE companies SET tax_id = $2, legal_name = $3 WHERE id = $1`, c.ID, c.TaxID, c.LegalName)
	if err != nil {
		return translateUnique(err, "update company")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresCompanyStore) FindByID(ctx context.Context, id int64) (*models.Company, error) {
	var c models.Company
	err := s.db.QueryRowContext(ctx, `SELECT id, tax_id, legal_name, created_at FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.TaxID, &c.LegalName, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company by id: %w", err)
	}
	return &c, nil
}

func (s *PostgresCompanyStore) FindByTaxID(ctx context.Context, taxID string) (*models.Company, error) {
	var c models.Company
	err := s.db.QueryRowContext(ctx, `SELECT id, tax_id, legal_name, created_at FROM companies WHERE tax_id = $1`, taxID).
		Scan(&c.ID, &c.TaxID, &c.LegalName, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company by tax id: %w", err)
	}
	return &c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	var (
		p                  models.Person
		role               string
		lunch, daily, rate sql.NullFloat64
	)
	err := row.Scan(&p.ID, &p.TaxID, &p.Email, &p.Name, &role, &p.CompanyID, &p.PasswordHash,
		&lunch, &daily, &rate, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan person: %w", err)
	}
	p.Role = models.Role(role)
	p.LunchHours = floatPtr(lunch)
	p.DailyWorkHours = floatPtr(daily)
	p.HourlyRate = floatPtr(rate)
	return &p, nil
}

// translateUnique maps PostgreSQL unique violations onto the shared conflict
// sentinel, keeping the offending constraint in the message.
func translateUnique(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		field := strings.TrimSuffix(pqErr.Constraint, "_key")
		return fmt.Errorf("%s: %w", field, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
