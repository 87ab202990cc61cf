package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"timeclock/internal/attendance/models"
	"timeclock/pkg/platform/sentinel"
)

// PostgresEntryStore persists attendance entries in PostgreSQL.
type PostgresEntryStore struct {
	db *sql.DB
}

func NewPostgresEntryStore(db *sql.DB) *PostgresEntryStore {
	return &PostgresEntryStore{db: db}
}

const entryColumns = `id, punched_at, punch_type, location, description, person_id, created_at, updated_at`

// sortColumns whitelists ORDER BY targets; sort input never reaches SQL raw.
var sortColumns = map[SortField]string{
	SortByTimestamp: "punched_at",
	SortByCreatedAt: "created_at",
	SortByType:      "punch_type",
}

func (s *PostgresEntryStore) Save(ctx context.Context, e *models.Entry) error {
	if e.ID == 0 {
		query := `
			INSERT INTO entries (punched_at, punch_type, location, description, person_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		err := s.db.QueryRowContext(ctx, query,
			e.Timestamp, e.Type.String(), e.Location, e.Description, e.PersonID,
		).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		return nil
	}

	query := `
		UPDATE entries
		SET punched_at = $2, punch_type = $3, location = $4, description = $5,
			person_id = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		e.ID, e.Timestamp, e.Type.String(), e.Location, e.Description, e.PersonID,
	).Scan(&e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}

func (s *PostgresEntryStore) FindByID(ctx context.Context, id int64) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)
	return scanEntry(row)
}

func (s *PostgresEntryStore) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresEntryStore) PageByPerson(ctx context.Context, personID int64, page, size int, field SortField, dir SortDir) (*Page, error) {
	column, ok := sortColumns[field]
	if !ok {
		column = sortColumns[SortByTimestamp]
	}
	order := "DESC"
	if dir == SortAsc {
		order = "ASC"
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM entries WHERE person_id = $1`, personID).Scan(&total); err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM entries WHERE person_id = $1 ORDER BY %s %s, id %s LIMIT $2 OFFSET $3`,
		entryColumns, column, order, order)
	rows, err := s.db.QueryContext(ctx, query, personID, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("page entries: %w", err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, err
	}

	return &Page{Entries: entries, Page: page, Size: size, Total: total}, nil
}

func (s *PostgresEntryStore) AllByPerson(ctx context.Context, personID int64) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE person_id = $1 ORDER BY punched_at DESC, id DESC`, personID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *PostgresEntryStore) TopOneByPersonCreationDesc(ctx context.Context, personID int64) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE person_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, personID)
	return scanEntry(row)
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e         models.Entry
		punchType string
	)
	err := row.Scan(&e.ID, &e.Timestamp, &punchType, &e.Location, &e.Description,
		&e.PersonID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan entry: %w", err)
	}
	e.Type = models.PunchType(punchType)
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]models.Entry, error) {
	var out []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}
