// Package store persists attendance entries and answers the paginated,
// sorted, and top-1 queries the registrar needs.
package store

import (
	"context"

	"timeclock/internal/attendance/models"
)

// SortField selects the column entries are ordered by.
type SortField string

const (
	SortByTimestamp SortField = "timestamp"
	SortByCreatedAt SortField = "created_at"
	SortByType      SortField = "punch_type"
)

// SortDir is the order direction for paged queries.
type SortDir string

const (
	SortAsc  SortDir = "ASC"
	SortDesc SortDir = "DESC"
)

// Page is one window of a person's entries plus the total match count.
type Page struct {
	Entries []models.Entry
	Page    int
	Size    int
	Total   int64
}

type EntryStore interface {
	// Save inserts when ID is zero (assigning one and stamping CreatedAt)
	// and updates otherwise, returning sentinel.ErrNotFound for unknown ids.
	Save(ctx context.Context, e *models.Entry) error
	FindByID(ctx context.Context, id int64) (*models.Entry, error)
	DeleteByID(ctx context.Context, id int64) error
	// PageByPerson returns one page of a person's entries. page is zero-based.
	PageByPerson(ctx context.Context, personID int64, page, size int, field SortField, dir SortDir) (*Page, error)
	// AllByPerson returns every entry for a person, punch timestamp descending.
	AllByPerson(ctx context.Context, personID int64) ([]models.Entry, error)
	// TopOneByPersonCreationDesc returns the most recently created entry,
	// ordered by creation time, not punch timestamp.
	TopOneByPersonCreationDesc(ctx context.Context, personID int64) (*models.Entry, error)
}
