// Package attendance holds the registrar: creation, update, deletion, and
// querying of attendance entries, with the referential and temporal
// validation the store does not do.
package attendance

import (
	"context"
	"errors"
	"log"
	"time"

	"timeclock/internal/attendance/cache"
	"timeclock/internal/attendance/models"
	"timeclock/internal/attendance/store"
	"timeclock/internal/platform/metrics"
	personstore "timeclock/internal/person/store"

	dErrors "timeclock/pkg/domain-errors"
	"timeclock/pkg/platform/sentinel"
)

// Registrar coordinates the entry store, the person store (for referential
// checks), and the id-keyed entry cache.
type Registrar struct {
	entries store.EntryStore
	persons personstore.PersonStore
	cache   cache.EntryCache
	metrics *metrics.Metrics
	log     *log.Logger
}

func NewRegistrar(entries store.EntryStore, persons personstore.PersonStore, entryCache cache.EntryCache, m *metrics.Metrics, logger *log.Logger) *Registrar {
	return &Registrar{
		entries: entries,
		persons: persons,
		cache:   entryCache,
		metrics: m,
		log:     logger,
	}
}

// RecordEntryRequest is the wire shape of a new punch. RawTimestamp must be
// in the models.TimestampLayout format; PunchType is the enum's canonical
// name string.
type RecordEntryRequest struct {
	PersonID     int64
	RawTimestamp string
	PunchType    string
	Location     string
	Description  string
}

// UpdateEntryRequest carries replacement values for an entry. Timestamp and
// punch type are required and re-validated exactly as on record. Location and
// Description follow clear-then-set semantics: nil clears the field rather
// than keeping its previous value.
type UpdateEntryRequest struct {
	RawTimestamp string
	PunchType    string
	Location     *string
	Description  *string
}

// RecordEntry validates and persists a new punch, then populates the cache
// entry for its id.
func (r *Registrar) RecordEntry(ctx context.Context, req RecordEntryRequest) (*models.Entry, error) {
	if _, err := r.persons.FindByID(ctx, req.PersonID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve person")
	}

	ts, punchType, err := parsePunch(req.RawTimestamp, req.PunchType)
	if err != nil {
		return nil, err
	}

	entry := &models.Entry{
		Timestamp:   ts,
		Type:        punchType,
		Location:    req.Location,
		Description: req.Description,
		PersonID:    req.PersonID,
	}
	if err := r.entries.Save(ctx, entry); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist entry")
	}

	r.cache.Set(ctx, entry)
	r.metrics.IncrementEntriesRecorded()
	r.log.Printf("recorded %s for person %d", entry.Type, entry.PersonID)
	return entry, nil
}

// UpdateEntry replaces the mutable fields of an existing entry and refreshes
// its cache slot. A nil Location or Description clears the stored value; an
// omitted field never survives an update.
func (r *Registrar) UpdateEntry(ctx context.Context, id int64, req UpdateEntryRequest) (*models.Entry, error) {
	entry, err := r.entries.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "entry not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load entry")
	}

	ts, punchType, err := parsePunch(req.RawTimestamp, req.PunchType)
	if err != nil {
		return nil, err
	}

	entry.Timestamp = ts
	entry.Type = punchType
	entry.Location = ""
	if req.Location != nil {
		entry.Location = *req.Location
	}
	entry.Description = ""
	if req.Description != nil {
		entry.Description = *req.Description
	}

	if err := r.entries.Save(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "entry not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist entry")
	}

	r.cache.Set(ctx, entry)
	return entry, nil
}

// ListByPerson returns one page of a person's entries. Zero values fall back
// to the first page, the configured default size upstream, and punch
// timestamp descending.
func (r *Registrar) ListByPerson(ctx context.Context, personID int64, page, size int, sortField, sortDir string) (*store.Page, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "page size must be positive")
	}

	field := store.SortByTimestamp
	if sortField != "" {
		switch store.SortField(sortField) {
		case store.SortByTimestamp, store.SortByCreatedAt, store.SortByType:
			field = store.SortField(sortField)
		default:
			return nil, dErrors.New(dErrors.CodeValidation, "invalid sort field")
		}
	}

	dir := store.SortDesc
	if sortDir != "" {
		switch store.SortDir(sortDir) {
		case store.SortAsc, store.SortDesc:
			dir = store.SortDir(sortDir)
		default:
			return nil, dErrors.New(dErrors.CodeValidation, "invalid sort direction")
		}
	}

	result, err := r.entries.PageByPerson(ctx, personID, page, size, field, dir)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "page entries")
	}
	return result, nil
}

// ListAllByPerson returns the full entry history, punch timestamp descending.
// The result is a snapshot; re-querying reflects the current store state.
func (r *Registrar) ListAllByPerson(ctx context.Context, personID int64) ([]models.Entry, error) {
	entries, err := r.entries.AllByPerson(ctx, personID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list entries")
	}
	return entries, nil
}

// LastByPerson returns the most recently created entry for the person, or
// nil when they have none. Creation order, not punch timestamp, decides.
func (r *Registrar) LastByPerson(ctx context.Context, personID int64) (*models.Entry, error) {
	entry, err := r.entries.TopOneByPersonCreationDesc(ctx, personID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load last entry")
	}
	return entry, nil
}

// Remove deletes the entry. The cache slot for the id is not invalidated; a
// stale read can be served until the cache TTL lapses.
func (r *Registrar) Remove(ctx context.Context, id int64) error {
	if err := r.entries.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "entry not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete entry")
	}
	r.log.Printf("removed entry %d", id)
	return nil
}

// GetByID is a cache-first lookup; a miss reads through to the store and
// populates the cache slot.
func (r *Registrar) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	if entry, ok := r.cache.Get(ctx, id); ok {
		r.metrics.IncrementEntryCacheHit()
		return entry, nil
	}
	r.metrics.IncrementEntryCacheMiss()

	entry, err := r.entries.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "entry not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load entry")
	}

	r.cache.Set(ctx, entry)
	return entry, nil
}

func parsePunch(rawTimestamp, rawType string) (time.Time, models.PunchType, error) {
	ts, err := time.Parse(models.TimestampLayout, rawTimestamp)
	if err != nil {
		return time.Time{}, "", dErrors.New(dErrors.CodeParse, "timestamp must match "+models.TimestampLayout)
	}
	punchType, err := models.ParsePunchType(rawType)
	if err != nil {
		return time.Time{}, "", err
	}
	return ts, punchType, nil
}
