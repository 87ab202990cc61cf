package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"timeclock/internal/attendance/models"
	"timeclock/pkg/platform/sentinel"
)

// InMemoryEntryStore keeps entries in a map guarded by a RWMutex. Query
// methods copy results so callers never alias store-owned memory.
type InMemoryEntryStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[int64]models.Entry
}

func NewInMemoryEntryStore() *InMemoryEntryStore {
	return &InMemoryEntryStore{entries: make(map[int64]models.Entry)}
}

func (s *InMemoryEntryStore) Save(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if e.ID == 0 {
		s.nextID++
		e.ID = s.nextID
		e.CreatedAt = now
	} else if _, ok := s.entries[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	e.UpdatedAt = now
	s.entries[e.ID] = *e
	return nil
}

func (s *InMemoryEntryStore) FindByID(_ context.Context, id int64) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[id]; ok {
		return &e, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryEntryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *InMemoryEntryStore) PageByPerson(_ context.Context, personID int64, page, size int, field SortField, dir SortDir) (*Page, error) {
	matches := s.byPerson(personID)
	sortEntries(matches, field, dir)

	total := int64(len(matches))
	start := page * size
	if start > len(matches) {
		start = len(matches)
	}
	end := start + size
	if end > len(matches) {
		end = len(matches)
	}

	return &Page{
		Entries: matches[start:end],
		Page:    page,
		Size:    size,
		Total:   total,
	}, nil
}

func (s *InMemoryEntryStore) AllByPerson(_ context.Context, personID int64) ([]models.Entry, error) {
	matches := s.byPerson(personID)
	sortEntries(matches, SortByTimestamp, SortDesc)
	return matches, nil
}

func (s *InMemoryEntryStore) TopOneByPersonCreationDesc(_ context.Context, personID int64) (*models.Entry, error) {
	matches := s.byPerson(personID)
	if len(matches) == 0 {
		return nil, sentinel.ErrNotFound
	}
	sortEntries(matches, SortByCreatedAt, SortDesc)
	top := matches[0]
	return &top, nil
}

func (s *InMemoryEntryStore) byPerson(personID int64) []models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Entry
	for _, e := range s.entries {
		if e.PersonID == personID {
			out = append(out, e)
		}
	}
	return out
}

func sortEntries(entries []models.Entry, field SortField, dir SortDir) {
	less := func(a, b models.Entry) bool {
		switch field {
		case SortByCreatedAt:
			// Creation order ties (same instant) fall back to id order.
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		case SortByType:
			return a.Type < b.Type
		default:
			return a.Timestamp.Before(b.Timestamp)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if dir == SortDesc {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}
