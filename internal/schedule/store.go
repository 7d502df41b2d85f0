package schedule

import (
	"sync"
	"time"
)

// Store is the append-only collection committed schedules go to.
type Store interface {
	Append(r Record) (Record, error)
	All() ([]Record, error)
}

// Catalog supplies the selectable schools and expense categories.
type Catalog interface {
	ListSchools() ([]Option, error)
	ListExpenseCategories() ([]Option, error)
}

// MemoryStore keeps schedules in process. IDs start at 1.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
	nextID  int64
}

func NewMemoryStore(seed ...Record) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for _, r := range seed {
		s.Append(r)
	}
	return s
}

func (s *MemoryStore) Append(r Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID
	s.nextID++
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.records = append(s.records, r)
	return r, nil
}

func (s *MemoryStore) All() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}
