package fees

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"schoolboard/internal/daybucket"
)

type feeKey struct {
	student string
	day     string
}

// MemoryStore is a mutex-guarded Store for dev runs and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[feeKey]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[feeKey]Record)}
}

func (m *MemoryStore) Upsert(_ context.Context, rec Record) (Record, error) {
	day := daybucket.Of(rec.Date)
	rec.Date = day.Start
	key := feeKey{student: rec.StudentID, day: day.Day()}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.records[key]; ok {
		rec.ID = existing.ID
	} else if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m.records[key] = rec
	return rec, nil
}

func (m *MemoryStore) ListRange(_ context.Context, studentID string, r daybucket.Range) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.records {
		if rec.StudentID == studentID && r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
