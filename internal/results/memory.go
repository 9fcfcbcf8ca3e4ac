package results

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps rows in a slice. Parent links are registered with SetParent.
type MemoryStore struct {
	mu      sync.Mutex
	rows    []Row
	nextID  int64
	parents map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{parents: make(map[string]string)}
}

// Add stores a row, assigning the next id when ID is zero.
func (m *MemoryStore) Add(r Row) Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		m.nextID++
		r.ID = m.nextID
	} else if r.ID > m.nextID {
		m.nextID = r.ID
	}
	m.rows = append(m.rows, r)
	return r
}

// SetParent links a student to a parent for Filter.ParentID.
func (m *MemoryStore) SetParent(studentID, parentID string) {
	m.mu.Lock()
	m.parents[studentID] = parentID
	m.mu.Unlock()
}

func (m *MemoryStore) match(f Filter, r Row) bool {
	if f.StudentID != "" && r.StudentID != f.StudentID {
		return false
	}
	if f.TeacherID != "" && r.TeacherID != f.TeacherID {
		return false
	}
	if f.ParentID != "" && m.parents[r.StudentID] != f.ParentID {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Title), q) && !strings.Contains(strings.ToLower(r.StudentName), q) {
			return false
		}
	}
	return true
}

func (m *MemoryStore) filtered(f Filter) []Row {
	var out []Row
	for _, r := range m.rows {
		if m.match(f, r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *MemoryStore) List(_ context.Context, f Filter, limit, offset int) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filtered(f)
	if limit <= 0 {
		return out, nil
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (m *MemoryStore) Count(_ context.Context, f Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filtered(f)), nil
}

func (m *MemoryStore) Delete(_ context.Context, ids []int64) (int64, error) {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if drop[r.ID] {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}
