package attendance

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"schoolboard/internal/daybucket"
)

// MemoryStore is a mutex-guarded Store for dev runs and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[recordKey]Record
	lessons map[int64]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[recordKey]Record),
		lessons: make(map[int64]string),
	}
}

type recordKey struct {
	student string
	lesson  int64
	day     string
}

func memoryKey(studentID string, lessonID int64, day daybucket.Bucket) recordKey {
	return recordKey{student: studentID, lesson: lessonID, day: day.Day()}
}

// SetLessonName registers the display name used by ListForStudent.
func (m *MemoryStore) SetLessonName(id int64, name string) {
	m.mu.Lock()
	m.lessons[id] = name
	m.mu.Unlock()
}

func (m *MemoryStore) Upsert(_ context.Context, rec Record) (Record, error) {
	day := daybucket.Of(rec.Date)
	rec.Date = day.Start
	key := memoryKey(rec.StudentID, rec.LessonID, day)

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

func (m *MemoryStore) Find(_ context.Context, studentID string, lessonID int64, day daybucket.Bucket) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[memoryKey(studentID, lessonID, day)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) Delete(_ context.Context, studentID string, lessonID int64, day daybucket.Bucket) (bool, error) {
	key := memoryKey(studentID, lessonID, day)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[key]; !ok {
		return false, nil
	}
	delete(m.records, key)
	return true, nil
}

func (m *MemoryStore) ListForStudent(_ context.Context, studentID string, r daybucket.Range) ([]StudentDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var recs []Record
	for _, rec := range m.records {
		if rec.StudentID == studentID && r.Contains(rec.Date) {
			recs = append(recs, rec)
		}
	}
	sortRecords(recs)

	out := make([]StudentDay, 0, len(recs))
	for _, rec := range recs {
		day := StudentDay{Date: rec.Date.Format(daybucket.Layout), Present: rec.Present}
		if name, ok := m.lessons[rec.LessonID]; ok {
			day.LessonName = &name
		}
		out = append(out, day)
	}
	return out, nil
}

func (m *MemoryStore) CountByPresence(_ context.Context, r daybucket.Range) (Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var t Totals
	for _, rec := range m.records {
		if !r.Contains(rec.Date) {
			continue
		}
		if rec.Present {
			t.Present++
		} else {
			t.Absent++
		}
	}
	return t, nil
}

func (m *MemoryStore) ListRange(_ context.Context, r daybucket.Range) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.records {
		if r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func sortRecords(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Date.Equal(recs[j].Date) {
			return recs[i].Date.Before(recs[j].Date)
		}
		return recs[i].LessonID < recs[j].LessonID
	})
}
