package attendance

import (
	"context"
	"time"

	"schoolboard/internal/daybucket"
)

// Record is one stored attendance mark. Date is always a UTC midnight.
type Record struct {
	ID        string
	StudentID string
	LessonID  int64
	Date      time.Time
	Present   bool
}

// StudentDay is one row of a student's monthly attendance.
type StudentDay struct {
	Date       string  `json:"date"`
	Present    bool    `json:"present"`
	LessonName *string `json:"lessonName"`
}

// Totals counts present and absent marks.
type Totals struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// Store persists attendance records. At most one record exists per
// (student, lesson, UTC day); Upsert enforces that atomically.
type Store interface {
	Upsert(ctx context.Context, rec Record) (Record, error)
	Find(ctx context.Context, studentID string, lessonID int64, day daybucket.Bucket) (*Record, error)
	Delete(ctx context.Context, studentID string, lessonID int64, day daybucket.Bucket) (bool, error)
	ListForStudent(ctx context.Context, studentID string, r daybucket.Range) ([]StudentDay, error)
	CountByPresence(ctx context.Context, r daybucket.Range) (Totals, error)
	ListRange(ctx context.Context, r daybucket.Range) ([]Record, error)
}
