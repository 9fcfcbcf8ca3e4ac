package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"schoolboard/internal/daybucket"
)

// Repository persists attendance data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes the mark for the record's day in one statement, so concurrent
// marks for the same triple cannot both insert.
func (r *Repository) Upsert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Date = daybucket.Of(rec.Date).Start
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, student_id, lesson_id, date, present)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, lesson_id, date) DO UPDATE SET
			present = EXCLUDED.present,
			updated_at = NOW()
		RETURNING id
	`, rec.ID, rec.StudentID, rec.LessonID, rec.Date, rec.Present)
	if err := row.Scan(&rec.ID); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Find returns the record of the given day, or nil.
func (r *Repository) Find(ctx context.Context, studentID string, lessonID int64, day daybucket.Bucket) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, lesson_id, date, present
		FROM attendance
		WHERE student_id = $1 AND lesson_id = $2 AND date >= $3 AND date < $4
		LIMIT 1
	`, studentID, lessonID, day.Start, day.End)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.StudentID, &rec.LessonID, &rec.Date, &rec.Present); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec.Date = rec.Date.UTC()
	return &rec, nil
}

// Delete removes the record of the given day and reports whether one existed.
func (r *Repository) Delete(ctx context.Context, studentID string, lessonID int64, day daybucket.Bucket) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM attendance
		WHERE student_id = $1 AND lesson_id = $2 AND date >= $3 AND date < $4
	`, studentID, lessonID, day.Start, day.End)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListForStudent returns a student's marks in r, oldest first, with lesson names.
func (r *Repository) ListForStudent(ctx context.Context, studentID string, rng daybucket.Range) ([]StudentDay, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.date, a.present, l.name
		FROM attendance a
		LEFT JOIN lessons l ON l.id = a.lesson_id
		WHERE a.student_id = $1 AND a.date >= $2 AND a.date < $3
		ORDER BY a.date ASC
	`, studentID, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StudentDay{}
	for rows.Next() {
		var (
			date time.Time
			day  StudentDay
		)
		if err := rows.Scan(&date, &day.Present, &day.LessonName); err != nil {
			return nil, err
		}
		day.Date = date.UTC().Format(daybucket.Layout)
		out = append(out, day)
	}
	return out, rows.Err()
}

// CountByPresence counts present and absent marks in r.
func (r *Repository) CountByPresence(ctx context.Context, rng daybucket.Range) (Totals, error) {
	var t Totals
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE present),
			COUNT(*) FILTER (WHERE NOT present)
		FROM attendance
		WHERE date >= $1 AND date < $2
	`, rng.Start, rng.End).Scan(&t.Present, &t.Absent)
	return t, err
}

// ListRange returns every record in r.
func (r *Repository) ListRange(ctx context.Context, rng daybucket.Range) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, lesson_id, date, present
		FROM attendance
		WHERE date >= $1 AND date < $2
	`, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.LessonID, &rec.Date, &rec.Present); err != nil {
			return nil, err
		}
		rec.Date = rec.Date.UTC()
		res = append(res, rec)
	}
	return res, rows.Err()
}
