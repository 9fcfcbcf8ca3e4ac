package fees

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"schoolboard/internal/daybucket"
)

// Repository persists fee records in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts or updates the record for (student, day) in one statement.
func (r *Repository) Upsert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Date = daybucket.Of(rec.Date).Start
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO fees (id, student_id, date, paid)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, date) DO UPDATE SET
			paid = EXCLUDED.paid,
			updated_at = NOW()
		RETURNING id
	`, rec.ID, rec.StudentID, rec.Date, rec.Paid).Scan(&rec.ID)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ListRange returns a student's records in r, oldest first.
func (r *Repository) ListRange(ctx context.Context, studentID string, rng daybucket.Range) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, date, paid
		FROM fees
		WHERE student_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC
	`, studentID, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.Date, &rec.Paid); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
