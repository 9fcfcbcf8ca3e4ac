package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schema covers the tables this service reads and writes. The unique indexes on
// attendance and fees back the ON CONFLICT upserts in the repositories.
const schema = `
CREATE TABLE IF NOT EXISTS students (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	surname    TEXT NOT NULL DEFAULT '',
	parent_id  TEXT
);

CREATE TABLE IF NOT EXISTS lessons (
	id    BIGSERIAL PRIMARY KEY,
	name  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grades (
	id     SERIAL PRIMARY KEY,
	level  INTEGER NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS attendance (
	id          TEXT PRIMARY KEY,
	student_id  TEXT NOT NULL,
	lesson_id   BIGINT NOT NULL,
	date        TIMESTAMPTZ NOT NULL,
	present     BOOLEAN NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_attendance_student_lesson_day ON attendance (student_id, lesson_id, date);
CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance (date);

CREATE TABLE IF NOT EXISTS fees (
	id          TEXT PRIMARY KEY,
	student_id  TEXT NOT NULL,
	date        TIMESTAMPTZ NOT NULL,
	paid        BOOLEAN NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_fees_student_day ON fees (student_id, date);

CREATE TABLE IF NOT EXISTS results (
	id             BIGSERIAL PRIMARY KEY,
	student_id     TEXT NOT NULL,
	title          TEXT,
	subject_name   TEXT,
	exam_id        BIGINT,
	assignment_id  BIGINT,
	class_id       BIGINT,
	teacher_id     TEXT,
	score          INTEGER NOT NULL DEFAULT 0,
	total          INTEGER,
	grade          TEXT
);
CREATE INDEX IF NOT EXISTS idx_results_student ON results (student_id);
`

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SeedGrades ensures grade levels 1..levels exist and reports how many were added.
func SeedGrades(ctx context.Context, db *sql.DB, levels int) (int, error) {
	added := 0
	for level := 1; level <= levels; level++ {
		res, err := db.ExecContext(ctx, `INSERT INTO grades (level) VALUES ($1) ON CONFLICT (level) DO NOTHING`, level)
		if err != nil {
			return added, fmt.Errorf("seed grade %d: %w", level, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}
