package results

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// Repository reads results from Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const studentName = `TRIM(COALESCE(s.name, '') || ' ' || COALESCE(s.surname, ''))`

const selectRows = `
	SELECT r.id, r.student_id, ` + studentName + `,
		COALESCE(r.title, ''), COALESCE(r.subject_name, ''),
		r.exam_id, r.assignment_id, r.class_id, COALESCE(r.teacher_id, ''),
		r.score, r.total, COALESCE(r.grade, '')
	FROM results r
	LEFT JOIN students s ON s.id = r.student_id`

func where(f Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	next := func() string { return "$" + strconv.Itoa(len(args)) }

	if f.StudentID != "" {
		args = append(args, f.StudentID)
		clauses = append(clauses, "r.student_id = "+next())
	}
	if f.TeacherID != "" {
		args = append(args, f.TeacherID)
		clauses = append(clauses, "r.teacher_id = "+next())
	}
	if f.ParentID != "" {
		args = append(args, f.ParentID)
		clauses = append(clauses, "s.parent_id = "+next())
	}
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		p := next()
		clauses = append(clauses, "(r.title ILIKE "+p+` ESCAPE '\' OR `+studentName+" ILIKE "+p+` ESCAPE '\')`)
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// containsPattern matches q literally anywhere in the column.
func containsPattern(q string) string {
	q = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(q)
	return "%" + q + "%"
}

func listQuery(f Filter, limit, offset int) (string, []any) {
	cond, args := where(f)
	query := selectRows + cond + " ORDER BY r.id DESC"
	if limit > 0 {
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
		query += " LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))
	}
	return query, args
}

// List returns matching rows newest first. limit <= 0 returns all of them.
func (r *Repository) List(ctx context.Context, f Filter, limit, offset int) ([]Row, error) {
	query, args := listQuery(f, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.StudentID, &row.StudentName, &row.Title, &row.SubjectName,
			&row.ExamID, &row.AssignmentID, &row.ClassID, &row.TeacherID,
			&row.Score, &row.Total, &row.Grade); err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

func (r *Repository) Count(ctx context.Context, f Filter) (int, error) {
	cond, args := where(f)
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results r LEFT JOIN students s ON s.id = r.student_id`+cond, args...).Scan(&n)
	return n, err
}

// Delete removes the given rows and returns how many existed. The pgx driver
// encodes ids as an int8 array.
func (r *Repository) Delete(ctx context.Context, ids []int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
