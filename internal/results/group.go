// Package results folds per-subject result rows into one summary per submission.
package results

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Row is one stored per-subject result.
type Row struct {
	ID           int64
	StudentID    string
	StudentName  string
	Title        string
	SubjectName  string
	ExamID       *int64
	AssignmentID *int64
	ClassID      *int64
	TeacherID    string
	Score        int
	Total        *int
	Grade        string
}

// Child is a Row as shown inside its summary.
type Child struct {
	ID           int64  `json:"id"`
	Subject      string `json:"subject"`
	ExamID       *int64 `json:"examId"`
	AssignmentID *int64 `json:"assignmentId"`
	ClassID      *int64 `json:"classId"`
	TeacherID    string `json:"teacherId,omitempty"`
	Score        int    `json:"score"`
	Total        int    `json:"total"`
	Percent      *int   `json:"percent"`
	Grade        string `json:"grade"`
}

// Summary aggregates all rows of one submission.
type Summary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	StudentID     string   `json:"studentId"`
	StudentName   string   `json:"studentName,omitempty"`
	ClassID       *int64   `json:"classId"`
	TeacherID     string   `json:"teacherId,omitempty"`
	Subjects      []string `json:"subjects"`
	Children      []Child  `json:"children"`
	TotalScore    int      `json:"totalScore"`
	TotalPossible int      `json:"totalPossible"`
	Percent       *int     `json:"percent"`
	Grade         string   `json:"grade"`

	explicitGrade string
	latestID      int64
}

// Grade maps a percentage to a letter. Each band includes its lower bound.
func Grade(percent int) string {
	switch {
	case percent >= 80:
		return "A+"
	case percent >= 70:
		return "A"
	case percent >= 60:
		return "B"
	case percent >= 50:
		return "C"
	case percent >= 40:
		return "D"
	default:
		return "F"
	}
}

// Percent returns round(100*score/total), rounding halves up. ok is false when total <= 0.
func Percent(score, total int) (p int, ok bool) {
	if total <= 0 {
		return 0, false
	}
	return int(math.Floor(100*float64(score)/float64(total) + 0.5)), true
}

// DisplayTitle is the stored title, else the subject name, else "Result".
func (r Row) DisplayTitle() string {
	switch {
	case r.Title != "":
		return r.Title
	case r.SubjectName != "":
		return r.SubjectName
	default:
		return "Result"
	}
}

func optID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

// ListingKey groups the results listing: one summary per student and submission.
func ListingKey(r Row) string {
	return strings.Join([]string{r.StudentID, r.DisplayTitle(), optID(r.ExamID), optID(r.ClassID)}, "::")
}

// RecentKey groups a single student's recent results.
func RecentKey(r Row) string {
	return strings.Join([]string{r.DisplayTitle(), optID(r.ExamID), optID(r.AssignmentID), optID(r.ClassID)}, "::")
}

// Group folds rows by key, keeping first-seen group order.
func Group(rows []Row, key func(Row) string) []Summary {
	index := make(map[string]int)
	var out []Summary

	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Summary{
				ID:          k,
				Title:       r.DisplayTitle(),
				StudentID:   r.StudentID,
				StudentName: r.StudentName,
				ClassID:     r.ClassID,
				TeacherID:   r.TeacherID,
				Subjects:    []string{},
			})
		}
		g := &out[i]

		total := 0
		if r.Total != nil {
			total = *r.Total
		}
		child := Child{
			ID:           r.ID,
			Subject:      r.SubjectName,
			ExamID:       r.ExamID,
			AssignmentID: r.AssignmentID,
			ClassID:      r.ClassID,
			TeacherID:    r.TeacherID,
			Score:        r.Score,
			Total:        total,
			Grade:        r.Grade,
		}
		if p, ok := Percent(r.Score, total); ok {
			child.Percent = &p
			if child.Grade == "" {
				child.Grade = Grade(p)
			}
		}
		g.Children = append(g.Children, child)

		g.TotalScore += r.Score
		g.TotalPossible += total
		if r.SubjectName != "" && !slices.Contains(g.Subjects, r.SubjectName) {
			g.Subjects = append(g.Subjects, r.SubjectName)
		}
		if g.explicitGrade == "" && r.Grade != "" {
			g.explicitGrade = r.Grade
		}
		if g.TeacherID == "" {
			g.TeacherID = r.TeacherID
		}
		if r.ID > g.latestID {
			g.latestID = r.ID
		}
	}

	for i := range out {
		g := &out[i]
		if p, ok := Percent(g.TotalScore, g.TotalPossible); ok {
			g.Percent = &p
		}
		switch {
		case g.explicitGrade != "":
			g.Grade = g.explicitGrade
		case g.Percent != nil:
			g.Grade = Grade(*g.Percent)
		}
	}
	return out
}

// GroupListing builds the summaries of the results listing.
func GroupListing(rows []Row) []Summary {
	return Group(rows, ListingKey)
}

// GroupRecent builds a student's most recent submissions, newest first.
// limit <= 0 keeps all of them.
func GroupRecent(rows []Row, limit int) []Summary {
	groups := Group(rows, RecentKey)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].latestID > groups[j].latestID })
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}
