package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }
func idPtr(v int64) *int64 { return &v }

func TestGradeBoundaries(t *testing.T) {
	cases := map[int]string{
		100: "A+", 80: "A+", 79: "A", 70: "A", 69: "B", 60: "B",
		59: "C", 50: "C", 49: "D", 40: "D", 39: "F", 0: "F",
	}
	for p, want := range cases {
		assert.Equal(t, want, Grade(p), "percent %d", p)
	}
}

func TestPercentRoundsHalfUp(t *testing.T) {
	p, ok := Percent(1, 8) // 12.5
	require.True(t, ok)
	assert.Equal(t, 13, p)

	p, ok = Percent(2, 3) // 66.67
	require.True(t, ok)
	assert.Equal(t, 67, p)

	_, ok = Percent(5, 0)
	assert.False(t, ok)
}

func TestGroupFoldsSubjectsOfOneSubmission(t *testing.T) {
	rows := []Row{
		{ID: 2, StudentID: "s1", Title: "Midterm", SubjectName: "Math", ExamID: idPtr(4), ClassID: idPtr(1), Score: 8, Total: intPtr(10)},
		{ID: 1, StudentID: "s1", Title: "Midterm", SubjectName: "Physics", ExamID: idPtr(4), ClassID: idPtr(1), Score: 7, Total: intPtr(10)},
	}
	got := GroupListing(rows)
	require.Len(t, got, 1)

	g := got[0]
	assert.Equal(t, "Midterm", g.Title)
	assert.Equal(t, 15, g.TotalScore)
	assert.Equal(t, 20, g.TotalPossible)
	require.NotNil(t, g.Percent)
	assert.Equal(t, 75, *g.Percent)
	assert.Equal(t, "A", g.Grade)
	assert.Equal(t, []string{"Math", "Physics"}, g.Subjects)
	require.Len(t, g.Children, 2)
	assert.Equal(t, "A+", g.Children[0].Grade)
	assert.Equal(t, "A", g.Children[1].Grade)
}

func TestGroupPrefersExplicitGrade(t *testing.T) {
	rows := []Row{
		{ID: 1, StudentID: "s1", Title: "Quiz", SubjectName: "Math", Score: 2, Total: intPtr(10)},
		{ID: 2, StudentID: "s1", Title: "Quiz", SubjectName: "Art", Score: 3, Total: intPtr(10), Grade: "B"},
	}
	got := GroupListing(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Grade)
	assert.Equal(t, "F", got[0].Children[0].Grade)
	assert.Equal(t, "B", got[0].Children[1].Grade)
}

func TestGroupWithoutTotalHasNoPercent(t *testing.T) {
	rows := []Row{{ID: 1, StudentID: "s1", SubjectName: "Math", Score: 9}}
	got := GroupListing(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Math", got[0].Title)
	assert.Equal(t, 0, got[0].TotalPossible)
	assert.Nil(t, got[0].Percent)
	assert.Equal(t, "", got[0].Grade)
	assert.Nil(t, got[0].Children[0].Percent)
}

func TestListingKeySeparatesStudents(t *testing.T) {
	rows := []Row{
		{ID: 1, StudentID: "s1", Title: "Final", ExamID: idPtr(9), Score: 1, Total: intPtr(2)},
		{ID: 2, StudentID: "s2", Title: "Final", ExamID: idPtr(9), Score: 1, Total: intPtr(2)},
	}
	assert.Len(t, GroupListing(rows), 2)
}

func TestDisplayTitleFallback(t *testing.T) {
	assert.Equal(t, "Result", Row{}.DisplayTitle())
	assert.Equal(t, "Bio", Row{SubjectName: "Bio"}.DisplayTitle())
	assert.Equal(t, "Term 1", Row{Title: "Term 1", SubjectName: "Bio"}.DisplayTitle())
}

func TestGroupRecentOrdersByNewestChild(t *testing.T) {
	var rows []Row
	// Eight submissions; submission n has one child with id n, except
	// submission 1 which also has the newest row overall.
	for n := int64(1); n <= 8; n++ {
		rows = append(rows, Row{ID: n, StudentID: "s1", Title: "T", AssignmentID: idPtr(n), Score: 1, Total: intPtr(1)})
	}
	rows = append(rows, Row{ID: 20, StudentID: "s1", Title: "T", AssignmentID: idPtr(1), Score: 1, Total: intPtr(1)})

	got := GroupRecent(rows, RecentLimit)
	require.Len(t, got, RecentLimit)
	assert.Equal(t, []int64{1, 8, 7, 6, 5, 4}, assignmentIDs(got))
	assert.Len(t, got[0].Children, 2)
}

func assignmentIDs(groups []Summary) []int64 {
	out := make([]int64, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g.Children[0].AssignmentID)
	}
	return out
}
