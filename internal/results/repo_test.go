package results

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%%`, containsPattern("50%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\dir%`, containsPattern(`c:\dir`))
	assert.Equal(t, "%Midterm%", containsPattern("Midterm"))
}

func TestListQueryPlaceholders(t *testing.T) {
	query, args := listQuery(Filter{StudentID: "s1", TeacherID: "t1", ParentID: "p1", Search: "50%"}, 10, 20)

	assert.Contains(t, query, "r.student_id = $1")
	assert.Contains(t, query, "r.teacher_id = $2")
	assert.Contains(t, query, "s.parent_id = $3")
	assert.Contains(t, query, `r.title ILIKE $4 ESCAPE '\'`)
	assert.Contains(t, query, studentName+` ILIKE $4 ESCAPE '\'`)
	assert.True(t, strings.HasSuffix(query, "ORDER BY r.id DESC LIMIT $5 OFFSET $6"), query)
	assert.Equal(t, []any{"s1", "t1", "p1", `%50\%%`, 10, 20}, args)

	query, args = listQuery(Filter{}, 0, 0)
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

func TestMemorySearchIsLiteral(t *testing.T) {
	store := NewMemoryStore()
	store.Add(Row{StudentID: "s1", Title: "Top 50% bonus"})
	store.Add(Row{StudentID: "s1", Title: "Top 500 list"})

	n, err := store.Count(context.Background(), Filter{Search: "50%"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
