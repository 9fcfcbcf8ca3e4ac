package fees

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "schoolboard/pkg/errors"
)

func paid(b bool) *bool { return &b }

func TestMarkUpsertsPerDay(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)

	first, err := svc.Mark(ctx, MarkInput{StudentID: "s1", Date: "2024-01-01", Paid: paid(false)})
	require.NoError(t, err)
	second, err := svc.Mark(ctx, MarkInput{StudentID: "s1", Date: "2024-01-01", Paid: paid(true)})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Len())

	entries, err := svc.StudentRange(ctx, "s1", "2024-01-01", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Date: "2024-01-01", Paid: true}}, entries)
}

func TestMarkValidation(t *testing.T) {
	svc := NewService(NewMemoryStore())
	for _, in := range []MarkInput{
		{Date: "2024-01-01", Paid: paid(true)},
		{StudentID: "s1", Paid: paid(true)},
		{StudentID: "s1", Date: "2024-01-01"},
	} {
		_, err := svc.Mark(context.Background(), in)
		assert.True(t, apperrors.IsValidation(err), "%+v", in)
	}

	_, err := svc.Mark(context.Background(), MarkInput{StudentID: "s1", Date: "01/01/2024", Paid: paid(true)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
}

func TestStudentRangeEndIsExclusive(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	for _, d := range []string{"2024-01-01", "2024-02-01", "2023-12-01"} {
		_, err := svc.Mark(ctx, MarkInput{StudentID: "s1", Date: d, Paid: paid(true)})
		require.NoError(t, err)
	}
	_, err := svc.Mark(ctx, MarkInput{StudentID: "s2", Date: "2024-01-01", Paid: paid(false)})
	require.NoError(t, err)

	entries, err := svc.StudentRange(ctx, "s1", "2024-01-01", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Date: "2024-01-01", Paid: true}}, entries)

	_, err = svc.StudentRange(ctx, "s1", "", "2024-02-01")
	assert.True(t, apperrors.IsValidation(err))
}

func TestMemoryStoreKeysDoNotCollide(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)

	_, err := svc.Mark(ctx, MarkInput{StudentID: "s1|2024-01-01", Date: "2024-01-01", Paid: paid(true)})
	require.NoError(t, err)
	_, err = svc.Mark(ctx, MarkInput{StudentID: "s1", Date: "2024-01-01", Paid: paid(false)})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}
