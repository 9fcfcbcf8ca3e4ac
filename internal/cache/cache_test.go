package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type totals struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

func TestMemoryRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	var out totals
	gen, ok, err := c.Get(ctx, "total:2024-03", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, gen, "total:2024-03", totals{Present: 3, Absent: 1}))
	_, ok, err = c.Get(ctx, "total:2024-03", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, totals{Present: 3, Absent: 1}, out)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx, "total:2024-03", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryDropsWriteFromOlderGeneration(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	var out totals
	stale, _, err := c.Get(ctx, "total:2024-03", &out)
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, stale, "total:2024-03", totals{Present: 9}))

	gen, ok, err := c.Get(ctx, "total:2024-03", &out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, stale+1, gen)
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, 0, "week", []int{1, 2}))
	now = now.Add(2 * time.Minute)

	var out []int
	_, ok, err := c.Get(ctx, "week", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNopNeverHits(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	require.NoError(t, c.Set(ctx, 0, "k", 1))
	var out int
	_, ok, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}
