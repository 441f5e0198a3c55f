package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestDisabledCache(t *testing.T) {
	c, err := New("", time.Minute)
	require.NoError(t, err)

	var out []int
	assert.False(t, c.Enabled())
	assert.False(t, c.Get(context.Background(), "team", "final", 10, &out))
	assert.NoError(t, c.Set(context.Background(), "team", "final", 10, []int{1}))
	assert.NoError(t, c.Invalidate(context.Background(), "team", "final"))
	assert.NoError(t, c.Close())
}

func TestRankingsRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis integration test. Use -short=false to run it.")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	defer container.Terminate(ctx)

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	c, err := New(url, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	type row struct {
		Rank   int   `json:"rank"`
		TeamID int64 `json:"team_id"`
	}
	want := []row{{1, 3}, {2, 1}}

	var got []row
	assert.False(t, c.Get(ctx, "team", "final", 10, &got))

	require.NoError(t, c.Set(ctx, "team", "final", 10, want))
	require.NoError(t, c.Set(ctx, "team", "final", 1, want[:1]))
	require.NoError(t, c.Set(ctx, "team", "semifinal", 10, want))

	require.True(t, c.Get(ctx, "team", "final", 10, &got))
	assert.Equal(t, want, got)

	require.NoError(t, c.Invalidate(ctx, "team", "final"))
	assert.False(t, c.Get(ctx, "team", "final", 10, &got))
	assert.False(t, c.Get(ctx, "team", "final", 1, &got))
	assert.True(t, c.Get(ctx, "team", "semifinal", 10, &got), "other rounds stay cached")
}
