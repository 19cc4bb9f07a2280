package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryRevoker_ExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	clk := &steppingClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	m := &MemoryRevoker{until: make(map[string]time.Time), clock: clk}

	require.NoError(t, m.Revoke(ctx, "j1", clk.t.Add(30*time.Minute)))
	require.True(t, m.IsRevoked(ctx, "j1"))

	// Once the token itself would have expired, the entry stops mattering.
	clk.t = clk.t.Add(31 * time.Minute)
	require.False(t, m.IsRevoked(ctx, "j1"))
}

func TestMemoryRevoker_SweepsStaleEntries(t *testing.T) {
	ctx := context.Background()
	clk := &steppingClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	m := &MemoryRevoker{until: make(map[string]time.Time), clock: clk}

	require.NoError(t, m.Revoke(ctx, "old", clk.t.Add(time.Minute)))
	clk.t = clk.t.Add(2 * time.Minute)
	require.NoError(t, m.Revoke(ctx, "new", clk.t.Add(time.Hour)))

	require.Len(t, m.until, 1)
	require.True(t, m.IsRevoked(ctx, "new"))
}

type steppingClock struct{ t time.Time }

func (c *steppingClock) Now() time.Time { return c.t }
