package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loan-schedule/loan"
)

func exampleSchedule(t *testing.T) (loan.Params, loan.Schedule) {
	p := loan.NewParams(1000, 0.03, 4)
	s, err := loan.Compute(loan.MethodEqualPayment, p)
	require.NoError(t, err)
	return p, s
}

func TestKey_SameInputsSameKey(t *testing.T) {
	a := Key(loan.MethodEqualPayment, loan.NewParams(1000, 0.03, 4))
	b := Key(loan.MethodEqualPayment, loan.NewParams(1000, 0.03, 4))
	assert.Equal(t, a, b)
	assert.Contains(t, a, "schedule:")
}

func TestKey_DifferentInputsDifferentKeys(t *testing.T) {
	base := loan.NewParams(1000, 0.03, 4)

	otherPrecision := base
	otherPrecision.Precision = 4

	highPrecision := base
	highPrecision.HighPrecision = true

	keys := []string{
		Key(loan.MethodEqualPayment, base),
		Key(loan.MethodConstantAmortization, base),
		Key(loan.MethodEqualPayment, loan.NewParams(1001, 0.03, 4)),
		Key(loan.MethodEqualPayment, loan.NewParams(1000, 0.031, 4)),
		Key(loan.MethodEqualPayment, loan.NewParams(1000, 0.03, 5)),
		Key(loan.MethodEqualPayment, otherPrecision),
		Key(loan.MethodEqualPayment, highPrecision),
	}

	seen := make(map[string]bool)
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}

func TestKey_IgnoresUnusedSettings(t *testing.T) {
	// Scale does not affect native results, precision does not affect
	// high precision results.
	native := loan.NewParams(1000, 0.03, 4)
	nativeOtherScale := native
	nativeOtherScale.Scale = 20
	assert.Equal(t, Key(loan.MethodEqualPayment, native), Key(loan.MethodEqualPayment, nativeOtherScale))

	high := native
	high.HighPrecision = true
	highOtherPrecision := high
	highOtherPrecision.Precision = 6
	assert.Equal(t, Key(loan.MethodEqualPayment, high), Key(loan.MethodEqualPayment, highOtherPrecision))
}

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0)
	p, s := exampleSchedule(t)
	key := Key(s.Method, p)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, s))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, s.Len(), got.Len())
	assert.True(t, got.Records[0].Amount.Equal(s.Records[0].Amount))
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewMemory(time.Minute)
	c.now = func() time.Time { return now }

	_, s := exampleSchedule(t)
	require.NoError(t, c.Set(ctx, "k", s))

	now = now.Add(30 * time.Second)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok, "entry should still be fresh")

	now = now.Add(time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry should have expired")
	assert.Equal(t, 0, c.Len())
}

func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	c := NewRedis(addr, time.Minute)
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	p, s := exampleSchedule(t)
	key := Key(s.Method, p) + ":test"
	require.NoError(t, c.Set(ctx, key, s))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	require.Equal(t, s.Len(), got.Len())
	for i := range s.Records {
		assert.True(t, s.Records[i].Remaining.Equal(got.Records[i].Remaining))
	}
}

func TestMemory_SetSweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	_, s := exampleSchedule(t)

	// GIVEN: many distinct keys that are never read again
	for i := 0; i < 100; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("schedule:%d", i), s))
	}
	require.Equal(t, 100, c.Len())

	// WHEN: they expire and another entry is written
	now = now.Add(2 * time.Minute)
	require.NoError(t, c.Set(ctx, "schedule:fresh", s))

	// THEN: only the fresh entry is left
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(ctx, "schedule:fresh")
	assert.True(t, ok)
}

func TestMemory_SweepKeepsLiveEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	_, s := exampleSchedule(t)

	require.NoError(t, c.Set(ctx, "old", s))
	now = now.Add(45 * time.Second)
	require.NoError(t, c.Set(ctx, "recent", s))

	now = now.Add(30 * time.Second)
	require.NoError(t, c.Set(ctx, "new", s))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(ctx, "recent")
	assert.True(t, ok)
}
