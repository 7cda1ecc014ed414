package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJoinRateLimiter(t *testing.T) {
	rl := NewJoinRateLimiter(2, time.Minute)
	require.True(t, rl.Allow("u1"))
	require.True(t, rl.Allow("u1"))
	require.False(t, rl.Allow("u1"))
	// Separate uids have separate windows.
	require.True(t, rl.Allow("u2"))
}

func TestJoinRateLimiter_WindowSlides(t *testing.T) {
	rl := NewJoinRateLimiter(1, 10*time.Millisecond)
	require.True(t, rl.Allow("u1"))
	require.False(t, rl.Allow("u1"))
	time.Sleep(15 * time.Millisecond)
	require.True(t, rl.Allow("u1"))
}
