package repo

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radixplay/rooms/internal/domain"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemory()

	_, err := r.Load(ctx, "AB12CD34")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)

	room := &domain.Room{
		ID:      "AB12CD34",
		HostUID: "host",
		Players: map[string]*domain.RoomPlayer{
			"host": {UID: "host", DisplayName: "Hosty", Ready: true, Wins: 3},
		},
		Status:     domain.StatusWaiting,
		MaxPlayers: 4,
	}
	require.NoError(t, r.Save(ctx, room))

	ok, err := r.Exists(ctx, "AB12CD34")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := r.Load(ctx, "AB12CD34")
	require.NoError(t, err)
	require.Equal(t, 3, got.Players["host"].Wins)

	// Stored records are isolated from later caller mutations.
	room.Players["host"].Wins = 99
	got, err = r.Load(ctx, "AB12CD34")
	require.NoError(t, err)
	require.Equal(t, 3, got.Players["host"].Wins)

	require.NoError(t, r.Delete(ctx, "AB12CD34"))
	ok, err = r.Exists(ctx, "AB12CD34")
	require.NoError(t, err)
	require.False(t, ok)
}

// The record layout is the wire contract shared with clients and the
// redis store; pin the field names the UI depends on.
func TestRoomRecordWireNames(t *testing.T) {
	room := &domain.Room{
		ID:      "AB12CD34",
		HostUID: "host",
		Players: map[string]*domain.RoomPlayer{
			"host": {UID: "host", DisplayName: "Hosty", Ready: true},
		},
		Status:     domain.StatusWaiting,
		MaxPlayers: 4,
		GameMode:   domain.GameMode{Label: "timed", Duration: 60},
	}
	b, err := json.Marshal(room)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, field := range []string{"id", "hostUid", "gameMode", "players", "status", "createdAt", "maxPlayers", "settings"} {
		require.Contains(t, m, field)
	}
	players := m["players"].(map[string]any)
	host := players["host"].(map[string]any)
	for _, field := range []string{"uid", "displayName", "ready", "score", "finished", "wins", "joinOrder"} {
		require.Contains(t, host, field)
	}
}
