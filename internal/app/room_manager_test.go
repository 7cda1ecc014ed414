package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radixplay/rooms/internal/domain"
	"github.com/radixplay/rooms/internal/repo"
)

func testMode() domain.GameMode {
	return domain.GameMode{Label: "timed", Duration: 60}
}

func TestRoomManager_CreateAndLookup(t *testing.T) {
	m := NewRoomManager(repo.NewMemory())
	room, err := m.Create("host", "Hosty", testMode(), 4)
	require.NoError(t, err)
	code := room.Snapshot().ID
	require.Len(t, code, domain.CodeLength)
	require.Equal(t, domain.NormalizeCode(code), code)

	// Join codes are case-insensitive.
	for _, input := range []string{code, " " + code + " "} {
		got, err := m.Get(input)
		require.NoError(t, err)
		require.Equal(t, code, got.Snapshot().ID)
	}

	_, err = m.Get("NOPE0000")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomManager_InvalidMaxPlayers(t *testing.T) {
	m := NewRoomManager(repo.NewMemory())
	_, err := m.Create("host", "Hosty", testMode(), 1)
	require.ErrorIs(t, err, domain.ErrInvalidMaxPlayers)
	require.Empty(t, m.List())
}

func TestRoomManager_EvictOnClose(t *testing.T) {
	store := repo.NewMemory()
	m := NewRoomManager(store)
	room, err := m.Create("host", "Hosty", testMode(), 4)
	require.NoError(t, err)
	code := room.Snapshot().ID

	require.NoError(t, room.Leave("host"))
	require.Empty(t, m.List())

	// The record is gone from the store too, so the code is dead.
	_, err = m.Get(code)
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
	ok, err := store.Exists(context.Background(), code)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRoomManager_RehydratesFromStore(t *testing.T) {
	store := repo.NewMemory()
	state := &domain.Room{
		ID:      "CAFE0042",
		HostUID: "host",
		Players: map[string]*domain.RoomPlayer{
			"host": {UID: "host", DisplayName: "Hosty", Ready: true},
			"b":    {UID: "b", DisplayName: "Bee", JoinOrder: 1, Wins: 2},
		},
		Status:     domain.StatusWaiting,
		MaxPlayers: 4,
		GameMode:   testMode(),
	}
	require.NoError(t, store.Save(context.Background(), state))

	m := NewRoomManager(store)
	room, err := m.Get("cafe0042")
	require.NoError(t, err)
	snap := room.Snapshot()
	require.Equal(t, "host", snap.HostUID)
	require.Equal(t, 2, snap.Players["b"].Wins)

	// The revived room behaves like any live room.
	require.NoError(t, room.Join("c", "Cee"))
	require.EqualValues(t, 2, room.Snapshot().Players["c"].JoinOrder)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	id := r.GetOrCreate("u1")
	require.Equal(t, "guest", id.DisplayName)
	require.Same(t, id, r.GetOrCreate("u1"))

	require.NoError(t, r.UpdateName("u1", "Lena"))
	require.Equal(t, "Lena", r.GetOrCreate("u1").DisplayName)
	require.ErrorIs(t, r.UpdateName("u1", ""), domain.ErrNameEmpty)
	require.ErrorIs(t, r.UpdateName("ghost", "x"), domain.ErrNotAuthenticated)

	_, ok := r.RoomOf("u1")
	require.False(t, ok)
	r.BindRoom("u1", "AB12CD34")
	code, ok := r.RoomOf("u1")
	require.True(t, ok)
	require.Equal(t, "AB12CD34", code)
	r.ClearRoom("u1")
	_, ok = r.RoomOf("u1")
	require.False(t, ok)
}
