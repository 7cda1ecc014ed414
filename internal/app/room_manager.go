package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/radixplay/rooms/internal/core"
	"github.com/radixplay/rooms/internal/domain"
	"github.com/radixplay/rooms/internal/repo"
)

const persistTimeout = 2 * time.Second

type RoomInfo struct {
	Code    string            `json:"code"`
	Players int               `json:"players"`
	Status  domain.RoomStatus `json:"status"`
}

// RoomManager owns the live room set: join-code allocation, lookup
// with rehydration from the repository, and eviction when a room
// closes.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]core.RoomService
	store repo.RoomRepository
}

func NewRoomManager(store repo.RoomRepository) *RoomManager {
	return &RoomManager{
		rooms: make(map[string]core.RoomService),
		store: store,
	}
}

func (m *RoomManager) Create(hostUID, hostName string, mode domain.GameMode, maxPlayers int) (core.RoomService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, err := m.allocCodeLocked()
	if err != nil {
		return nil, err
	}
	room, err := core.NewRoom(code, hostUID, hostName, mode, maxPlayers, m.hooks())
	if err != nil {
		return nil, err
	}
	m.rooms[code] = room
	m.persist(room.Snapshot())
	log.Info().Str("module", "app.manager").Str("room", code).Str("host", hostUID).Msg("room registered")
	return room, nil
}

// Get resolves a join code, falling back to the repository so a room
// written by a previous process incarnation is picked up where it left
// off.
func (m *RoomManager) Get(code string) (core.RoomService, error) {
	code = domain.NormalizeCode(code)
	m.mu.RLock()
	room, ok := m.rooms[code]
	m.mu.RUnlock()
	if ok {
		return room, nil
	}
	state, err := m.loadState(code)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok = m.rooms[code]; ok {
		return room, nil
	}
	room = core.Restore(state, m.hooks())
	m.rooms[code] = room
	return room, nil
}

func (m *RoomManager) List() []RoomInfo {
	m.mu.RLock()
	rooms := make(map[string]core.RoomService, len(m.rooms))
	for code, r := range m.rooms {
		rooms[code] = r
	}
	m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(rooms))
	for code, r := range rooms {
		snap := r.Snapshot()
		out = append(out, RoomInfo{Code: code, Players: snap.ActiveCount(), Status: snap.Status})
	}
	return out
}

func (m *RoomManager) hooks() core.Hooks {
	return core.Hooks{OnChange: m.persist, OnClose: m.evict}
}

func (m *RoomManager) evict(id string) {
	m.mu.Lock()
	delete(m.rooms, id)
	m.mu.Unlock()
	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := m.store.Delete(ctx, id); err != nil {
			log.Error().Err(err).Str("module", "app.manager").Str("room", id).Msg("delete record")
		}
	}
	log.Info().Str("module", "app.manager").Str("room", id).Msg("room evicted")
}

func (m *RoomManager) persist(snap *domain.Room) {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.store.Save(ctx, snap); err != nil {
		log.Error().Err(err).Str("module", "app.manager").Str("room", snap.ID).Msg("persist record")
	}
}

func (m *RoomManager) loadState(code string) (*domain.Room, error) {
	if m.store == nil {
		return nil, domain.ErrRoomNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	return m.store.Load(ctx, code)
}

// allocCodeLocked draws 8 hex chars from a fresh uuid until the code is
// unused. Codes are stored upper case; lookups normalize.
func (m *RoomManager) allocCodeLocked() (string, error) {
	for {
		raw := strings.ReplaceAll(uuid.NewString(), "-", "")
		code := strings.ToUpper(raw[:domain.CodeLength])
		if _, ok := m.rooms[code]; ok {
			continue
		}
		if m.store != nil {
			ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			taken, err := m.store.Exists(ctx, code)
			cancel()
			if err != nil {
				return "", err
			}
			if taken {
				continue
			}
		}
		return code, nil
	}
}
