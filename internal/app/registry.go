package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/radixplay/rooms/internal/domain"
)

// Registry maps client tokens to identities and tracks which room a
// player is currently in, so a dropped connection can be cleaned up.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*domain.Identity
	rooms map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]*domain.Identity),
		rooms: make(map[string]string),
	}
}

func (r *Registry) GetOrCreate(uid string) *domain.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uid]; ok {
		return u
	}
	u := &domain.Identity{UID: uid, DisplayName: "guest"}
	r.users[uid] = u
	log.Info().Str("module", "app.registry").Str("uid", uid).Msg("created new identity")
	return u
}

func (r *Registry) UpdateName(uid, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return domain.ErrNotAuthenticated
	}
	if err := u.SetDisplayName(name); err != nil {
		return err
	}
	log.Info().Str("module", "app.registry").Str("uid", uid).Str("name", name).Msg("updated display name")
	return nil
}

func (r *Registry) BindRoom(uid, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[uid] = code
	log.Info().Str("module", "app.registry").Str("uid", uid).Str("room", code).Msg("bound room")
}

func (r *Registry) RoomOf(uid string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.rooms[uid]
	return code, ok
}

func (r *Registry) ClearRoom(uid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, uid)
}
