package repo

import (
	"context"
	"sync"

	"github.com/radixplay/rooms/internal/domain"
)

// MemoryRepository backs persistence-off deployments and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{rooms: make(map[string]*domain.Room)}
}

func (r *MemoryRepository) Save(_ context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[key(room.ID)] = room.Clone()
	return nil
}

func (r *MemoryRepository) Load(_ context.Context, id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[key(id)]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, key(id))
	return nil
}

func (r *MemoryRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[key(id)]
	return ok, nil
}
