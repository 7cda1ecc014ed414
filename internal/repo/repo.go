// Package repo is the wire layer for Room records: pure translation
// between domain.Room and a rooms/{id} key namespace. No business
// rules live here.
package repo

import (
	"context"

	"github.com/radixplay/rooms/internal/domain"
)

type RoomRepository interface {
	// Save writes the full record for room.ID.
	Save(ctx context.Context, room *domain.Room) error
	// Load returns domain.ErrRoomNotFound when the record is absent.
	Load(ctx context.Context, id string) (*domain.Room, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

func key(id string) string { return "rooms/" + id }
