package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radixplay/rooms/internal/domain"
)

// RedisRepository keeps one JSON document per room. The TTL is the
// store-level cleanup for abandoned rooms; every Save refreshes it.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) Save(ctx context.Context, room *domain.Room) error {
	b, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", room.ID, err)
	}
	if err := r.client.Set(ctx, key(room.ID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("save room %s: %w", room.ID, err)
	}
	return nil
}

func (r *RedisRepository) Load(ctx context.Context, id string) (*domain.Room, error) {
	b, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", id, err)
	}
	var room domain.Room
	if err := json.Unmarshal(b, &room); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", id, err)
	}
	if room.Players == nil {
		room.Players = make(map[string]*domain.RoomPlayer)
	}
	return &room, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	return nil
}

func (r *RedisRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("check room %s: %w", id, err)
	}
	return n > 0, nil
}
