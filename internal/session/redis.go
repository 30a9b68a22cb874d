package session

import (
	"context"
	"errors"
	"time"

	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/internal/services"
)

// RedisStore shares sessions between server instances through the cache.
// Expiry is left to redis; every read renews the key's ttl.
type RedisStore struct {
	cache *services.CacheService
	ttl   time.Duration
}

func NewRedisStore(cache *services.CacheService, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: cache, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	var state State
	if err := r.cache.Get(ctx, services.SessionCacheKey(id), &state); err != nil {
		if errors.Is(err, services.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.cache.Touch(ctx, services.SessionCacheKey(id), r.ttl); err != nil {
		return nil, err
	}
	if state.Tickets == nil {
		state.Tickets = []models.Ticket{}
	}
	if state.ManualPicks == nil {
		state.ManualPicks = []int{}
	}
	return &state, nil
}

func (r *RedisStore) Save(ctx context.Context, state *State) error {
	return r.cache.Set(ctx, services.SessionCacheKey(state.ID), state, r.ttl)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, services.SessionCacheKey(id))
}
