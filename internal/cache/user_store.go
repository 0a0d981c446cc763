package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DanialAhmed94/festival-rumour/internal/usecase"
)

// CacheClient is the subset of redis commands this decorator needs.
// *redis.Client satisfies it.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// UserStore adds read-through caching to a usecase.Repository. Profile
// lookups dominate dispatch latency, and chat fan-out hits the same
// recipients over and over; everything else passes straight through.
type UserStore struct {
	store usecase.Repository
	cache CacheClient
	ttl   time.Duration
}

func NewUserStore(store usecase.Repository, cache CacheClient, ttl time.Duration) *UserStore {
	return &UserStore{
		store: store,
		cache: cache,
		ttl:   ttl,
	}
}

func (s *UserStore) GetUserByUID(ctx context.Context, uid string) (usecase.User, error) {
	key := s.key(uid)

	if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
		var u usecase.User
		if err := json.Unmarshal(raw, &u); err == nil {
			return u, nil
		}
	}

	user, err := s.store.GetUserByUID(ctx, uid)
	if err != nil {
		return usecase.User{}, err
	}

	// Populate is fire and forget: if redis is down we just serve
	// from the database.
	if raw, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, key, raw, s.ttl).Err()
	}

	return user, nil
}

// RemoveFCMToken runs in the worker against the source of truth; cached
// copies of affected users age out by TTL.
func (s *UserStore) RemoveFCMToken(ctx context.Context, token string) (int64, error) {
	return s.store.RemoveFCMToken(ctx, token)
}

func (s *UserStore) Health() map[string]string {
	return s.store.Health()
}

func (s *UserStore) Close() error {
	return s.store.Close()
}

func (s *UserStore) key(uid string) string {
	return "user:" + uid
}
