package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DanialAhmed94/festival-rumour/internal/cache"
	"github.com/DanialAhmed94/festival-rumour/internal/usecase"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Health() map[string]string {
	return m.Called().Get(0).(map[string]string)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}

func (m *MockStore) GetUserByUID(ctx context.Context, uid string) (usecase.User, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(usecase.User), args.Error(1)
}

func (m *MockStore) RemoveFCMToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

type MockCacheClient struct {
	mock.Mock
}

func (m *MockCacheClient) Get(ctx context.Context, key string) *redis.StringCmd {
	return m.Called(ctx, key).Get(0).(*redis.StringCmd)
}

func (m *MockCacheClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return m.Called(ctx, key, value, expiration).Get(0).(*redis.StatusCmd)
}

func TestUserStore_GetUserByUID(t *testing.T) {
	ctx := context.Background()
	user := usecase.User{UID: "u1", AppID: "festival_rumour", FCMToken: "tA"}

	t.Run("cache hit skips the store", func(t *testing.T) {
		store := new(MockStore)
		client := new(MockCacheClient)
		s := cache.NewUserStore(store, client, time.Minute)

		raw, err := json.Marshal(user)
		require.NoError(t, err)
		client.On("Get", ctx, "user:u1").
			Return(redis.NewStringResult(string(raw), nil))

		got, err := s.GetUserByUID(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, user, got)
		store.AssertNotCalled(t, "GetUserByUID", mock.Anything, mock.Anything)
	})

	t.Run("cache miss reads through and populates", func(t *testing.T) {
		store := new(MockStore)
		client := new(MockCacheClient)
		s := cache.NewUserStore(store, client, time.Minute)

		client.On("Get", ctx, "user:u1").
			Return(redis.NewStringResult("", redis.Nil))
		store.On("GetUserByUID", ctx, "u1").Return(user, nil)
		client.On("Set", ctx, "user:u1", mock.Anything, time.Minute).
			Return(redis.NewStatusResult("OK", nil))

		got, err := s.GetUserByUID(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, user, got)
		client.AssertExpectations(t)
	})

	t.Run("redis failure falls back to the store", func(t *testing.T) {
		store := new(MockStore)
		client := new(MockCacheClient)
		s := cache.NewUserStore(store, client, time.Minute)

		client.On("Get", ctx, "user:u1").
			Return(redis.NewStringResult("", errors.New("connection refused")))
		store.On("GetUserByUID", ctx, "u1").Return(user, nil)
		client.On("Set", ctx, "user:u1", mock.Anything, time.Minute).
			Return(redis.NewStatusResult("", errors.New("connection refused")))

		got, err := s.GetUserByUID(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("store error propagates", func(t *testing.T) {
		store := new(MockStore)
		client := new(MockCacheClient)
		s := cache.NewUserStore(store, client, time.Minute)

		client.On("Get", ctx, "user:ghost").
			Return(redis.NewStringResult("", redis.Nil))
		store.On("GetUserByUID", ctx, "ghost").
			Return(usecase.User{}, usecase.ErrUserNotFound)

		_, err := s.GetUserByUID(ctx, "ghost")

		require.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}

func TestUserStore_Passthrough(t *testing.T) {
	ctx := context.Background()

	store := new(MockStore)
	client := new(MockCacheClient)
	s := cache.NewUserStore(store, client, time.Minute)

	store.On("RemoveFCMToken", ctx, "stale").Return(int64(2), nil)

	affected, err := s.RemoveFCMToken(ctx, "stale")

	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
}
