package repository_test

import (
	"context"
	"errors"
	"testing"

	"seatmap-client/internal/data/repository"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisStorage_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	storage := repository.NewRedisStorageRepository(db, "seatmap-client", zap.NewNop())
	ctx := context.Background()

	mock.ExpectGet("storage:seatmap-client:guestId").SetVal("guest-1")
	value, ok, err := storage.Get(ctx, "guestId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "guest-1", value)

	mock.ExpectGet("storage:seatmap-client:accessToken").RedisNil()
	_, ok, err = storage.Get(ctx, "accessToken")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectGet("storage:seatmap-client:guestId").SetErr(errors.New("connection reset"))
	_, _, err = storage.Get(ctx, "guestId")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStorage_SetAndDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	storage := repository.NewRedisStorageRepository(db, "seatmap-client", zap.NewNop())
	ctx := context.Background()

	mock.ExpectSet("storage:seatmap-client:guestId", "guest-1", 0).SetVal("OK")
	require.NoError(t, storage.Set(ctx, "guestId", "guest-1"))

	mock.ExpectDel("storage:seatmap-client:guestId").SetVal(1)
	require.NoError(t, storage.Delete(ctx, "guestId"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryStorage(t *testing.T) {
	storage := repository.NewMemoryStorageRepository()
	ctx := context.Background()

	_, ok, err := storage.Get(ctx, "guestId")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Set(ctx, "guestId", "guest-1"))
	value, ok, err := storage.Get(ctx, "guestId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "guest-1", value)

	require.NoError(t, storage.Delete(ctx, "guestId"))
	_, ok, _ = storage.Get(ctx, "guestId")
	assert.False(t, ok)
}

func TestNewRepository(t *testing.T) {
	tests := []struct {
		name     string
		driver   string
		backends repository.Backends
		wantErr  bool
	}{
		{name: "default is memory", driver: ""},
		{name: "memory", driver: repository.StorageDriverMemory},
		{name: "redis", driver: repository.StorageDriverRedis, backends: repository.Backends{Redis: redis.NewClient(&redis.Options{})}},
		{name: "redis without client", driver: repository.StorageDriverRedis, wantErr: true},
		{name: "postgres", driver: repository.StorageDriverPostgres, backends: repository.Backends{DB: newFakeDB()}},
		{name: "postgres without db", driver: repository.StorageDriverPostgres, wantErr: true},
		{name: "unknown driver", driver: "etcd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := repository.NewRepository(tt.driver, "app", tt.backends, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, repo.Storage)
		})
	}
}
