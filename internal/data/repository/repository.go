package repository

import (
	"fmt"

	"seatmap-client/pkg/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"
)

type Repository struct {
	Storage StorageRepository
}

// Backends holds the connections a storage driver may need. Only the one
// matching the driver has to be set.
type Backends struct {
	DB    database.PgxIface
	Redis *redis.Client
}

func NewRepository(driver, origin string, backends Backends, log *zap.Logger) (*Repository, error) {
	var storage StorageRepository

	switch driver {
	case StorageDriverMemory, "":
		storage = NewMemoryStorageRepository()
	case StorageDriverRedis:
		if backends.Redis == nil {
			return nil, fmt.Errorf("storage driver %s: redis client not configured", driver)
		}
		storage = NewRedisStorageRepository(backends.Redis, origin, log)
	case StorageDriverPostgres:
		if backends.DB == nil {
			return nil, fmt.Errorf("storage driver %s: database not configured", driver)
		}
		storage = NewPostgresStorageRepository(backends.DB, origin, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	return &Repository{Storage: storage}, nil
}
