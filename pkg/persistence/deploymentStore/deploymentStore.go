package deploymentStore

import (
	"fmt"

	"github.com/Layr-Labs/aa-multisig-go/pkg/config"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence/badger"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence/memory"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence/redis"
	"go.uber.org/zap"
)

// NewDeploymentStore opens the store selected by cfg. An empty type means memory.
func NewDeploymentStore(cfg *config.PersistenceConfig, logger *zap.Logger) (persistence.IDeploymentStore, error) {
	switch cfg.Type {
	case "", config.PersistenceType_Memory:
		return memory.NewMemoryPersistence(logger), nil
	case config.PersistenceType_Badger:
		return badger.NewBadgerPersistence(cfg.BadgerDir, logger)
	case config.PersistenceType_Redis:
		return redis.NewRedisPersistence(&redis.RedisConfig{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported persistence type %q", cfg.Type)
	}
}
