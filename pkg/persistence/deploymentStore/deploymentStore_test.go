package deploymentStore

import (
	"testing"

	"github.com/Layr-Labs/aa-multisig-go/pkg/config"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence/badger"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func Test_NewDeploymentStore(t *testing.T) {
	t.Run("Should default to memory", func(t *testing.T) {
		store, err := NewDeploymentStore(&config.PersistenceConfig{}, zap.NewNop())
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		assert.IsType(t, &memory.MemoryPersistence{}, store)
	})

	t.Run("Should open badger", func(t *testing.T) {
		store, err := NewDeploymentStore(&config.PersistenceConfig{
			Type:      config.PersistenceType_Badger,
			BadgerDir: t.TempDir(),
		}, zap.NewNop())
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		assert.IsType(t, &badger.BadgerPersistence{}, store)
		assert.NoError(t, store.HealthCheck())
	})

	t.Run("Should reject unknown type", func(t *testing.T) {
		_, err := NewDeploymentStore(&config.PersistenceConfig{Type: "sqlite"}, zap.NewNop())
		require.Error(t, err)
	})
}
