package memory

import (
	"testing"

	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence/persistenceTest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryPersistence(t *testing.T) {
	persistenceTest.RunDeploymentStoreTests(t, func(t *testing.T) persistence.IDeploymentStore {
		return NewMemoryPersistence(zap.NewNop())
	})
}

func TestMemoryPersistence_CopiesRecords(t *testing.T) {
	store := NewMemoryPersistence(zap.NewNop())
	record := &persistence.AccountRecord{ChainId: 260, Address: common.HexToAddress("0x01")}
	require.NoError(t, store.SaveAccount(record))

	record.Owner1 = common.HexToAddress("0x02")
	loaded, err := store.LoadAccount(260, common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, loaded.Owner1)

	loaded.Owner2 = common.HexToAddress("0x03")
	again, err := store.LoadAccount(260, common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, again.Owner2)
}
