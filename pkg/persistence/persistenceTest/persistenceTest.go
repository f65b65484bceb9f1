// Package persistenceTest holds behavior every IDeploymentStore implementation must share.
package persistenceTest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RandomAddress returns a fresh address so tests against shared backends do not collide.
func RandomAddress(t *testing.T) common.Address {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return crypto.PubkeyToAddress(key.PublicKey)
}

// RandomChainId isolates tests that list records against a shared backend.
func RandomChainId(t *testing.T) uint64 {
	t.Helper()
	return uint64(RandomAddress(t).Big().Uint64()&0xffffffff) + 1_000_000
}

func newAccount(t *testing.T, chainId uint64, createdAt int64) *persistence.AccountRecord {
	record := persistence.NewAccountRecord(chainId, RandomAddress(t), RandomAddress(t), RandomAddress(t), RandomAddress(t),
		common.Hash{}, common.HexToHash("0x0100"), common.HexToHash("0xabcd"))
	record.CreatedAt = createdAt
	return record
}

// RunDeploymentStoreTests runs the shared behavior against stores created by newStore.
func RunDeploymentStoreTests(t *testing.T, newStore func(t *testing.T) persistence.IDeploymentStore) {
	t.Run("Should save and load an account", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		record := newAccount(t, RandomChainId(t), 100)
		require.NoError(t, store.SaveAccount(record))

		loaded, err := store.LoadAccount(record.ChainId, record.Address)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, *record, *loaded)
	})

	t.Run("Should return nil for a missing record", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		account, err := store.LoadAccount(RandomChainId(t), RandomAddress(t))
		require.NoError(t, err)
		assert.Nil(t, account)

		factory, err := store.LoadFactory(RandomChainId(t), RandomAddress(t))
		require.NoError(t, err)
		assert.Nil(t, factory)
	})

	t.Run("Should keep chains apart", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		chainA, chainB := RandomChainId(t), RandomChainId(t)
		record := newAccount(t, chainA, 1)
		require.NoError(t, store.SaveAccount(record))

		loaded, err := store.LoadAccount(chainB, record.Address)
		require.NoError(t, err)
		assert.Nil(t, loaded)

		list, err := store.ListAccounts(chainB)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Should list accounts oldest first", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		chainId := RandomChainId(t)
		newer := newAccount(t, chainId, 300)
		older := newAccount(t, chainId, 100)
		middle := newAccount(t, chainId, 200)
		for _, r := range []*persistence.AccountRecord{newer, older, middle} {
			require.NoError(t, store.SaveAccount(r))
		}

		list, err := store.ListAccounts(chainId)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, older.Address, list[0].Address)
		assert.Equal(t, middle.Address, list[1].Address)
		assert.Equal(t, newer.Address, list[2].Address)
	})

	t.Run("Should overwrite an account with the same address", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		record := newAccount(t, RandomChainId(t), 1)
		require.NoError(t, store.SaveAccount(record))

		updated := *record
		updated.DeployTxHash = common.HexToHash("0xfeed")
		require.NoError(t, store.SaveAccount(&updated))

		list, err := store.ListAccounts(record.ChainId)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, updated.DeployTxHash, list[0].DeployTxHash)
	})

	t.Run("Should delete idempotently", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		record := newAccount(t, RandomChainId(t), 1)
		require.NoError(t, store.SaveAccount(record))
		require.NoError(t, store.DeleteAccount(record.ChainId, record.Address))
		require.NoError(t, store.DeleteAccount(record.ChainId, record.Address))

		loaded, err := store.LoadAccount(record.ChainId, record.Address)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("Should store factories separately from accounts", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		chainId := RandomChainId(t)
		factory := persistence.NewFactoryRecord(chainId, RandomAddress(t), RandomAddress(t),
			common.Hash{}, common.HexToHash("0x01"), common.HexToHash("0x02"), common.HexToHash("0x03"))
		require.NoError(t, store.SaveFactory(factory))

		loaded, err := store.LoadFactory(chainId, factory.Address)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, *factory, *loaded)

		account, err := store.LoadAccount(chainId, factory.Address)
		require.NoError(t, err)
		assert.Nil(t, account)

		factories, err := store.ListFactories(chainId)
		require.NoError(t, err)
		assert.Len(t, factories, 1)

		require.NoError(t, store.DeleteFactory(chainId, factory.Address))
		factories, err = store.ListFactories(chainId)
		require.NoError(t, err)
		assert.Empty(t, factories)
	})

	t.Run("Should reject nil records", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		assert.Error(t, store.SaveAccount(nil))
		assert.Error(t, store.SaveFactory(nil))
	})

	t.Run("Should handle concurrent writers", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		chainId := RandomChainId(t)
		records := make([]*persistence.AccountRecord, 10)
		for i := range records {
			records[i] = newAccount(t, chainId, int64(i))
		}

		var wg sync.WaitGroup
		errs := make(chan error, len(records))
		for i := range records {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := store.SaveAccount(records[i]); err != nil {
					errs <- fmt.Errorf("writer %d: %w", i, err)
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		list, err := store.ListAccounts(chainId)
		require.NoError(t, err)
		assert.Len(t, list, 10)
	})

	t.Run("Should fail after close", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.HealthCheck())
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())

		assert.Error(t, store.HealthCheck())
		assert.Error(t, store.SaveAccount(newAccount(t, 1, 1)))
		_, err := store.LoadAccount(1, RandomAddress(t))
		assert.Error(t, err)
		_, err = store.ListFactories(1)
		assert.Error(t, err)
	})
}
