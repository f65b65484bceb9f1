package badger

import (
	"testing"

	"github.com/Layr-Labs/aa-multisig-go/pkg/logger"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence/persistenceTest"
	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerPersistence(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	persistenceTest.RunDeploymentStoreTests(t, func(t *testing.T) persistence.IDeploymentStore {
		store, err := NewBadgerPersistence(t.TempDir(), l)
		require.NoError(t, err)
		return store
	})
}

func TestBadgerPersistence_SurvivesRestart(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)
	dir := t.TempDir()

	store, err := NewBadgerPersistence(dir, l)
	require.NoError(t, err)

	record := persistence.NewAccountRecord(260, persistenceTest.RandomAddress(t), persistenceTest.RandomAddress(t),
		persistenceTest.RandomAddress(t), persistenceTest.RandomAddress(t), common.Hash{}, common.HexToHash("0x01"), common.HexToHash("0x02"))
	require.NoError(t, store.SaveAccount(record))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerPersistence(dir, l)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.LoadAccount(260, record.Address)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record.Owner1, loaded.Owner1)
	assert.Equal(t, record.Id, loaded.Id)
}

func TestBadgerPersistence_RejectsUnknownSchema(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)
	dir := t.TempDir()

	db, err := badgerdb.Open(badgerdb.DefaultOptions(dir).WithLogger(nil))
	require.NoError(t, err)
	require.NoError(t, db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keySchemaVersion), []byte("v0"))
	}))
	require.NoError(t, db.Close())

	_, err = NewBadgerPersistence(dir, l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}
