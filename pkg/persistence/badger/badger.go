package badger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence"
	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const (
	keyPrefixAccount     = "account:"
	keyPrefixFactory     = "factory:"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"
)

// BadgerPersistence stores deployment records on local disk.
type BadgerPersistence struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewBadgerPersistence opens (or creates) the database at dataPath with SyncWrites
// enabled and starts a background value log GC.
func NewBadgerPersistence(dataPath string, logger *zap.Logger) (*BadgerPersistence, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bp := &BadgerPersistence{
		db:     db,
		logger: logger,
	}

	if err := bp.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bp.gcCancel = cancel
	bp.gcWg.Add(1)
	go bp.runGC(ctx)

	logger.Sugar().Infow("Badger persistence initialized", "path", absPath)

	return bp, nil
}

// initSchema writes the schema version on first open and refuses databases written by
// another layout.
func (b *BadgerPersistence) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		existing, err := readValue(txn, keySchemaVersion)
		switch {
		case err != nil:
			return fmt.Errorf("failed to read schema version: %w", err)
		case existing == nil:
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		case string(existing) != currentSchemaVersion:
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existing, currentSchemaVersion)
		}
		return nil
	})
}

// readValue returns a copy of the value under key, or nil when the key does not exist.
func readValue(txn *badgerdb.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (b *BadgerPersistence) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(0.5)
			if err != nil && !errors.Is(err, badgerdb.ErrNoRewrite) {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// open runs fn against the database unless the store has been closed.
func (b *BadgerPersistence) open(fn func(db *badgerdb.DB) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrStoreClosed
	}
	return fn(b.db)
}

func (b *BadgerPersistence) set(key string, data []byte) error {
	return b.open(func(db *badgerdb.DB) error {
		return db.Update(func(txn *badgerdb.Txn) error {
			return txn.Set([]byte(key), data)
		})
	})
}

// get returns nil data when the key does not exist.
func (b *BadgerPersistence) get(key string) (data []byte, err error) {
	err = b.open(func(db *badgerdb.DB) error {
		return db.View(func(txn *badgerdb.Txn) error {
			data, err = readValue(txn, key)
			return err
		})
	})
	return data, err
}

// scan calls fn for every key under prefix, in key order.
func (b *BadgerPersistence) scan(prefix string, fn func(key string, data []byte)) error {
	return b.open(func(db *badgerdb.DB) error {
		return db.View(func(txn *badgerdb.Txn) error {
			opts := badgerdb.DefaultIteratorOptions
			opts.Prefix = []byte(prefix)

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Rewind(); it.Valid(); it.Next() {
				item := it.Item()
				data, err := item.ValueCopy(nil)
				if err != nil {
					return fmt.Errorf("failed to read value of %s: %w", item.Key(), err)
				}
				fn(string(item.KeyCopy(nil)), data)
			}
			return nil
		})
	})
}

func (b *BadgerPersistence) delete(key string) error {
	return b.open(func(db *badgerdb.DB) error {
		return db.Update(func(txn *badgerdb.Txn) error {
			return txn.Delete([]byte(key))
		})
	})
}

func (b *BadgerPersistence) SaveAccount(record *persistence.AccountRecord) error {
	data, err := persistence.MarshalAccountRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal AccountRecord: %w", err)
	}
	return b.set(keyPrefixAccount+persistence.RecordKey(record.ChainId, record.Address), data)
}

func (b *BadgerPersistence) LoadAccount(chainId uint64, address common.Address) (*persistence.AccountRecord, error) {
	data, err := b.get(keyPrefixAccount + persistence.RecordKey(chainId, address))
	if err != nil {
		return nil, fmt.Errorf("failed to load AccountRecord: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return persistence.UnmarshalAccountRecord(data)
}

func (b *BadgerPersistence) ListAccounts(chainId uint64) ([]*persistence.AccountRecord, error) {
	records := make([]*persistence.AccountRecord, 0)
	err := b.scan(keyPrefixAccount+persistence.ChainKeyPrefix(chainId), func(key string, data []byte) {
		record, err := persistence.UnmarshalAccountRecord(data)
		if err != nil {
			b.logger.Sugar().Warnw("Failed to unmarshal AccountRecord, skipping", "key", key, "error", err)
			return
		}
		records = append(records, record)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list AccountRecords: %w", err)
	}
	persistence.SortAccounts(records)
	return records, nil
}

func (b *BadgerPersistence) DeleteAccount(chainId uint64, address common.Address) error {
	return b.delete(keyPrefixAccount + persistence.RecordKey(chainId, address))
}

func (b *BadgerPersistence) SaveFactory(record *persistence.FactoryRecord) error {
	data, err := persistence.MarshalFactoryRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal FactoryRecord: %w", err)
	}
	return b.set(keyPrefixFactory+persistence.RecordKey(record.ChainId, record.Address), data)
}

func (b *BadgerPersistence) LoadFactory(chainId uint64, address common.Address) (*persistence.FactoryRecord, error) {
	data, err := b.get(keyPrefixFactory + persistence.RecordKey(chainId, address))
	if err != nil {
		return nil, fmt.Errorf("failed to load FactoryRecord: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return persistence.UnmarshalFactoryRecord(data)
}

func (b *BadgerPersistence) ListFactories(chainId uint64) ([]*persistence.FactoryRecord, error) {
	records := make([]*persistence.FactoryRecord, 0)
	err := b.scan(keyPrefixFactory+persistence.ChainKeyPrefix(chainId), func(key string, data []byte) {
		record, err := persistence.UnmarshalFactoryRecord(data)
		if err != nil {
			b.logger.Sugar().Warnw("Failed to unmarshal FactoryRecord, skipping", "key", key, "error", err)
			return
		}
		records = append(records, record)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list FactoryRecords: %w", err)
	}
	persistence.SortFactories(records)
	return records, nil
}

func (b *BadgerPersistence) DeleteFactory(chainId uint64, address common.Address) error {
	return b.delete(keyPrefixFactory + persistence.RecordKey(chainId, address))
}

// Close stops the GC goroutine and closes the database. It is idempotent.
func (b *BadgerPersistence) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Info("Badger persistence closed")
	return nil
}

// HealthCheck reads the schema version back.
func (b *BadgerPersistence) HealthCheck() error {
	return b.open(func(db *badgerdb.DB) error {
		return db.View(func(txn *badgerdb.Txn) error {
			version, err := readValue(txn, keySchemaVersion)
			if err != nil {
				return err
			}
			if version == nil {
				return fmt.Errorf("schema version not found, database may be corrupted")
			}
			return nil
		})
	})
}
