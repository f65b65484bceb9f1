package memory

import (
	"fmt"
	"sync"

	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// MemoryPersistence is an in-memory implementation of IDeploymentStore.
// All data is lost when the process exits, so it is meant for tests and dry runs.
// Records are copied on the way in and out.
type MemoryPersistence struct {
	mu sync.RWMutex

	accounts  map[string]*persistence.AccountRecord
	factories map[string]*persistence.FactoryRecord

	closed bool
}

// NewMemoryPersistence creates a new in-memory persistence layer.
func NewMemoryPersistence(logger *zap.Logger) *MemoryPersistence {
	logger.Sugar().Warnw("Using in-memory persistence, deployment records will be lost on exit")

	return &MemoryPersistence{
		accounts:  make(map[string]*persistence.AccountRecord),
		factories: make(map[string]*persistence.FactoryRecord),
	}
}

func (m *MemoryPersistence) SaveAccount(record *persistence.AccountRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil AccountRecord")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrStoreClosed
	}

	cpy := *record
	m.accounts[persistence.RecordKey(record.ChainId, record.Address)] = &cpy
	return nil
}

func (m *MemoryPersistence) LoadAccount(chainId uint64, address common.Address) (*persistence.AccountRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrStoreClosed
	}

	record, exists := m.accounts[persistence.RecordKey(chainId, address)]
	if !exists {
		return nil, nil
	}
	cpy := *record
	return &cpy, nil
}

func (m *MemoryPersistence) ListAccounts(chainId uint64) ([]*persistence.AccountRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrStoreClosed
	}

	records := make([]*persistence.AccountRecord, 0)
	for _, record := range m.accounts {
		if record.ChainId != chainId {
			continue
		}
		cpy := *record
		records = append(records, &cpy)
	}
	persistence.SortAccounts(records)
	return records, nil
}

func (m *MemoryPersistence) DeleteAccount(chainId uint64, address common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrStoreClosed
	}

	delete(m.accounts, persistence.RecordKey(chainId, address))
	return nil
}

func (m *MemoryPersistence) SaveFactory(record *persistence.FactoryRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil FactoryRecord")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrStoreClosed
	}

	cpy := *record
	m.factories[persistence.RecordKey(record.ChainId, record.Address)] = &cpy
	return nil
}

func (m *MemoryPersistence) LoadFactory(chainId uint64, address common.Address) (*persistence.FactoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrStoreClosed
	}

	record, exists := m.factories[persistence.RecordKey(chainId, address)]
	if !exists {
		return nil, nil
	}
	cpy := *record
	return &cpy, nil
}

func (m *MemoryPersistence) ListFactories(chainId uint64) ([]*persistence.FactoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrStoreClosed
	}

	records := make([]*persistence.FactoryRecord, 0)
	for _, record := range m.factories {
		if record.ChainId != chainId {
			continue
		}
		cpy := *record
		records = append(records, &cpy)
	}
	persistence.SortFactories(records)
	return records, nil
}

func (m *MemoryPersistence) DeleteFactory(chainId uint64, address common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrStoreClosed
	}

	delete(m.factories, persistence.RecordKey(chainId, address))
	return nil
}

// Close is idempotent.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return persistence.ErrStoreClosed
	}
	return nil
}
