package persistence

import "github.com/ethereum/go-ethereum/common"

// IDeploymentStore persists the factories and accounts this tool has deployed.
// All implementations must be safe for concurrent use.
//
// Records are keyed by chain id and address, so the same address on two chains
// yields two records.
type IDeploymentStore interface {
	// SaveAccount stores a record, overwriting any record for the same chain and address.
	SaveAccount(record *AccountRecord) error

	// LoadAccount returns nil if no record exists, error only on storage failure.
	LoadAccount(chainId uint64, address common.Address) (*AccountRecord, error)

	// ListAccounts returns the records of one chain sorted by CreatedAt, oldest first.
	ListAccounts(chainId uint64) ([]*AccountRecord, error)

	// DeleteAccount is idempotent.
	DeleteAccount(chainId uint64, address common.Address) error

	SaveFactory(record *FactoryRecord) error
	LoadFactory(chainId uint64, address common.Address) (*FactoryRecord, error)
	ListFactories(chainId uint64) ([]*FactoryRecord, error)
	DeleteFactory(chainId uint64, address common.Address) error

	// Close is idempotent. After Close all other operations return errors.
	Close() error

	// HealthCheck returns nil if the store is usable.
	HealthCheck() error
}
