package persistence

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// AccountRecord is a deployed multisig account.
type AccountRecord struct {
	Id           string         `json:"id"`
	ChainId      uint64         `json:"chainId"`
	Address      common.Address `json:"address"`
	Factory      common.Address `json:"factory"`
	Owner1       common.Address `json:"owner1"`
	Owner2       common.Address `json:"owner2"`
	Salt         common.Hash    `json:"salt"`
	BytecodeHash common.Hash    `json:"bytecodeHash"`
	DeployTxHash common.Hash    `json:"deployTxHash"`

	// CreatedAt is a unix timestamp in seconds.
	CreatedAt int64 `json:"createdAt"`
}

// FactoryRecord is a deployed account factory.
type FactoryRecord struct {
	Id           string         `json:"id"`
	ChainId      uint64         `json:"chainId"`
	Address      common.Address `json:"address"`
	Deployer     common.Address `json:"deployer"`
	Salt         common.Hash    `json:"salt"`
	BytecodeHash common.Hash    `json:"bytecodeHash"`

	// AccountBytecodeHash is the hash the factory deploys accounts with.
	AccountBytecodeHash common.Hash `json:"accountBytecodeHash"`
	DeployTxHash        common.Hash `json:"deployTxHash"`
	CreatedAt           int64       `json:"createdAt"`
}

// NewAccountRecord stamps a record with a fresh id and the current time.
func NewAccountRecord(chainId uint64, address, factory, owner1, owner2 common.Address, salt, bytecodeHash, txHash common.Hash) *AccountRecord {
	return &AccountRecord{
		Id:           uuid.New().String(),
		ChainId:      chainId,
		Address:      address,
		Factory:      factory,
		Owner1:       owner1,
		Owner2:       owner2,
		Salt:         salt,
		BytecodeHash: bytecodeHash,
		DeployTxHash: txHash,
		CreatedAt:    time.Now().Unix(),
	}
}

func NewFactoryRecord(chainId uint64, address, deployer common.Address, salt, bytecodeHash, accountBytecodeHash, txHash common.Hash) *FactoryRecord {
	return &FactoryRecord{
		Id:                  uuid.New().String(),
		ChainId:             chainId,
		Address:             address,
		Deployer:            deployer,
		Salt:                salt,
		BytecodeHash:        bytecodeHash,
		AccountBytecodeHash: accountBytecodeHash,
		DeployTxHash:        txHash,
		CreatedAt:           time.Now().Unix(),
	}
}
