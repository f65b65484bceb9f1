package zksync

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// EIP712TxType is the envelope type byte of account-abstraction transactions.
	EIP712TxType = 0x71

	// DefaultGasPerPubdataLimit is used when a transaction does not carry its own limit.
	DefaultGasPerPubdataLimit = 50000

	// MaxBytecodeWords is the largest bytecode, in 32 byte words, the deployer accepts.
	MaxBytecodeWords = (1 << 16) - 1

	bytecodeHashVersion = 1
)

// ContractDeployerAddress is the system contract every deployment goes through.
var ContractDeployerAddress = common.HexToAddress("0x0000000000000000000000000000000000008006")
