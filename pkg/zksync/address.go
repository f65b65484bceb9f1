package zksync

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var create2Prefix = crypto.Keccak256([]byte("zksyncCreate2"))

// Create2Address derives the address a deployer contract obtains for a CREATE2 style
// deployment of bytecodeHash with the given salt and ABI encoded constructor input.
func Create2Address(sender common.Address, bytecodeHash common.Hash, salt common.Hash, input []byte) common.Address {
	hash := crypto.Keccak256(
		create2Prefix,
		common.LeftPadBytes(sender.Bytes(), 32),
		salt.Bytes(),
		bytecodeHash.Bytes(),
		crypto.Keccak256(input),
	)
	return common.BytesToAddress(hash[12:])
}
