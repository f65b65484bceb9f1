// Package multisig derives two-owner account addresses and builds the authorization
// payload the account contract validates.
package multisig

import (
	"fmt"

	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// OwnerCount is the number of keys that must co-sign every account transaction.
const OwnerCount = 2

// ZeroSalt is the salt used when a deployer has no reason to pick another one.
var ZeroSalt = common.Hash{}

var ownersArguments abi.Arguments

func init() {
	addressType, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(fmt.Sprintf("failed to create address abi type: %v", err))
	}
	ownersArguments = abi.Arguments{{Name: "owner1", Type: addressType}, {Name: "owner2", Type: addressType}}
}

// DeploymentDescriptor is everything that determines where the factory deploys an account.
type DeploymentDescriptor struct {
	Factory      common.Address
	Salt         common.Hash
	Owner1       common.Address
	Owner2       common.Address
	BytecodeHash common.Hash
}

func (d DeploymentDescriptor) Validate() error {
	if d.Factory == (common.Address{}) {
		return fmt.Errorf("factory address is required")
	}
	if d.Owner1 == (common.Address{}) || d.Owner2 == (common.Address{}) {
		return fmt.Errorf("both owner addresses are required")
	}
	if d.BytecodeHash == (common.Hash{}) {
		return fmt.Errorf("account bytecode hash is required")
	}
	if _, err := zksync.BytecodeWords(d.BytecodeHash); err != nil {
		return fmt.Errorf("invalid account bytecode hash: %w", err)
	}
	return nil
}

// Owners returns the owners in signing order.
func (d DeploymentDescriptor) Owners() []common.Address {
	return []common.Address{d.Owner1, d.Owner2}
}

// ConstructorArgs is abi.encode(owner1, owner2), the input the factory hands to the deployer.
func (d DeploymentDescriptor) ConstructorArgs() ([]byte, error) {
	packed, err := ownersArguments.Pack(d.Owner1, d.Owner2)
	if err != nil {
		return nil, fmt.Errorf("failed to encode owners: %w", err)
	}
	return packed, nil
}

// Address returns the account address the factory deploys to for this descriptor.
func (d DeploymentDescriptor) Address() (common.Address, error) {
	if err := d.Validate(); err != nil {
		return common.Address{}, err
	}
	input, err := d.ConstructorArgs()
	if err != nil {
		return common.Address{}, err
	}
	return zksync.Create2Address(d.Factory, d.BytecodeHash, d.Salt, input), nil
}
