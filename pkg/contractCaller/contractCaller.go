package contractCaller

import (
	"context"

	"github.com/Layr-Labs/aa-multisig-go/pkg/artifacts"
	"github.com/Layr-Labs/aa-multisig-go/pkg/assembler"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
)

// FactoryDeployment is a populated ContractDeployer.create2 call plus what is needed to
// derive the resulting address.
type FactoryDeployment struct {
	Call             assembler.Call
	Salt             common.Hash
	BytecodeHash     common.Hash
	ConstructorInput []byte
}

// DeployedContract is one ContractDeployed event from a receipt.
type DeployedContract struct {
	Deployer     common.Address
	BytecodeHash common.Hash
	Address      common.Address
}

type IContractCaller interface {
	// GetAABytecodeHash reads the account bytecode hash the factory deploys.
	GetAABytecodeHash(ctx context.Context, factory common.Address) (common.Hash, error)

	// GetNewAddressCreate2 asks the deployer system contract for a CREATE2 address.
	GetNewAddressCreate2(
		ctx context.Context,
		sender common.Address,
		bytecodeHash common.Hash,
		salt common.Hash,
		input []byte,
	) (common.Address, error)

	PopulateDeployAccount(
		factory common.Address,
		salt common.Hash,
		owner1 common.Address,
		owner2 common.Address,
	) (assembler.Call, error)

	// PopulateFactoryDeployment builds the create2 call deploying factoryArtifact with the
	// account bytecode hash as constructor argument and the account bytecode as a dependency.
	PopulateFactoryDeployment(
		salt common.Hash,
		factoryArtifact *artifacts.Artifact,
		accountArtifact *artifacts.Artifact,
	) (*FactoryDeployment, error)

	// ParseDeployedContracts extracts ContractDeployed events in log order.
	ParseDeployedContracts(receipt *ethereumTypes.Receipt) ([]DeployedContract, error)
}
