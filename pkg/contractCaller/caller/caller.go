package caller

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/aa-multisig-go/pkg/aa-bindings/AAFactory"
	"github.com/Layr-Labs/aa-multisig-go/pkg/aa-bindings/IContractDeployer"
	"github.com/Layr-Labs/aa-multisig-go/pkg/artifacts"
	"github.com/Layr-Labs/aa-multisig-go/pkg/assembler"
	"github.com/Layr-Labs/aa-multisig-go/pkg/contractCaller"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type ContractCaller struct {
	backend bind.ContractCaller
	logger  *zap.Logger

	factoryAbi       *abi.ABI
	deployerAbi      *abi.ABI
	deployerCaller   *IContractDeployer.IContractDeployerCaller
	deployerFilterer *IContractDeployer.IContractDeployerFilterer
}

var _ contractCaller.IContractCaller = (*ContractCaller)(nil)

func NewContractCaller(
	backend bind.ContractCaller,
	logger *zap.Logger,
) (*ContractCaller, error) {
	factoryAbi, err := AAFactory.AAFactoryMetaData.GetAbi()
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory abi: %w", err)
	}
	deployerAbi, err := IContractDeployer.IContractDeployerMetaData.GetAbi()
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract deployer abi: %w", err)
	}

	deployerCaller, err := IContractDeployer.NewIContractDeployerCaller(zksync.ContractDeployerAddress, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract deployer instance: %w", err)
	}
	// only used to unpack receipt logs
	deployerFilterer, err := IContractDeployer.NewIContractDeployerFilterer(zksync.ContractDeployerAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract deployer filterer: %w", err)
	}

	return &ContractCaller{
		backend:          backend,
		logger:           logger,
		factoryAbi:       factoryAbi,
		deployerAbi:      deployerAbi,
		deployerCaller:   deployerCaller,
		deployerFilterer: deployerFilterer,
	}, nil
}

func (cc *ContractCaller) GetAABytecodeHash(ctx context.Context, factory common.Address) (common.Hash, error) {
	aaFactory, err := AAFactory.NewAAFactoryCaller(factory, cc.backend)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "failed to create factory instance at %s", factory.Hex())
	}

	hash, err := aaFactory.AaBytecodeHash(&bind.CallOpts{Context: ctx})
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "failed to get account bytecode hash from factory %s", factory.Hex())
	}
	return common.Hash(hash), nil
}

func (cc *ContractCaller) GetNewAddressCreate2(
	ctx context.Context,
	sender common.Address,
	bytecodeHash common.Hash,
	salt common.Hash,
	input []byte,
) (common.Address, error) {
	addr, err := cc.deployerCaller.GetNewAddressCreate2(&bind.CallOpts{Context: ctx}, sender, bytecodeHash, salt, input)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to get create2 address from contract deployer")
	}
	return addr, nil
}

func (cc *ContractCaller) PopulateDeployAccount(
	factory common.Address,
	salt common.Hash,
	owner1 common.Address,
	owner2 common.Address,
) (assembler.Call, error) {
	data, err := cc.factoryAbi.Pack("deployAccount", salt, owner1, owner2)
	if err != nil {
		return assembler.Call{}, errors.Wrap(err, "failed to pack deployAccount")
	}

	cc.logger.Sugar().Debugw("Populated deployAccount",
		"factory", factory.Hex(),
		"salt", salt.Hex(),
		"owner1", owner1.Hex(),
		"owner2", owner2.Hex(),
	)
	to := factory
	return assembler.Call{To: &to, Data: data}, nil
}

func (cc *ContractCaller) PopulateFactoryDeployment(
	salt common.Hash,
	factoryArtifact *artifacts.Artifact,
	accountArtifact *artifacts.Artifact,
) (*contractCaller.FactoryDeployment, error) {
	accountHash := accountArtifact.BytecodeHash()
	constructorInput, err := factoryArtifact.ABI.Pack("", accountHash)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s constructor", factoryArtifact.ContractName)
	}

	factoryHash := factoryArtifact.BytecodeHash()
	data, err := cc.deployerAbi.Pack("create2", salt, factoryHash, constructorInput)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack create2")
	}

	to := zksync.ContractDeployerAddress
	return &contractCaller.FactoryDeployment{
		Call: assembler.Call{
			To:   &to,
			Data: data,
			// the deployed bytecode itself must be published along with its dependencies
			FactoryDeps: [][]byte{factoryArtifact.Bytecode, accountArtifact.Bytecode},
		},
		Salt:             salt,
		BytecodeHash:     factoryHash,
		ConstructorInput: constructorInput,
	}, nil
}

func (cc *ContractCaller) ParseDeployedContracts(receipt *ethereumTypes.Receipt) ([]contractCaller.DeployedContract, error) {
	eventId := cc.deployerAbi.Events["ContractDeployed"].ID

	var deployed []contractCaller.DeployedContract
	for _, log := range receipt.Logs {
		if log.Address != zksync.ContractDeployerAddress || len(log.Topics) == 0 || log.Topics[0] != eventId {
			continue
		}
		event, err := cc.deployerFilterer.ParseContractDeployed(*log)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse ContractDeployed log %d", log.Index)
		}
		deployed = append(deployed, contractCaller.DeployedContract{
			Deployer:     event.DeployerAddress,
			BytecodeHash: common.Hash(event.BytecodeHash),
			Address:      event.ContractAddress,
		})
	}
	return deployed, nil
}
