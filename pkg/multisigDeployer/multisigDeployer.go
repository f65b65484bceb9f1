// Package multisigDeployer drives the whole lifecycle of a two-owner account: deploying
// the factory, deploying the account, funding it and sending co-signed transactions from it.
package multisigDeployer

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/aa-multisig-go/pkg/artifacts"
	"github.com/Layr-Labs/aa-multisig-go/pkg/assembler"
	"github.com/Layr-Labs/aa-multisig-go/pkg/clients/zksyncClient"
	"github.com/Layr-Labs/aa-multisig-go/pkg/contractCaller"
	"github.com/Layr-Labs/aa-multisig-go/pkg/multisig"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence"
	"github.com/Layr-Labs/aa-multisig-go/pkg/submitter"
	"github.com/Layr-Labs/aa-multisig-go/pkg/transactionSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

var (
	// ErrAddressMismatch means the chain deployed to a different address than the one derived locally.
	ErrAddressMismatch = errors.New("deployed address does not match derived address")
	// ErrNonceNotAdvanced means a confirmed multisig transaction did not bump the account nonce by one.
	ErrNonceNotAdvanced = errors.New("account nonce did not advance by one")
	// ErrNoFunder means a transaction was requested from a deployer built without a funding wallet.
	ErrNoFunder = errors.New("no funding wallet configured")
)

type MultisigDeployer struct {
	network   zksyncClient.IZkSyncClient
	caller    contractCaller.IContractCaller
	funder    transactionSigner.ITransactionSigner
	store     persistence.IDeploymentStore
	assembler *assembler.Assembler
	submitter *submitter.Submitter
	logger    *zap.Logger
}

// NewMultisigDeployer wires the components. funder pays for every deployment and funding
// transfer; it may be nil when only Describe and PredictAccountAddress are used. store may
// be nil, in which case nothing is recorded.
func NewMultisigDeployer(
	network zksyncClient.IZkSyncClient,
	caller contractCaller.IContractCaller,
	funder transactionSigner.ITransactionSigner,
	store persistence.IDeploymentStore,
	logger *zap.Logger,
) *MultisigDeployer {
	return &MultisigDeployer{
		network:   network,
		caller:    caller,
		funder:    funder,
		store:     store,
		assembler: assembler.NewAssembler(network, logger),
		submitter: submitter.NewSubmitter(network, logger),
		logger:    logger,
	}
}

type FactoryDeployment struct {
	Address             common.Address
	BytecodeHash        common.Hash
	AccountBytecodeHash common.Hash
	TxHash              common.Hash
	Receipt             *types.Receipt
}

type AccountDeployment struct {
	Descriptor multisig.DeploymentDescriptor
	Address    common.Address
	TxHash     common.Hash
	Receipt    *types.Receipt
}

// Execution is the outcome of a co-signed transaction sent from a multisig account.
type Execution struct {
	Account       common.Address
	TxHash        common.Hash
	Receipt       *types.Receipt
	Fee           *big.Int
	NonceBefore   uint64
	NonceAfter    uint64
	BalanceBefore *big.Int
	BalanceAfter  *big.Int
}

func (d *MultisigDeployer) FunderAddress() common.Address {
	if d.funder == nil {
		return common.Address{}
	}
	return d.funder.GetFromAddress()
}

// DeployFactory deploys factoryArtifact through the ContractDeployer system contract with
// the account bytecode hash as its only constructor argument.
func (d *MultisigDeployer) DeployFactory(ctx context.Context, factoryArtifact, accountArtifact *artifacts.Artifact, salt common.Hash) (*FactoryDeployment, error) {
	if factoryArtifact == nil || accountArtifact == nil {
		return nil, fmt.Errorf("factory and account artifacts are required")
	}
	if d.funder == nil {
		return nil, ErrNoFunder
	}

	deployment, err := d.caller.PopulateFactoryDeployment(salt, factoryArtifact, accountArtifact)
	if err != nil {
		return nil, fmt.Errorf("failed to populate factory deployment: %w", err)
	}
	deployer := d.funder.GetFromAddress()
	expected := zksync.Create2Address(deployer, deployment.BytecodeHash, deployment.Salt, deployment.ConstructorInput)

	d.logger.Sugar().Infow("Deploying account factory",
		"contract", factoryArtifact.ContractName,
		"deployer", deployer.Hex(),
		"expectedAddress", expected.Hex(),
		"accountBytecodeHash", accountArtifact.BytecodeHash().Hex(),
	)

	receipt, txHash, err := d.send(ctx, deployment.Call, d.funder, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy factory: %w", err)
	}

	if err := d.expectDeployed(receipt, deployer, deployment.BytecodeHash, expected); err != nil {
		return nil, err
	}

	result := &FactoryDeployment{
		Address:             expected,
		BytecodeHash:        deployment.BytecodeHash,
		AccountBytecodeHash: accountArtifact.BytecodeHash(),
		TxHash:              txHash,
		Receipt:             receipt,
	}
	if d.store != nil {
		chainId, err := d.network.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain id: %w", err)
		}
		record := persistence.NewFactoryRecord(chainId.Uint64(), expected, deployer, salt,
			result.BytecodeHash, result.AccountBytecodeHash, txHash)
		if err := d.store.SaveFactory(record); err != nil {
			return nil, fmt.Errorf("failed to record factory %s: %w", expected.Hex(), err)
		}
	}

	d.logger.Sugar().Infow("Account factory deployed", "address", expected.Hex(), "txHash", txHash.Hex())
	return result, nil
}

// Describe reads the account bytecode hash from the factory and builds the descriptor for
// the given owners.
func (d *MultisigDeployer) Describe(ctx context.Context, factory common.Address, salt common.Hash, owner1, owner2 common.Address) (multisig.DeploymentDescriptor, error) {
	bytecodeHash, err := d.caller.GetAABytecodeHash(ctx, factory)
	if err != nil {
		return multisig.DeploymentDescriptor{}, fmt.Errorf("failed to read account bytecode hash from factory %s: %w", factory.Hex(), err)
	}
	desc := multisig.DeploymentDescriptor{
		Factory:      factory,
		Salt:         salt,
		Owner1:       owner1,
		Owner2:       owner2,
		BytecodeHash: bytecodeHash,
	}
	if err := desc.Validate(); err != nil {
		return multisig.DeploymentDescriptor{}, err
	}
	return desc, nil
}

// PredictAccountAddress derives the account address locally and checks it against the
// ContractDeployer system contract.
func (d *MultisigDeployer) PredictAccountAddress(ctx context.Context, factory common.Address, salt common.Hash, owner1, owner2 common.Address) (common.Address, error) {
	desc, err := d.Describe(ctx, factory, salt, owner1, owner2)
	if err != nil {
		return common.Address{}, err
	}
	predicted, err := desc.Address()
	if err != nil {
		return common.Address{}, err
	}

	input, err := desc.ConstructorArgs()
	if err != nil {
		return common.Address{}, err
	}
	onChain, err := d.caller.GetNewAddressCreate2(ctx, factory, desc.BytecodeHash, salt, input)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to query deployer for create2 address: %w", err)
	}
	if onChain != predicted {
		return common.Address{}, fmt.Errorf("%w: deployer reports %s, derived %s", ErrAddressMismatch, onChain.Hex(), predicted.Hex())
	}
	return predicted, nil
}

// DeployAccount calls deployAccount on the factory and returns the account address once the
// deployment is confirmed and matches the derived address.
func (d *MultisigDeployer) DeployAccount(ctx context.Context, factory common.Address, salt common.Hash, owner1, owner2 common.Address) (*AccountDeployment, error) {
	if d.funder == nil {
		return nil, ErrNoFunder
	}
	desc, err := d.Describe(ctx, factory, salt, owner1, owner2)
	if err != nil {
		return nil, err
	}
	expected, err := desc.Address()
	if err != nil {
		return nil, err
	}

	call, err := d.caller.PopulateDeployAccount(factory, salt, owner1, owner2)
	if err != nil {
		return nil, fmt.Errorf("failed to populate deployAccount: %w", err)
	}

	d.logger.Sugar().Infow("Deploying multisig account",
		"factory", factory.Hex(),
		"owner1", owner1.Hex(),
		"owner2", owner2.Hex(),
		"salt", salt.Hex(),
		"expectedAddress", expected.Hex(),
	)

	receipt, txHash, err := d.send(ctx, call, d.funder, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy account: %w", err)
	}
	if err := d.expectDeployed(receipt, factory, desc.BytecodeHash, expected); err != nil {
		return nil, err
	}

	if d.store != nil {
		chainId, err := d.network.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain id: %w", err)
		}
		record := persistence.NewAccountRecord(chainId.Uint64(), expected, factory, owner1, owner2, salt, desc.BytecodeHash, txHash)
		if err := d.store.SaveAccount(record); err != nil {
			return nil, fmt.Errorf("failed to record account %s: %w", expected.Hex(), err)
		}
	}

	d.logger.Sugar().Infow("Multisig account deployed", "address", expected.Hex(), "txHash", txHash.Hex())
	return &AccountDeployment{
		Descriptor: desc,
		Address:    expected,
		TxHash:     txHash,
		Receipt:    receipt,
	}, nil
}

// Fund transfers amount of the native token from the funding wallet to to.
func (d *MultisigDeployer) Fund(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("funding amount must be positive")
	}
	if d.funder == nil {
		return nil, ErrNoFunder
	}
	recipient := to
	receipt, txHash, err := d.send(ctx, assembler.Call{To: &recipient, Value: amount}, d.funder, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fund %s: %w", to.Hex(), err)
	}
	d.logger.Sugar().Infow("Funded address", "to", to.Hex(), "amount", amount.String(), "txHash", txHash.Hex())
	return receipt, nil
}

// ExecuteFromMultisig sends call from account with both owners co-signing, in owner order.
// Gas is estimated as the funding wallet, since the account's own validation needs the
// signatures that are not there yet.
func (d *MultisigDeployer) ExecuteFromMultisig(ctx context.Context, account common.Address, call assembler.Call, owners ...ownerSigner.IOwnerSigner) (*Execution, error) {
	if d.funder == nil {
		return nil, ErrNoFunder
	}
	coSigner, err := multisig.NewCoSigner(account, d.logger, owners...)
	if err != nil {
		return nil, err
	}

	nonceBefore, err := d.network.NonceAt(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get account nonce: %w", err)
	}
	balanceBefore, err := d.network.BalanceAt(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get account balance: %w", err)
	}
	d.logger.Sugar().Infow("Multisig state before transaction",
		"account", account.Hex(),
		"nonce", nonceBefore,
		"balance", balanceBefore.String(),
	)

	receipt, txHash, err := d.send(ctx, call, coSigner, &assembler.AssembleOptions{EstimateFrom: d.funder.GetFromAddress()})
	if err != nil {
		return nil, fmt.Errorf("failed to execute multisig transaction: %w", err)
	}

	nonceAfter, err := d.network.NonceAt(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get account nonce: %w", err)
	}
	balanceAfter, err := d.network.BalanceAt(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get account balance: %w", err)
	}

	execution := &Execution{
		Account:       account,
		TxHash:        txHash,
		Receipt:       receipt,
		Fee:           receiptFee(receipt),
		NonceBefore:   nonceBefore,
		NonceAfter:    nonceAfter,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
	}
	d.logger.Sugar().Infow("Multisig state after transaction",
		"account", account.Hex(),
		"nonce", nonceAfter,
		"balance", balanceAfter.String(),
		"fee", execution.Fee.String(),
	)
	if nonceAfter != nonceBefore+1 {
		return execution, fmt.Errorf("%w: %d -> %d", ErrNonceNotAdvanced, nonceBefore, nonceAfter)
	}
	return execution, nil
}

// send assembles, signs, submits and waits for one transaction from signer.
func (d *MultisigDeployer) send(ctx context.Context, call assembler.Call, signer transactionSigner.ITransactionSigner, opts *assembler.AssembleOptions) (*types.Receipt, common.Hash, error) {
	tx, err := d.assembler.Assemble(ctx, signer.GetFromAddress(), call, opts)
	if err != nil {
		return nil, common.Hash{}, err
	}
	sub, err := d.submitter.SignAndSubmit(ctx, tx, signer)
	if err != nil {
		return nil, sub.TxHash, err
	}
	return sub.Receipt, sub.TxHash, nil
}

func (d *MultisigDeployer) expectDeployed(receipt *types.Receipt, deployer common.Address, bytecodeHash common.Hash, expected common.Address) error {
	deployed, err := d.caller.ParseDeployedContracts(receipt)
	if err != nil {
		return err
	}
	for _, c := range deployed {
		if c.Deployer == deployer && c.BytecodeHash == bytecodeHash {
			if c.Address != expected {
				return fmt.Errorf("%w: chain deployed %s, derived %s", ErrAddressMismatch, c.Address.Hex(), expected.Hex())
			}
			return nil
		}
	}
	return fmt.Errorf("no ContractDeployed event from %s with bytecode hash %s in transaction %s",
		deployer.Hex(), bytecodeHash.Hex(), receipt.TxHash.Hex())
}

// receiptFee is gasUsed * effectiveGasPrice, or nil when the node does not report a price.
func receiptFee(receipt *types.Receipt) *big.Int {
	if receipt == nil || receipt.EffectiveGasPrice == nil {
		return nil
	}
	return new(big.Int).Mul(receipt.EffectiveGasPrice, new(big.Int).SetUint64(receipt.GasUsed))
}
