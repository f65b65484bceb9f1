package testutil

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/Layr-Labs/aa-multisig-go/pkg/aa-bindings/AAFactory"
	"github.com/Layr-Labs/aa-multisig-go/pkg/aa-bindings/IContractDeployer"
	"github.com/Layr-Labs/aa-multisig-go/pkg/clients/zksyncClient"
	"github.com/Layr-Labs/aa-multisig-go/pkg/multisig"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

var ErrInsufficientFunds = errors.New("insufficient funds for gas * price + value")

// MockZkSyncChain is an in-process stand-in for a zkSync node. It decodes submitted
// EIP-712 envelopes, checks authorization the way the account contracts would (ECDSA for
// plain wallets, owner1 || owner2 for multisig accounts), executes value transfers and the
// two deployment paths, and answers eth_call for the factory and the deployer system contract.
//
// It implements zksyncClient.IZkSyncClient and bind.ContractCaller.
type MockZkSyncChain struct {
	mu     sync.Mutex
	logger *zap.Logger

	chainId     *big.Int
	gasPrice    *big.Int
	gasEstimate uint64

	currentBlock uint64
	nonces       map[common.Address]uint64
	balances     map[common.Address]*big.Int
	receipts     map[common.Hash]*types.Receipt

	// factory address -> account bytecode hash
	factories map[common.Address]common.Hash
	// multisig account -> owners in signing order
	accounts map[common.Address][]common.Address

	// DeployOverride, when set, replaces the address of the next deployment.
	DeployOverride *common.Address
	// Submitted holds every accepted transaction in order.
	Submitted []zksync.Transaction712

	factoryAbi  *abi.ABI
	deployerAbi *abi.ABI
}

var _ zksyncClient.IZkSyncClient = (*MockZkSyncChain)(nil)

func NewMockZkSyncChain(chainId int64, logger *zap.Logger) *MockZkSyncChain {
	factoryAbi, err := AAFactory.AAFactoryMetaData.GetAbi()
	if err != nil {
		panic(err)
	}
	deployerAbi, err := IContractDeployer.IContractDeployerMetaData.GetAbi()
	if err != nil {
		panic(err)
	}
	return &MockZkSyncChain{
		logger:       logger,
		chainId:      big.NewInt(chainId),
		gasPrice:     big.NewInt(250_000_000),
		gasEstimate:  400_000,
		currentBlock: 1,
		nonces:       make(map[common.Address]uint64),
		balances:     make(map[common.Address]*big.Int),
		receipts:     make(map[common.Hash]*types.Receipt),
		factories:    make(map[common.Address]common.Hash),
		accounts:     make(map[common.Address][]common.Address),
		factoryAbi:   factoryAbi,
		deployerAbi:  deployerAbi,
	}
}

// SetBalance credits an address, like a rich wallet on a local node.
func (m *MockZkSyncChain) SetBalance(account common.Address, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[account] = new(big.Int).Set(amount)
}

// RegisterFactory makes factory answer aaBytecodeHash without being deployed first.
func (m *MockZkSyncChain) RegisterFactory(factory common.Address, accountBytecodeHash common.Hash) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[factory] = accountBytecodeHash
}

// Owners returns the owners a multisig account was deployed with.
func (m *MockZkSyncChain) Owners(account common.Address) []common.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]common.Address(nil), m.accounts[account]...)
}

func (m *MockZkSyncChain) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(m.chainId), nil
}

func (m *MockZkSyncChain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(m.gasPrice), nil
}

func (m *MockZkSyncChain) EstimateGas(ctx context.Context, msg zksyncClient.CallMsg) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.Value != nil && m.balanceOf(msg.From).Cmp(msg.Value) < 0 {
		return 0, ErrInsufficientFunds
	}
	return m.gasEstimate, nil
}

func (m *MockZkSyncChain) NonceAt(ctx context.Context, account common.Address) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nonces[account], nil
}

func (m *MockZkSyncChain) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return new(big.Int).Set(m.balanceOf(account)), nil
}

func (m *MockZkSyncChain) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	tx, err := zksync.DecodeTransaction712(raw)
	if err != nil {
		return common.Hash{}, err
	}
	digest, err := tx.Digest()
	if err != nil {
		return common.Hash{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if tx.ChainID.Cmp(m.chainId) != 0 {
		return common.Hash{}, fmt.Errorf("invalid chain id %s", tx.ChainID)
	}
	if err := m.authorize(tx, digest); err != nil {
		return common.Hash{}, fmt.Errorf("account validation failed: %w", err)
	}
	if tx.Nonce != m.nonces[tx.From] {
		return common.Hash{}, fmt.Errorf("nonce mismatch: expected %d, got %d", m.nonces[tx.From], tx.Nonce)
	}

	gasUsed := tx.Gas / 2
	fee := new(big.Int).Mul(tx.MaxFeePerGas(), new(big.Int).SetUint64(gasUsed))
	cost := new(big.Int).Add(fee, tx.Value)
	if m.balanceOf(tx.From).Cmp(cost) < 0 {
		return common.Hash{}, ErrInsufficientFunds
	}

	txHash := crypto.Keccak256Hash(raw)
	logs, err := m.execute(tx, txHash)
	if err != nil {
		return common.Hash{}, err
	}

	m.balances[tx.From] = new(big.Int).Sub(m.balanceOf(tx.From), cost)
	if tx.To != nil && tx.Value.Sign() > 0 {
		m.balances[*tx.To] = new(big.Int).Add(m.balanceOf(*tx.To), tx.Value)
	}
	m.nonces[tx.From]++
	m.currentBlock++
	m.Submitted = append(m.Submitted, tx)

	m.receipts[txHash] = &types.Receipt{
		Type:              zksync.EIP712TxType,
		Status:            types.ReceiptStatusSuccessful,
		TxHash:            txHash,
		GasUsed:           gasUsed,
		EffectiveGasPrice: tx.MaxFeePerGas(),
		BlockNumber:       new(big.Int).SetUint64(m.currentBlock),
		Logs:              logs,
	}
	m.logger.Sugar().Debugw("Mock chain accepted transaction", "from", tx.From.Hex(), "nonce", tx.Nonce, "txHash", txHash.Hex())
	return txHash, nil
}

func (m *MockZkSyncChain) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipt, ok := m.receipts[txHash]
	if !ok {
		return nil, fmt.Errorf("unknown transaction %s", txHash.Hex())
	}
	return receipt, nil
}

func (m *MockZkSyncChain) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.factories[contract]; ok || contract == zksync.ContractDeployerAddress {
		return []byte{0x01}, nil
	}
	return nil, nil
}

func (m *MockZkSyncChain) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if call.To == nil || len(call.Data) < 4 {
		return nil, fmt.Errorf("unsupported call")
	}
	if accountHash, ok := m.factories[*call.To]; ok {
		method, err := m.factoryAbi.MethodById(call.Data[:4])
		if err != nil || method.Name != "aaBytecodeHash" {
			return nil, fmt.Errorf("unsupported factory call %x", call.Data[:4])
		}
		return accountHash.Bytes(), nil
	}
	if *call.To == zksync.ContractDeployerAddress {
		method, err := m.deployerAbi.MethodById(call.Data[:4])
		if err != nil || method.Name != "getNewAddressCreate2" {
			return nil, fmt.Errorf("unsupported deployer call %x", call.Data[:4])
		}
		args, err := method.Inputs.Unpack(call.Data[4:])
		if err != nil {
			return nil, err
		}
		addr := zksync.Create2Address(args[0].(common.Address), args[1].([32]byte), args[2].([32]byte), args[3].([]byte))
		return common.LeftPadBytes(addr.Bytes(), 32), nil
	}
	return nil, fmt.Errorf("no contract at %s", call.To.Hex())
}

func (m *MockZkSyncChain) authorize(tx zksync.Transaction712, digest common.Hash) error {
	if owners, ok := m.accounts[tx.From]; ok {
		return multisig.Verify(tx.Meta.CustomSignature, digest, owners)
	}
	signer, err := ownerSigner.RecoverAddress(digest, tx.Meta.CustomSignature)
	if err != nil {
		return err
	}
	if signer != tx.From {
		return fmt.Errorf("signature from %s, sender is %s", signer.Hex(), tx.From.Hex())
	}
	return nil
}

// execute runs the deployment paths the mock understands and returns their logs.
func (m *MockZkSyncChain) execute(tx zksync.Transaction712, txHash common.Hash) ([]*types.Log, error) {
	if tx.To == nil || len(tx.Data) < 4 {
		return nil, nil
	}

	if *tx.To == zksync.ContractDeployerAddress {
		method, err := m.deployerAbi.MethodById(tx.Data[:4])
		if err != nil || method.Name != "create2" {
			return nil, fmt.Errorf("unsupported deployer call %x", tx.Data[:4])
		}
		args, err := method.Inputs.Unpack(tx.Data[4:])
		if err != nil {
			return nil, err
		}
		salt, bytecodeHash, input := common.Hash(args[0].([32]byte)), common.Hash(args[1].([32]byte)), args[2].([]byte)
		if !m.published(tx, bytecodeHash) {
			return nil, fmt.Errorf("bytecode %s is not among the factory dependencies", bytecodeHash.Hex())
		}
		if len(input) < 32 {
			return nil, fmt.Errorf("factory constructor input too short")
		}
		addr := m.deployAddress(zksync.Create2Address(tx.From, bytecodeHash, salt, input))
		m.factories[addr] = common.BytesToHash(input[:32])
		return []*types.Log{m.deployedLog(tx.From, bytecodeHash, addr, txHash)}, nil
	}

	if accountHash, ok := m.factories[*tx.To]; ok {
		method, err := m.factoryAbi.MethodById(tx.Data[:4])
		if err != nil || method.Name != "deployAccount" {
			return nil, fmt.Errorf("unsupported factory call %x", tx.Data[:4])
		}
		args, err := method.Inputs.Unpack(tx.Data[4:])
		if err != nil {
			return nil, err
		}
		desc := multisig.DeploymentDescriptor{
			Factory:      *tx.To,
			Salt:         args[0].([32]byte),
			Owner1:       args[1].(common.Address),
			Owner2:       args[2].(common.Address),
			BytecodeHash: accountHash,
		}
		derived, err := desc.Address()
		if err != nil {
			return nil, err
		}
		if _, exists := m.accounts[derived]; exists {
			return nil, fmt.Errorf("account %s already deployed", derived.Hex())
		}
		addr := m.deployAddress(derived)
		m.accounts[addr] = desc.Owners()
		return []*types.Log{m.deployedLog(*tx.To, accountHash, addr, txHash)}, nil
	}
	return nil, nil
}

func (m *MockZkSyncChain) published(tx zksync.Transaction712, bytecodeHash common.Hash) bool {
	for _, dep := range tx.Meta.FactoryDeps {
		if hash, err := zksync.HashBytecode(dep); err == nil && hash == bytecodeHash {
			return true
		}
	}
	return false
}

func (m *MockZkSyncChain) deployAddress(derived common.Address) common.Address {
	if m.DeployOverride != nil {
		addr := *m.DeployOverride
		m.DeployOverride = nil
		return addr
	}
	return derived
}

func (m *MockZkSyncChain) deployedLog(deployer common.Address, bytecodeHash common.Hash, addr common.Address, txHash common.Hash) *types.Log {
	return &types.Log{
		Address: zksync.ContractDeployerAddress,
		Topics: []common.Hash{
			m.deployerAbi.Events["ContractDeployed"].ID,
			common.BytesToHash(deployer.Bytes()),
			bytecodeHash,
			common.BytesToHash(addr.Bytes()),
		},
		TxHash: txHash,
	}
}

func (m *MockZkSyncChain) balanceOf(account common.Address) *big.Int {
	if b, ok := m.balances[account]; ok {
		return b
	}
	return new(big.Int)
}
