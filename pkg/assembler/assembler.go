package assembler

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/aa-multisig-go/pkg/clients/zksyncClient"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// gasBufferPercent is added on top of every node estimate.
const gasBufferPercent = 20

// INetworkState is the part of the node the assembler reads.
type INetworkState interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg zksyncClient.CallMsg) (uint64, error)
	NonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// Call is the intent of a transaction before any network state is applied.
type Call struct {
	To          *common.Address
	Data        []byte
	Value       *big.Int
	FactoryDeps [][]byte
	Paymaster   *zksync.PaymasterParams
}

type AssembleOptions struct {
	// EstimateFrom simulates the call as another sender. Accounts whose validation needs a
	// signature cannot always be estimated as themselves.
	EstimateFrom common.Address
	// GasLimit skips estimation when non-zero.
	GasLimit uint64
}

type Assembler struct {
	network INetworkState
	logger  *zap.Logger
}

func NewAssembler(network INetworkState, logger *zap.Logger) *Assembler {
	return &Assembler{
		network: network,
		logger:  logger,
	}
}

// Assemble returns a fully populated unsigned transaction from sender. Network errors are
// returned as is, wrapped with the step that failed.
func (a *Assembler) Assemble(ctx context.Context, from common.Address, call Call, opts *AssembleOptions) (zksync.Transaction712, error) {
	if from == (common.Address{}) {
		return zksync.Transaction712{}, fmt.Errorf("sender address is required")
	}
	if opts == nil {
		opts = &AssembleOptions{}
	}

	tx := zksync.NewTransaction712(from, call.To, call.Value, call.Data)
	if len(call.FactoryDeps) > 0 {
		tx = tx.WithFactoryDeps(call.FactoryDeps...)
	}
	if call.Paymaster != nil {
		tx = tx.WithPaymaster(call.Paymaster)
	}

	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		estimateFrom := from
		if opts.EstimateFrom != (common.Address{}) {
			estimateFrom = opts.EstimateFrom
		}
		estimate, err := a.network.EstimateGas(ctx, zksyncClient.CallMsgFromTransaction(tx, estimateFrom))
		if err != nil {
			return zksync.Transaction712{}, fmt.Errorf("failed to estimate gas: %w", err)
		}
		gasLimit = addGasBuffer(estimate)
	}

	gasPrice, err := a.network.SuggestGasPrice(ctx)
	if err != nil {
		return zksync.Transaction712{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	chainId, err := a.network.ChainID(ctx)
	if err != nil {
		return zksync.Transaction712{}, fmt.Errorf("failed to get chain id: %w", err)
	}

	nonce, err := a.network.NonceAt(ctx, from)
	if err != nil {
		return zksync.Transaction712{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	a.logger.Sugar().Infow("Assembled transaction",
		"from", from.Hex(),
		"nonce", nonce,
		"gasLimit", gasLimit,
		"gasPrice", gasPrice.String(),
		"chainId", chainId.String(),
	)

	return tx.
		WithGasLimit(gasLimit).
		WithGasPrice(gasPrice).
		WithChainID(chainId).
		WithNonce(nonce), nil
}

func addGasBuffer(gas uint64) uint64 {
	return gas + gas*gasBufferPercent/100
}
