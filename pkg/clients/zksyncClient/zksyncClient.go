package zksyncClient

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	goEthereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultPollInterval = 500 * time.Millisecond

// CallMsg is a call or gas estimation request that may carry rollup metadata.
type CallMsg struct {
	From            common.Address
	To              *common.Address
	Value           *big.Int
	Data            []byte
	GasPerPubdata   *big.Int
	FactoryDeps     [][]byte
	PaymasterParams *zksync.PaymasterParams
}

// CallMsgFromTransaction builds the estimation request for tx as sent by from.
func CallMsgFromTransaction(tx zksync.Transaction712, from common.Address) CallMsg {
	cpy := tx.Copy()
	return CallMsg{
		From:            from,
		To:              cpy.To,
		Value:           cpy.Value,
		Data:            cpy.Data,
		GasPerPubdata:   cpy.GasPerPubdata(),
		FactoryDeps:     cpy.Meta.FactoryDeps,
		PaymasterParams: cpy.Meta.PaymasterParams,
	}
}

// IZkSyncClient is the node surface the assembler and submitter depend on.
type IZkSyncClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg CallMsg) (uint64, error)
	// NonceAt returns the transaction count of account at the latest block.
	NonceAt(ctx context.Context, account common.Address) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	// WaitMined polls until the receipt for txHash is available or ctx is done.
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type ZkSyncClientConfig struct {
	RpcUrl string
	// RequestsPerSecond limits calls against public endpoints. Zero disables limiting.
	RequestsPerSecond float64
	PollInterval      time.Duration
}

type ZkSyncClient struct {
	logger       *zap.Logger
	ethClient    *ethclient.Client
	rpcClient    *rpc.Client
	limiter      *rate.Limiter
	pollInterval time.Duration
}

var _ IZkSyncClient = (*ZkSyncClient)(nil)

func NewZkSyncClient(cfg *ZkSyncClientConfig, logger *zap.Logger) (*ZkSyncClient, error) {
	if cfg.RpcUrl == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	ethereumClient := ethereum.NewEthereumClient(&ethereum.EthereumClientConfig{
		BaseUrl:   cfg.RpcUrl,
		BlockType: ethereum.BlockType_Latest,
	}, logger)

	ethClient, err := ethereumClient.GetEthereumContractCaller()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.RpcUrl, err)
	}
	return NewZkSyncClientFromEthClient(ethClient, cfg, logger), nil
}

func NewZkSyncClientFromEthClient(ethClient *ethclient.Client, cfg *ZkSyncClientConfig, logger *zap.Logger) *ZkSyncClient {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &ZkSyncClient{
		logger:       logger,
		ethClient:    ethClient,
		rpcClient:    ethClient.Client(),
		limiter:      limiter,
		pollInterval: pollInterval,
	}
}

// ContractBackend exposes the connection for abigen bindings.
func (c *ZkSyncClient) ContractBackend() *ethclient.Client {
	return c.ethClient
}

func (c *ZkSyncClient) ChainID(ctx context.Context) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	chainId, err := c.ethClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	return chainId, nil
}

func (c *ZkSyncClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	gasPrice, err := c.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	return gasPrice, nil
}

func (c *ZkSyncClient) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	var estimate hexutil.Uint64
	if err := c.rpcClient.CallContext(ctx, &estimate, "eth_estimateGas", toCallArg(msg)); err != nil {
		return 0, fmt.Errorf("failed to estimate gas: %w", err)
	}
	return uint64(estimate), nil
}

func (c *ZkSyncClient) NonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	nonce, err := c.ethClient.NonceAt(ctx, account, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce for %s: %w", account.Hex(), err)
	}
	return nonce, nil
}

func (c *ZkSyncClient) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	balance, err := c.ethClient.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for %s: %w", account.Hex(), err)
	}
	return balance, nil
}

// SendRawTransaction broadcasts a serialized envelope. ethclient cannot decode type 0x71
// transactions, so the raw bytes go straight to eth_sendRawTransaction.
func (c *ZkSyncClient) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return common.Hash{}, err
	}
	var txHash common.Hash
	if err := c.rpcClient.CallContext(ctx, &txHash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send raw transaction: %w", err)
	}
	return txHash, nil
}

// WaitMined polls for the receipt until it exists. Only a missing receipt is retried; any
// other node error ends the wait.
func (c *ZkSyncClient) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		receipt, err := c.ethClient.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil && receipt != nil:
			return receipt, nil
		case err != nil && !errors.Is(err, goEthereum.NotFound):
			return nil, fmt.Errorf("failed to get receipt for transaction %s: %w", txHash.Hex(), err)
		}
		c.logger.Sugar().Debugw("Receipt not available yet", "txHash", txHash.Hex())

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timed out waiting for transaction %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

type eip712MetaArg struct {
	GasPerPubdata   *hexutil.Big  `json:"gasPerPubdata,omitempty"`
	FactoryDeps     [][]int       `json:"factoryDeps,omitempty"`
	PaymasterParams *paymasterArg `json:"paymasterParams,omitempty"`
}

type paymasterArg struct {
	Paymaster      common.Address `json:"paymaster"`
	PaymasterInput []int          `json:"paymasterInput"`
}

type callArg struct {
	From       common.Address  `json:"from"`
	To         *common.Address `json:"to,omitempty"`
	Value      *hexutil.Big    `json:"value,omitempty"`
	Data       hexutil.Bytes   `json:"data,omitempty"`
	Type       hexutil.Uint64  `json:"type"`
	Eip712Meta *eip712MetaArg  `json:"eip712Meta,omitempty"`
}

// toCallArg encodes byte arrays inside eip712Meta as JSON number arrays, the form the
// node deserializes them from.
func toCallArg(msg CallMsg) callArg {
	arg := callArg{
		From: msg.From,
		To:   msg.To,
		Data: msg.Data,
		Type: hexutil.Uint64(zksync.EIP712TxType),
		Eip712Meta: &eip712MetaArg{
			GasPerPubdata: (*hexutil.Big)(big.NewInt(zksync.DefaultGasPerPubdataLimit)),
		},
	}
	if msg.Value != nil {
		arg.Value = (*hexutil.Big)(msg.Value)
	}
	if msg.GasPerPubdata != nil && msg.GasPerPubdata.Sign() > 0 {
		arg.Eip712Meta.GasPerPubdata = (*hexutil.Big)(msg.GasPerPubdata)
	}
	for _, dep := range msg.FactoryDeps {
		arg.Eip712Meta.FactoryDeps = append(arg.Eip712Meta.FactoryDeps, byteArray(dep))
	}
	if msg.PaymasterParams != nil {
		arg.Eip712Meta.PaymasterParams = &paymasterArg{
			Paymaster:      msg.PaymasterParams.Paymaster,
			PaymasterInput: byteArray(msg.PaymasterParams.PaymasterInput),
		}
	}
	return arg
}

func byteArray(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}
