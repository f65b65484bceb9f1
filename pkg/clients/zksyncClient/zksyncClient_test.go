package zksyncClient

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Layr-Labs/aa-multisig-go/pkg/logger"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode answers a fixed set of JSON-RPC methods and records what it received.
type fakeNode struct {
	mu             sync.Mutex
	receiptPolls   int
	receiptError   string
	estimateParams map[string]interface{}
	rawTx          string
}

func (f *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var result interface{}
	switch req.Method {
	case "eth_chainId":
		result = "0x104"
	case "eth_gasPrice":
		result = "0xee6b280"
	case "eth_estimateGas":
		_ = json.Unmarshal(req.Params[0], &f.estimateParams)
		result = "0x2dc6c0"
	case "eth_getTransactionCount":
		result = "0x1"
	case "eth_getBalance":
		result = "0x1c6bf52634000"
	case "eth_sendRawTransaction":
		_ = json.Unmarshal(req.Params[0], &f.rawTx)
		result = "0x1111111111111111111111111111111111111111111111111111111111111111"
	case "eth_getTransactionReceipt":
		f.receiptPolls++
		if f.receiptError != "" {
			writeRPCError(w, req.ID, -32000, f.receiptError)
			return
		}
		if f.receiptPolls < 2 {
			result = nil
			break
		}
		result = map[string]interface{}{
			"type":              "0x71",
			"status":            "0x1",
			"cumulativeGasUsed": "0x0",
			"logsBloom":         "0x" + strings.Repeat("00", 256),
			"logs":              []interface{}{},
			"transactionHash":   "0x1111111111111111111111111111111111111111111111111111111111111111",
			"contractAddress":   nil,
			"gasUsed":           "0x30d40",
			"blockHash":         "0x2222222222222222222222222222222222222222222222222222222222222222",
			"blockNumber":       "0x5",
			"transactionIndex":  "0x0",
		}
	default:
		writeRPCError(w, req.ID, -32601, "method not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"result":  result,
	})
}

func writeRPCError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   map[string]interface{}{"code": code, "message": message},
	})
}

func newTestClient(t *testing.T) (*ZkSyncClient, *fakeNode) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	node := &fakeNode{}
	server := httptest.NewServer(node)
	t.Cleanup(server.Close)

	rpcClient, err := rpc.DialContext(context.Background(), server.URL)
	require.NoError(t, err)
	t.Cleanup(rpcClient.Close)

	client := NewZkSyncClientFromEthClient(ethclient.NewClient(rpcClient), &ZkSyncClientConfig{
		RpcUrl:       server.URL,
		PollInterval: 10 * time.Millisecond,
	}, l)
	return client, node
}

func Test_ZkSyncClient(t *testing.T) {
	ctx := context.Background()
	account := common.HexToAddress("0x36615Cf349d7F6344891B1e7CA7C72883F5dc049")

	t.Run("Should read chain state", func(t *testing.T) {
		client, _ := newTestClient(t)

		chainId, err := client.ChainID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(260), chainId.Int64())

		gasPrice, err := client.SuggestGasPrice(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(250_000_000), gasPrice.Int64())

		nonce, err := client.NonceAt(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), nonce)

		balance, err := client.BalanceAt(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, "500000000000000", balance.String())
	})

	t.Run("Should send rollup metadata with gas estimation", func(t *testing.T) {
		client, node := newTestClient(t)
		to := common.HexToAddress("0x0000000000000000000000000000000000008006")

		estimate, err := client.EstimateGas(ctx, CallMsg{
			From:        account,
			To:          &to,
			Data:        []byte{0x3c, 0xda, 0x33, 0x51},
			FactoryDeps: [][]byte{{0x01, 0x02}},
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(3_000_000), estimate)

		assert.Equal(t, "0x71", node.estimateParams["type"])
		meta, ok := node.estimateParams["eip712Meta"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "0xc350", meta["gasPerPubdata"])
		assert.Equal(t, []interface{}{[]interface{}{float64(1), float64(2)}}, meta["factoryDeps"])
	})

	t.Run("Should broadcast raw bytes and wait for the receipt", func(t *testing.T) {
		client, node := newTestClient(t)

		txHash, err := client.SendRawTransaction(ctx, []byte{zksync.EIP712TxType, 0xc0})
		require.NoError(t, err)
		assert.Equal(t, "0x71c0", node.rawTx)

		receipt, err := client.WaitMined(ctx, txHash)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), receipt.Status)
		assert.Equal(t, uint64(200_000), receipt.GasUsed)
		assert.Equal(t, int64(5), receipt.BlockNumber.Int64())
		assert.GreaterOrEqual(t, node.receiptPolls, 2)
	})

	t.Run("Should return node errors instead of polling on", func(t *testing.T) {
		client, node := newTestClient(t)
		node.receiptError = "node is broken"

		deadline, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		_, err := client.WaitMined(deadline, common.HexToHash("0x01"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "node is broken")
		assert.NotErrorIs(t, err, context.DeadlineExceeded)

		node.mu.Lock()
		defer node.mu.Unlock()
		assert.Equal(t, 1, node.receiptPolls)
	})

	t.Run("Should stop waiting when the context ends", func(t *testing.T) {
		client, _ := newTestClient(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := client.WaitMined(cancelled, common.HexToHash("0x01"))
		assert.Error(t, err)
	})
}

func Test_CallMsgFromTransaction(t *testing.T) {
	from := common.HexToAddress("0x36615Cf349d7F6344891B1e7CA7C72883F5dc049")
	to := common.HexToAddress("0xa61464658AfeAf65CccaaFD3a512b69A83B77618")
	tx := zksync.NewTransaction712(common.HexToAddress("0x01"), &to, big.NewInt(7), []byte{0x01})

	msg := CallMsgFromTransaction(tx, from)
	assert.Equal(t, from, msg.From)
	assert.Equal(t, &to, msg.To)
	assert.Equal(t, int64(zksync.DefaultGasPerPubdataLimit), msg.GasPerPubdata.Int64())

	arg := toCallArg(msg)
	encoded, err := json.Marshal(arg)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"value":"0x7"`)
	assert.Contains(t, string(encoded), `"data":"0x01"`)
}
