package assembler

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/Layr-Labs/aa-multisig-go/pkg/clients/zksyncClient"
	"github.com/Layr-Labs/aa-multisig-go/pkg/logger"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNetwork struct {
	chainId     *big.Int
	gasPrice    *big.Int
	estimate    uint64
	nonces      map[common.Address]uint64
	estimateErr error
	nonceErr    error

	estimated []zksyncClient.CallMsg
}

func (f *fakeNetwork) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(f.chainId), nil
}

func (f *fakeNetwork) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(f.gasPrice), nil
}

func (f *fakeNetwork) EstimateGas(ctx context.Context, msg zksyncClient.CallMsg) (uint64, error) {
	f.estimated = append(f.estimated, msg)
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return f.estimate, nil
}

func (f *fakeNetwork) NonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if f.nonceErr != nil {
		return 0, f.nonceErr
	}
	return f.nonces[account], nil
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{
		chainId:  big.NewInt(260),
		gasPrice: big.NewInt(250_000_000),
		estimate: 1_000_000,
		nonces:   map[common.Address]uint64{},
	}
}

func Test_Assembler(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	account := common.HexToAddress("0x5a5C3E89Ce80e62EE88318C2804920D4c96f92bb")
	funder := common.HexToAddress("0x36615Cf349d7F6344891B1e7CA7C72883F5dc049")
	factory := common.HexToAddress("0x111C3E89Ce80e62EE88318C2804920D4c96f92bb")
	call := Call{To: &factory, Data: []byte{0x76, 0xfb, 0x8b, 0x65}}

	t.Run("Should populate every field from network state", func(t *testing.T) {
		network := newFakeNetwork()
		network.nonces[account] = 4

		tx, err := NewAssembler(network, l).Assemble(context.Background(), account, call, nil)
		require.NoError(t, err)

		assert.Equal(t, account, tx.From)
		assert.Equal(t, factory, *tx.To)
		assert.Equal(t, uint64(4), tx.Nonce)
		assert.Equal(t, uint64(1_200_000), tx.Gas)
		assert.Equal(t, int64(250_000_000), tx.MaxFeePerGas().Int64())
		assert.Equal(t, int64(250_000_000), tx.MaxPriorityFeePerGas().Int64())
		assert.Equal(t, int64(260), tx.ChainID.Int64())
		assert.Equal(t, int64(0), tx.Value.Int64())
		assert.Equal(t, int64(zksync.DefaultGasPerPubdataLimit), tx.GasPerPubdata().Int64())
		assert.Equal(t, uint8(zksync.EIP712TxType), tx.Type())
		assert.False(t, tx.IsSigned())

		require.Len(t, network.estimated, 1)
		assert.Equal(t, account, network.estimated[0].From)
	})

	t.Run("Should estimate as a different sender when asked", func(t *testing.T) {
		network := newFakeNetwork()

		tx, err := NewAssembler(network, l).Assemble(context.Background(), account, call, &AssembleOptions{EstimateFrom: funder})
		require.NoError(t, err)
		assert.Equal(t, account, tx.From)
		require.Len(t, network.estimated, 1)
		assert.Equal(t, funder, network.estimated[0].From)
	})

	t.Run("Should skip estimation with an explicit gas limit", func(t *testing.T) {
		network := newFakeNetwork()

		tx, err := NewAssembler(network, l).Assemble(context.Background(), account, call, &AssembleOptions{GasLimit: 777})
		require.NoError(t, err)
		assert.Equal(t, uint64(777), tx.Gas)
		assert.Empty(t, network.estimated)
	})

	t.Run("Should carry factory deps into estimation and the transaction", func(t *testing.T) {
		network := newFakeNetwork()
		dep := make([]byte, 32)

		tx, err := NewAssembler(network, l).Assemble(context.Background(), funder, Call{
			To:          &zksync.ContractDeployerAddress,
			Data:        []byte{0x3c, 0xda, 0x33, 0x51},
			FactoryDeps: [][]byte{dep},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, [][]byte{dep}, tx.Meta.FactoryDeps)
		assert.Equal(t, [][]byte{dep}, network.estimated[0].FactoryDeps)
	})

	t.Run("Should wrap network errors without retrying", func(t *testing.T) {
		network := newFakeNetwork()
		network.estimateErr = fmt.Errorf("execution reverted")

		_, err := NewAssembler(network, l).Assemble(context.Background(), account, call, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, network.estimateErr)
		assert.Len(t, network.estimated, 1)

		network = newFakeNetwork()
		network.nonceErr = fmt.Errorf("connection refused")
		_, err = NewAssembler(network, l).Assemble(context.Background(), account, call, nil)
		assert.ErrorIs(t, err, network.nonceErr)
	})

	t.Run("Should require a sender", func(t *testing.T) {
		_, err := NewAssembler(newFakeNetwork(), l).Assemble(context.Background(), common.Address{}, call, nil)
		assert.Error(t, err)
	})
}

func Test_addGasBuffer(t *testing.T) {
	assert.Equal(t, uint64(120), addGasBuffer(100))
	assert.Equal(t, uint64(0), addGasBuffer(0))
	assert.Equal(t, uint64(1_200_000), addGasBuffer(1_000_000))
}
