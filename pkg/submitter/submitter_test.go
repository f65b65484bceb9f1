package submitter

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/Layr-Labs/aa-multisig-go/pkg/logger"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner/localOwnerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/transactionSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNetwork struct {
	sent    [][]byte
	status  uint64
	sendErr error
}

func (f *fakeNetwork) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	if f.sendErr != nil {
		return common.Hash{}, f.sendErr
	}
	f.sent = append(f.sent, raw)
	return common.BytesToHash([]byte{byte(len(f.sent))}), nil
}

func (f *fakeNetwork) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{
		Status:      f.status,
		TxHash:      txHash,
		GasUsed:     21000,
		BlockNumber: big.NewInt(10),
	}, nil
}

// emptySigner signs without producing an authorization.
type emptySigner struct {
	from common.Address
}

func (e *emptySigner) GetFromAddress() common.Address {
	return e.from
}

func (e *emptySigner) SignTransaction(ctx context.Context, tx zksync.Transaction712) (zksync.Transaction712, error) {
	return tx.WithCustomSignature([]byte{}), nil
}

func Test_Submitter(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	owner, err := localOwnerSigner.GenerateLocalOwnerSigner(l)
	require.NoError(t, err)
	signer := transactionSigner.NewOwnerKeySigner(owner, l)

	to := common.HexToAddress("0xa61464658AfeAf65CccaaFD3a512b69A83B77618")
	tx := zksync.NewTransaction712(owner.Address(), &to, big.NewInt(8_000_000_000_000_000), nil).
		WithChainID(big.NewInt(260)).
		WithNonce(0).
		WithGasLimit(500_000).
		WithGasPrice(big.NewInt(250_000_000))

	t.Run("Should move through every stage", func(t *testing.T) {
		network := &fakeNetwork{status: types.ReceiptStatusSuccessful}
		s := NewSubmitter(network, l)

		sub := NewSubmission(tx)
		assert.Equal(t, StageUnsigned, sub.Stage)

		require.NoError(t, s.Sign(context.Background(), sub, signer))
		assert.Equal(t, StageSigned, sub.Stage)

		require.NoError(t, s.Submit(context.Background(), sub))
		assert.Equal(t, StageSubmitted, sub.Stage)
		require.Len(t, network.sent, 1)
		assert.Equal(t, byte(zksync.EIP712TxType), network.sent[0][0])

		decoded, err := zksync.DecodeTransaction712(network.sent[0])
		require.NoError(t, err)
		assert.True(t, decoded.Equal(sub.Transaction))

		receipt, err := s.Confirm(context.Background(), sub)
		require.NoError(t, err)
		assert.Equal(t, sub.TxHash, receipt.TxHash)
		assert.Equal(t, StageConfirmed, sub.Stage)
	})

	t.Run("Should reject out of order transitions", func(t *testing.T) {
		s := NewSubmitter(&fakeNetwork{status: types.ReceiptStatusSuccessful}, l)

		sub := NewSubmission(tx)
		assert.ErrorIs(t, s.Submit(context.Background(), sub), ErrInvalidStage)
		_, err := s.Confirm(context.Background(), sub)
		assert.ErrorIs(t, err, ErrInvalidStage)

		require.NoError(t, s.Sign(context.Background(), sub, signer))
		assert.ErrorIs(t, s.Sign(context.Background(), sub, signer), ErrInvalidStage)
	})

	t.Run("Should never broadcast an empty signature", func(t *testing.T) {
		network := &fakeNetwork{status: types.ReceiptStatusSuccessful}
		s := NewSubmitter(network, l)

		_, err := s.SignAndSubmit(context.Background(), tx, &emptySigner{from: owner.Address()})
		assert.ErrorIs(t, err, zksync.ErrEmptyCustomSignature)

		forced := &Submission{Stage: StageSigned, Transaction: tx.WithCustomSignature([]byte{})}
		assert.ErrorIs(t, s.Submit(context.Background(), forced), zksync.ErrEmptyCustomSignature)
		assert.Empty(t, network.sent)
	})

	t.Run("Should fail on a reverted receipt", func(t *testing.T) {
		s := NewSubmitter(&fakeNetwork{status: types.ReceiptStatusFailed}, l)

		sub, err := s.SignAndSubmit(context.Background(), tx, signer)
		assert.ErrorIs(t, err, ErrTransactionReverted)
		assert.Equal(t, StageSubmitted, sub.Stage)
		require.NotNil(t, sub.Receipt)
	})

	t.Run("Should surface broadcast errors", func(t *testing.T) {
		network := &fakeNetwork{sendErr: fmt.Errorf("nonce too low")}
		s := NewSubmitter(network, l)

		sub, err := s.SignAndSubmit(context.Background(), tx, signer)
		assert.ErrorIs(t, err, network.sendErr)
		assert.Equal(t, StageSigned, sub.Stage)
	})

	t.Run("Should name stages", func(t *testing.T) {
		assert.Equal(t, "confirmed", StageConfirmed.String())
		assert.Equal(t, "unknown(9)", Stage(9).String())
	})
}
