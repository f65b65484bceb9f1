package transactionSigner

import (
	"context"
	"math/big"
	"testing"

	"github.com/Layr-Labs/aa-multisig-go/pkg/logger"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// well known local node rich wallet
const testPrivateKey = "0x7726827caac94a7f9e1b160f7ea819f172f7b6f9d2a97f992c38edeab82d4110"

func Test_PrivateKeySigner(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	t.Run("Should fail with an empty private key", func(t *testing.T) {
		_, err := NewTransactionSigner(&SignerConfig{}, l)
		assert.Error(t, err)
	})

	signer, err := NewTransactionSigner(&SignerConfig{PrivateKey: testPrivateKey}, l)
	require.NoError(t, err)
	key, err := crypto.HexToECDSA(testPrivateKey[2:])
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), signer.GetFromAddress())

	to := common.HexToAddress("0xa61464658AfeAf65CccaaFD3a512b69A83B77618")
	tx := zksync.NewTransaction712(signer.GetFromAddress(), &to, big.NewInt(1000), nil).
		WithChainID(big.NewInt(260)).
		WithNonce(3).
		WithGasLimit(300000).
		WithGasPrice(big.NewInt(250000000))

	t.Run("Should attach a signature recoverable to the sender", func(t *testing.T) {
		signed, err := signer.SignTransaction(context.Background(), tx)
		require.NoError(t, err)
		require.True(t, signed.IsSigned())
		assert.False(t, tx.IsSigned())

		digest, err := tx.Digest()
		require.NoError(t, err)
		recovered, err := ownerSigner.RecoverAddress(digest, signed.Meta.CustomSignature)
		require.NoError(t, err)
		assert.Equal(t, signer.GetFromAddress(), recovered)
	})

	t.Run("Should refuse a transaction from another sender", func(t *testing.T) {
		_, err := signer.SignTransaction(context.Background(), tx.WithFrom(to))
		assert.Error(t, err)
	})

	t.Run("Should refuse a transaction without chain id", func(t *testing.T) {
		_, err := signer.SignTransaction(context.Background(), tx.WithChainID(nil))
		assert.Error(t, err)
	})
}
