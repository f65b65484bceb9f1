package zksync

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBytecode(words int, fill byte) []byte {
	code := make([]byte, words*32)
	for i := range code {
		code[i] = fill + byte(i)
	}
	return code
}

func Test_HashBytecode(t *testing.T) {
	t.Run("Should hash a valid bytecode", func(t *testing.T) {
		code := testBytecode(3, 1)
		hash, err := HashBytecode(code)
		require.NoError(t, err)

		digest := sha256.Sum256(code)
		assert.Equal(t, byte(1), hash[0])
		assert.Equal(t, byte(0), hash[1])
		assert.Equal(t, uint16(3), binary.BigEndian.Uint16(hash[2:4]))
		assert.Equal(t, digest[4:], hash[4:])

		words, err := BytecodeWords(hash)
		require.NoError(t, err)
		assert.Equal(t, 3, words)
	})

	t.Run("Should reject bytecode not aligned to words", func(t *testing.T) {
		_, err := HashBytecode(make([]byte, 33))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "divisible by 32")
	})

	t.Run("Should reject an even number of words", func(t *testing.T) {
		_, err := HashBytecode(testBytecode(2, 0))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be odd")
	})

	t.Run("Should reject empty bytecode", func(t *testing.T) {
		_, err := HashBytecode(nil)
		require.Error(t, err)
	})

	t.Run("Should reject oversized bytecode", func(t *testing.T) {
		_, err := HashBytecode(make([]byte, (MaxBytecodeWords+2)*32))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too long")
	})
}

func Test_Create2Address(t *testing.T) {
	factory := common.HexToAddress("0xa0eD7885B408961430F89d797cD1cc87530D8fBe")
	bytecodeHash, err := HashBytecode(testBytecode(5, 7))
	require.NoError(t, err)
	input := append(common.LeftPadBytes(common.HexToAddress("0x01").Bytes(), 32),
		common.LeftPadBytes(common.HexToAddress("0x02").Bytes(), 32)...)

	t.Run("Should be deterministic", func(t *testing.T) {
		first := Create2Address(factory, bytecodeHash, common.Hash{}, input)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Create2Address(factory, bytecodeHash, common.Hash{}, input))
		}
	})

	t.Run("Should follow the prefixed keccak layout", func(t *testing.T) {
		expected := crypto.Keccak256(
			crypto.Keccak256([]byte("zksyncCreate2")),
			common.LeftPadBytes(factory.Bytes(), 32),
			make([]byte, 32),
			bytecodeHash.Bytes(),
			crypto.Keccak256(input),
		)
		assert.Equal(t, common.BytesToAddress(expected[12:]), Create2Address(factory, bytecodeHash, common.Hash{}, input))
	})

	t.Run("Should change with every input", func(t *testing.T) {
		base := Create2Address(factory, bytecodeHash, common.Hash{}, input)

		salt := common.Hash{31: 1}
		assert.NotEqual(t, base, Create2Address(factory, bytecodeHash, salt, input))

		otherFactory := common.HexToAddress("0xb0eD7885B408961430F89d797cD1cc87530D8fBe")
		assert.NotEqual(t, base, Create2Address(otherFactory, bytecodeHash, common.Hash{}, input))

		otherHash, err := HashBytecode(testBytecode(7, 7))
		require.NoError(t, err)
		assert.NotEqual(t, base, Create2Address(factory, otherHash, common.Hash{}, input))

		swapped := append(common.CopyBytes(input[32:]), input[:32]...)
		assert.NotEqual(t, base, Create2Address(factory, bytecodeHash, common.Hash{}, swapped))
	})
}

func newTestTransaction(t *testing.T) Transaction712 {
	t.Helper()
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	return NewTransaction712(
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
		&to,
		big.NewInt(0),
		[]byte{0xde, 0xad, 0xbe, 0xef},
	).WithChainID(big.NewInt(260)).
		WithNonce(3).
		WithGasLimit(1_000_000).
		WithGasPrice(big.NewInt(250_000_000))
}

func Test_Transaction712_Immutability(t *testing.T) {
	base := newTestTransaction(t)
	snapshot := base.Copy()

	enriched := base.WithNonce(9).
		WithGasLimit(42).
		WithGasPrice(big.NewInt(1)).
		WithChainID(big.NewInt(300)).
		WithFactoryDeps(testBytecode(1, 0)).
		WithCustomSignature([]byte{1, 2, 3})

	assert.True(t, base.Equal(snapshot), "enrichment must not mutate the original transaction")
	assert.False(t, base.Equal(enriched))
	assert.Equal(t, uint64(9), enriched.Nonce)
	assert.Equal(t, uint64(3), base.Nonce)
	assert.False(t, base.IsSigned())
	assert.True(t, enriched.IsSigned())

	enriched.Data[0] = 0x00
	assert.Equal(t, byte(0xde), base.Data[0])
}

func Test_Transaction712_Defaults(t *testing.T) {
	tx := NewTransaction712(common.HexToAddress("0x01"), nil, nil, nil)
	assert.Equal(t, uint8(EIP712TxType), tx.Type())
	assert.Equal(t, int64(0), tx.Value.Int64())
	assert.Equal(t, int64(DefaultGasPerPubdataLimit), tx.GasPerPubdata().Int64())
	assert.Equal(t, int64(0), tx.MaxFeePerGas().Int64())

	tx = tx.WithFees(big.NewInt(10), nil)
	assert.Equal(t, int64(10), tx.MaxPriorityFeePerGas().Int64())
	assert.Equal(t, int64(0), tx.Fee().Int64())
	assert.Equal(t, int64(100), tx.WithGasLimit(10).Fee().Int64())
}

// manualDigest recomputes the EIP-712 digest with plain keccak/abi word encoding.
func manualDigest(tx Transaction712) common.Hash {
	word := func(v *big.Int) []byte { return common.LeftPadBytes(v.Bytes(), 32) }

	typeHash := crypto.Keccak256([]byte("Transaction(uint256 txType,uint256 from,uint256 to,uint256 gasLimit,uint256 gasPerPubdataByteLimit,uint256 maxFeePerGas,uint256 maxPriorityFeePerGas,uint256 paymaster,uint256 nonce,uint256 value,bytes data,bytes32[] factoryDeps,bytes paymasterInput)"))

	var deps []byte
	for _, dep := range tx.Meta.FactoryDeps {
		h, _ := HashBytecode(dep)
		deps = append(deps, h.Bytes()...)
	}
	to := new(big.Int)
	if tx.To != nil {
		to.SetBytes(tx.To.Bytes())
	}

	structHash := crypto.Keccak256(
		typeHash,
		word(big.NewInt(EIP712TxType)),
		word(new(big.Int).SetBytes(tx.From.Bytes())),
		word(to),
		word(new(big.Int).SetUint64(tx.Gas)),
		word(tx.GasPerPubdata()),
		word(tx.MaxFeePerGas()),
		word(tx.MaxPriorityFeePerGas()),
		word(new(big.Int)),
		word(new(big.Int).SetUint64(tx.Nonce)),
		word(tx.Value),
		crypto.Keccak256(tx.Data),
		crypto.Keccak256(deps),
		crypto.Keccak256(nil),
	)
	domainSeparator := crypto.Keccak256(
		crypto.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId)")),
		crypto.Keccak256([]byte("zkSync")),
		crypto.Keccak256([]byte("2")),
		word(tx.ChainID),
	)
	return common.BytesToHash(crypto.Keccak256([]byte{0x19, 0x01}, domainSeparator, structHash))
}

func Test_Transaction712_Digest(t *testing.T) {
	tx := newTestTransaction(t)

	t.Run("Should match the EIP-712 encoding", func(t *testing.T) {
		digest, err := tx.Digest()
		require.NoError(t, err)
		assert.Equal(t, manualDigest(tx), digest)
	})

	t.Run("Should hash factory dependencies", func(t *testing.T) {
		withDeps := tx.WithFactoryDeps(testBytecode(3, 1), testBytecode(1, 9))
		digest, err := withDeps.Digest()
		require.NoError(t, err)
		assert.Equal(t, manualDigest(withDeps), digest)
	})

	t.Run("Should be stable and ignore the custom signature", func(t *testing.T) {
		first, err := tx.Digest()
		require.NoError(t, err)
		second, err := tx.WithCustomSignature(make([]byte, 130)).Digest()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Should change when a signed field changes", func(t *testing.T) {
		base, err := tx.Digest()
		require.NoError(t, err)

		variants := map[string]Transaction712{
			"nonce":     tx.WithNonce(tx.Nonce + 1),
			"gas":       tx.WithGasLimit(tx.Gas + 1),
			"price":     tx.WithGasPrice(big.NewInt(1)),
			"chain":     tx.WithChainID(big.NewInt(324)),
			"from":      tx.WithFrom(common.HexToAddress("0x3333333333333333333333333333333333333333")),
			"pubdata":   tx.WithGasPerPubdata(big.NewInt(800)),
			"paymaster": tx.WithPaymaster(&PaymasterParams{Paymaster: common.HexToAddress("0x44")}),
		}
		for name, variant := range variants {
			digest, err := variant.Digest()
			require.NoError(t, err, name)
			assert.NotEqual(t, base, digest, name)
		}
	})

	t.Run("Should require a chain id and sender", func(t *testing.T) {
		_, err := NewTransaction712(common.HexToAddress("0x01"), nil, nil, nil).Digest()
		require.Error(t, err)

		_, err = NewTransaction712(common.Address{}, nil, nil, nil).WithChainID(big.NewInt(1)).Digest()
		require.Error(t, err)
	})

	t.Run("Should reject invalid factory dependencies", func(t *testing.T) {
		_, err := tx.WithFactoryDeps(make([]byte, 64)).Digest()
		require.Error(t, err)
	})
}

func Test_Transaction712_Serialize(t *testing.T) {
	tx := newTestTransaction(t).
		WithFactoryDeps(testBytecode(3, 2)).
		WithCustomSignature(make([]byte, 130))

	t.Run("Should prefix the envelope type", func(t *testing.T) {
		raw, err := tx.Serialize()
		require.NoError(t, err)
		assert.Equal(t, byte(EIP712TxType), raw[0])
	})

	t.Run("Should decode to the same transaction", func(t *testing.T) {
		raw, err := tx.Serialize()
		require.NoError(t, err)
		decoded, err := DecodeTransaction712(raw)
		require.NoError(t, err)
		assert.True(t, tx.Equal(decoded))

		digest, err := tx.Digest()
		require.NoError(t, err)
		decodedDigest, err := decoded.Digest()
		require.NoError(t, err)
		assert.Equal(t, digest, decodedDigest)
	})

	t.Run("Should keep paymaster params", func(t *testing.T) {
		withPaymaster := tx.WithPaymaster(&PaymasterParams{
			Paymaster:      common.HexToAddress("0x5555555555555555555555555555555555555555"),
			PaymasterInput: []byte{1, 2},
		})
		raw, err := withPaymaster.Serialize()
		require.NoError(t, err)
		decoded, err := DecodeTransaction712(raw)
		require.NoError(t, err)
		require.NotNil(t, decoded.Meta.PaymasterParams)
		assert.Equal(t, withPaymaster.Meta.PaymasterParams.Paymaster, decoded.Meta.PaymasterParams.Paymaster)
	})

	t.Run("Should encode contract creation with an empty to", func(t *testing.T) {
		creation := NewTransaction712(tx.From, nil, nil, nil).WithChainID(big.NewInt(260))
		raw, err := creation.Serialize()
		require.NoError(t, err)
		decoded, err := DecodeTransaction712(raw)
		require.NoError(t, err)
		assert.Nil(t, decoded.To)
	})

	t.Run("Should reject an empty custom signature", func(t *testing.T) {
		_, err := tx.WithCustomSignature([]byte{}).Serialize()
		require.ErrorIs(t, err, ErrEmptyCustomSignature)
	})

	t.Run("Should reject foreign envelopes", func(t *testing.T) {
		_, err := DecodeTransaction712([]byte{0x02, 0xc0})
		require.ErrorIs(t, err, ErrNotEIP712Transaction)
	})
}
