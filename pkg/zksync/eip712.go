package zksync

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	eip712DomainName    = "zkSync"
	eip712DomainVersion = "2"

	transactionPrimaryType = "Transaction"
)

var transactionTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
	},
	transactionPrimaryType: {
		{Name: "txType", Type: "uint256"},
		{Name: "from", Type: "uint256"},
		{Name: "to", Type: "uint256"},
		{Name: "gasLimit", Type: "uint256"},
		{Name: "gasPerPubdataByteLimit", Type: "uint256"},
		{Name: "maxFeePerGas", Type: "uint256"},
		{Name: "maxPriorityFeePerGas", Type: "uint256"},
		{Name: "paymaster", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "value", Type: "uint256"},
		{Name: "data", Type: "bytes"},
		{Name: "factoryDeps", Type: "bytes32[]"},
		{Name: "paymasterInput", Type: "bytes"},
	},
}

// TypedData builds the EIP-712 structure signed for this transaction. The custom
// signature is not part of it, so attaching one never changes the digest.
func (tx Transaction712) TypedData() (apitypes.TypedData, error) {
	if err := tx.validateForSigning(); err != nil {
		return apitypes.TypedData{}, err
	}

	// bytes32[] items must be hex strings: apitypes treats []byte items as nested arrays.
	factoryDeps := make([]interface{}, 0, len(tx.Meta.FactoryDeps))
	for i, dep := range tx.Meta.FactoryDeps {
		hash, err := HashBytecode(dep)
		if err != nil {
			return apitypes.TypedData{}, fmt.Errorf("invalid factory dependency %d: %w", i, err)
		}
		factoryDeps = append(factoryDeps, hexutil.Encode(hash.Bytes()))
	}

	to := new(big.Int)
	if tx.To != nil {
		to.SetBytes(tx.To.Bytes())
	}

	paymaster := new(big.Int)
	paymasterInput := []byte{}
	if tx.Meta.PaymasterParams != nil {
		paymaster.SetBytes(tx.Meta.PaymasterParams.Paymaster.Bytes())
		paymasterInput = common.CopyBytes(tx.Meta.PaymasterParams.PaymasterInput)
		if paymasterInput == nil {
			paymasterInput = []byte{}
		}
	}

	data := common.CopyBytes(tx.Data)
	if data == nil {
		data = []byte{}
	}

	return apitypes.TypedData{
		Types:       transactionTypes,
		PrimaryType: transactionPrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:    eip712DomainName,
			Version: eip712DomainVersion,
			ChainId: (*math.HexOrDecimal256)(new(big.Int).Set(tx.ChainID)),
		},
		Message: apitypes.TypedDataMessage{
			"txType":                 big.NewInt(EIP712TxType),
			"from":                   new(big.Int).SetBytes(tx.From.Bytes()),
			"to":                     to,
			"gasLimit":               new(big.Int).SetUint64(tx.Gas),
			"gasPerPubdataByteLimit": tx.GasPerPubdata(),
			"maxFeePerGas":           tx.MaxFeePerGas(),
			"maxPriorityFeePerGas":   tx.MaxPriorityFeePerGas(),
			"paymaster":              paymaster,
			"nonce":                  new(big.Int).SetUint64(tx.Nonce),
			"value":                  new(big.Int).Set(bigOrZero(tx.Value)),
			"data":                   data,
			"factoryDeps":            factoryDeps,
			"paymasterInput":         paymasterInput,
		},
	}, nil
}

// Digest returns the canonical hash owners sign: keccak256(0x1901 || domainSeparator || structHash).
// It must be signed as is, without the personal message prefix.
func (tx Transaction712) Digest() (common.Hash, error) {
	typedData, err := tx.TypedData()
	if err != nil {
		return common.Hash{}, err
	}
	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash typed transaction: %w", err)
	}
	return common.BytesToHash(hash), nil
}
