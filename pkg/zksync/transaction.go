package zksync

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PaymasterParams routes fee payment through a paymaster contract.
type PaymasterParams struct {
	Paymaster      common.Address
	PaymasterInput []byte
}

// Eip712Meta carries the rollup specific fields of an EIP-712 transaction.
type Eip712Meta struct {
	GasPerPubdata *big.Int
	// CustomSignature is handed to the sender account's validation logic as is.
	CustomSignature []byte
	// FactoryDeps are raw bytecodes the transaction makes available to the deployer.
	FactoryDeps     [][]byte
	PaymasterParams *PaymasterParams
}

// Transaction712 is an account-abstraction transaction of type EIP712TxType.
//
// A Transaction712 is a value: the With* methods return a modified deep copy and leave
// the receiver untouched, so every enrichment step produces a new transaction.
type Transaction712 struct {
	Nonce     uint64
	GasTipCap *big.Int // maxPriorityFeePerGas
	GasFeeCap *big.Int // maxFeePerGas
	Gas       uint64
	From      common.Address
	To        *common.Address
	Value     *big.Int
	Data      []byte
	ChainID   *big.Int
	Meta      Eip712Meta
}

// NewTransaction712 returns an unsigned transaction without gas, nonce or chain id.
func NewTransaction712(from common.Address, to *common.Address, value *big.Int, data []byte) Transaction712 {
	tx := Transaction712{
		From:  from,
		Value: big.NewInt(0),
		Data:  common.CopyBytes(data),
		Meta: Eip712Meta{
			GasPerPubdata: big.NewInt(DefaultGasPerPubdataLimit),
		},
	}
	if to != nil {
		addr := *to
		tx.To = &addr
	}
	if value != nil {
		tx.Value = new(big.Int).Set(value)
	}
	return tx
}

// Type returns the envelope type byte.
func (tx Transaction712) Type() uint8 {
	return EIP712TxType
}

// Copy returns a deep copy.
func (tx Transaction712) Copy() Transaction712 {
	cpy := Transaction712{
		Nonce:     tx.Nonce,
		GasTipCap: copyBig(tx.GasTipCap),
		GasFeeCap: copyBig(tx.GasFeeCap),
		Gas:       tx.Gas,
		From:      tx.From,
		Value:     copyBig(tx.Value),
		Data:      common.CopyBytes(tx.Data),
		ChainID:   copyBig(tx.ChainID),
		Meta: Eip712Meta{
			GasPerPubdata:   copyBig(tx.Meta.GasPerPubdata),
			CustomSignature: common.CopyBytes(tx.Meta.CustomSignature),
		},
	}
	if tx.To != nil {
		to := *tx.To
		cpy.To = &to
	}
	if tx.Meta.FactoryDeps != nil {
		cpy.Meta.FactoryDeps = make([][]byte, len(tx.Meta.FactoryDeps))
		for i, dep := range tx.Meta.FactoryDeps {
			cpy.Meta.FactoryDeps[i] = common.CopyBytes(dep)
		}
	}
	if tx.Meta.PaymasterParams != nil {
		cpy.Meta.PaymasterParams = &PaymasterParams{
			Paymaster:      tx.Meta.PaymasterParams.Paymaster,
			PaymasterInput: common.CopyBytes(tx.Meta.PaymasterParams.PaymasterInput),
		}
	}
	return cpy
}

func (tx Transaction712) WithFrom(from common.Address) Transaction712 {
	cpy := tx.Copy()
	cpy.From = from
	return cpy
}

func (tx Transaction712) WithNonce(nonce uint64) Transaction712 {
	cpy := tx.Copy()
	cpy.Nonce = nonce
	return cpy
}

func (tx Transaction712) WithGasLimit(gas uint64) Transaction712 {
	cpy := tx.Copy()
	cpy.Gas = gas
	return cpy
}

// WithGasPrice sets both fee caps to a legacy style gas price.
func (tx Transaction712) WithGasPrice(gasPrice *big.Int) Transaction712 {
	cpy := tx.Copy()
	cpy.GasFeeCap = copyBig(gasPrice)
	cpy.GasTipCap = copyBig(gasPrice)
	return cpy
}

func (tx Transaction712) WithFees(gasFeeCap, gasTipCap *big.Int) Transaction712 {
	cpy := tx.Copy()
	cpy.GasFeeCap = copyBig(gasFeeCap)
	cpy.GasTipCap = copyBig(gasTipCap)
	return cpy
}

func (tx Transaction712) WithChainID(chainID *big.Int) Transaction712 {
	cpy := tx.Copy()
	cpy.ChainID = copyBig(chainID)
	return cpy
}

func (tx Transaction712) WithGasPerPubdata(limit *big.Int) Transaction712 {
	cpy := tx.Copy()
	cpy.Meta.GasPerPubdata = copyBig(limit)
	return cpy
}

func (tx Transaction712) WithFactoryDeps(deps ...[]byte) Transaction712 {
	cpy := tx.Copy()
	cpy.Meta.FactoryDeps = make([][]byte, len(deps))
	for i, dep := range deps {
		cpy.Meta.FactoryDeps[i] = common.CopyBytes(dep)
	}
	return cpy
}

func (tx Transaction712) WithPaymaster(params *PaymasterParams) Transaction712 {
	cpy := tx.Copy()
	cpy.Meta.PaymasterParams = nil
	if params != nil {
		cpy.Meta.PaymasterParams = &PaymasterParams{
			Paymaster:      params.Paymaster,
			PaymasterInput: common.CopyBytes(params.PaymasterInput),
		}
	}
	return cpy
}

// WithCustomSignature attaches the authorization payload checked by the sender account.
func (tx Transaction712) WithCustomSignature(signature []byte) Transaction712 {
	cpy := tx.Copy()
	cpy.Meta.CustomSignature = common.CopyBytes(signature)
	return cpy
}

// MaxFeePerGas falls back to zero when no fee was set.
func (tx Transaction712) MaxFeePerGas() *big.Int {
	if tx.GasFeeCap == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(tx.GasFeeCap)
}

// MaxPriorityFeePerGas falls back to MaxFeePerGas.
func (tx Transaction712) MaxPriorityFeePerGas() *big.Int {
	if tx.GasTipCap == nil {
		return tx.MaxFeePerGas()
	}
	return new(big.Int).Set(tx.GasTipCap)
}

func (tx Transaction712) GasPerPubdata() *big.Int {
	if tx.Meta.GasPerPubdata == nil || tx.Meta.GasPerPubdata.Sign() == 0 {
		return big.NewInt(DefaultGasPerPubdataLimit)
	}
	return new(big.Int).Set(tx.Meta.GasPerPubdata)
}

// Fee is the maximum amount the sender can be charged for gas.
func (tx Transaction712) Fee() *big.Int {
	return new(big.Int).Mul(tx.MaxFeePerGas(), new(big.Int).SetUint64(tx.Gas))
}

// IsSigned reports whether an authorization payload is attached.
func (tx Transaction712) IsSigned() bool {
	return len(tx.Meta.CustomSignature) > 0
}

// Equal compares every field including metadata.
func (tx Transaction712) Equal(other Transaction712) bool {
	if tx.Nonce != other.Nonce || tx.Gas != other.Gas || tx.From != other.From {
		return false
	}
	if (tx.To == nil) != (other.To == nil) || (tx.To != nil && *tx.To != *other.To) {
		return false
	}
	if !equalBig(tx.GasTipCap, other.GasTipCap) || !equalBig(tx.GasFeeCap, other.GasFeeCap) ||
		!equalBig(tx.Value, other.Value) || !equalBig(tx.ChainID, other.ChainID) ||
		!equalBig(tx.Meta.GasPerPubdata, other.Meta.GasPerPubdata) {
		return false
	}
	if !bytes.Equal(tx.Data, other.Data) || !bytes.Equal(tx.Meta.CustomSignature, other.Meta.CustomSignature) {
		return false
	}
	if len(tx.Meta.FactoryDeps) != len(other.Meta.FactoryDeps) {
		return false
	}
	for i := range tx.Meta.FactoryDeps {
		if !bytes.Equal(tx.Meta.FactoryDeps[i], other.Meta.FactoryDeps[i]) {
			return false
		}
	}
	if (tx.Meta.PaymasterParams == nil) != (other.Meta.PaymasterParams == nil) {
		return false
	}
	if tx.Meta.PaymasterParams != nil {
		if tx.Meta.PaymasterParams.Paymaster != other.Meta.PaymasterParams.Paymaster ||
			!bytes.Equal(tx.Meta.PaymasterParams.PaymasterInput, other.Meta.PaymasterParams.PaymasterInput) {
			return false
		}
	}
	return true
}

// validateForSigning checks the fields the digest and the envelope cannot do without.
func (tx Transaction712) validateForSigning() error {
	if tx.ChainID == nil || tx.ChainID.Sign() <= 0 {
		return fmt.Errorf("transaction chain id is not set")
	}
	if tx.From == (common.Address{}) {
		return fmt.Errorf("transaction from address is not set")
	}
	return nil
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// equalBig treats nil as zero.
func equalBig(a, b *big.Int) bool {
	if a == nil {
		a = new(big.Int)
	}
	if b == nil {
		b = new(big.Int)
	}
	return a.Cmp(b) == 0
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
