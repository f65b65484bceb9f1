package zksync

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

var (
	ErrEmptyCustomSignature = errors.New("empty custom signatures are not supported")
	ErrNotEIP712Transaction = errors.New("not an EIP-712 transaction envelope")
)

// rlpTransaction712 is the wire layout of the envelope body. The three fields after Data
// hold an ECDSA signature on Ethereum transactions; here they carry the chain id and two
// empty strings because authorization lives in CustomSignature.
type rlpTransaction712 struct {
	Nonce           uint64
	GasTipCap       *big.Int
	GasFeeCap       *big.Int
	Gas             uint64
	To              []byte
	Value           *big.Int
	Data            []byte
	V               *big.Int
	R               []byte
	S               []byte
	ChainID         *big.Int
	From            common.Address
	GasPerPubdata   *big.Int
	FactoryDeps     [][]byte
	CustomSignature []byte
	Paymaster       [][]byte
}

// Serialize encodes the transaction as EIP712TxType || RLP(fields), the form accepted by
// eth_sendRawTransaction.
func (tx Transaction712) Serialize() ([]byte, error) {
	if err := tx.validateForSigning(); err != nil {
		return nil, err
	}
	if tx.Meta.CustomSignature != nil && len(tx.Meta.CustomSignature) == 0 {
		return nil, ErrEmptyCustomSignature
	}

	body := rlpTransaction712{
		Nonce:           tx.Nonce,
		GasTipCap:       tx.MaxPriorityFeePerGas(),
		GasFeeCap:       tx.MaxFeePerGas(),
		Gas:             tx.Gas,
		To:              []byte{},
		Value:           new(big.Int).Set(bigOrZero(tx.Value)),
		Data:            nonNilBytes(tx.Data),
		V:               new(big.Int).Set(tx.ChainID),
		R:               []byte{},
		S:               []byte{},
		ChainID:         new(big.Int).Set(tx.ChainID),
		From:            tx.From,
		GasPerPubdata:   tx.GasPerPubdata(),
		FactoryDeps:     make([][]byte, 0, len(tx.Meta.FactoryDeps)),
		CustomSignature: nonNilBytes(tx.Meta.CustomSignature),
		Paymaster:       [][]byte{},
	}
	if tx.To != nil {
		body.To = tx.To.Bytes()
	}
	for _, dep := range tx.Meta.FactoryDeps {
		body.FactoryDeps = append(body.FactoryDeps, nonNilBytes(dep))
	}
	if tx.Meta.PaymasterParams != nil {
		body.Paymaster = [][]byte{
			tx.Meta.PaymasterParams.Paymaster.Bytes(),
			nonNilBytes(tx.Meta.PaymasterParams.PaymasterInput),
		}
	}

	encoded, err := rlp.EncodeToBytes(&body)
	if err != nil {
		return nil, fmt.Errorf("failed to rlp encode transaction: %w", err)
	}
	return append([]byte{EIP712TxType}, encoded...), nil
}

// DecodeTransaction712 parses a serialized envelope.
func DecodeTransaction712(raw []byte) (Transaction712, error) {
	if len(raw) == 0 || raw[0] != EIP712TxType {
		return Transaction712{}, ErrNotEIP712Transaction
	}

	var body rlpTransaction712
	if err := rlp.DecodeBytes(raw[1:], &body); err != nil {
		return Transaction712{}, fmt.Errorf("failed to rlp decode transaction: %w", err)
	}

	tx := Transaction712{
		Nonce:     body.Nonce,
		GasTipCap: body.GasTipCap,
		GasFeeCap: body.GasFeeCap,
		Gas:       body.Gas,
		From:      body.From,
		Value:     body.Value,
		Data:      body.Data,
		ChainID:   body.ChainID,
		Meta: Eip712Meta{
			GasPerPubdata: body.GasPerPubdata,
			FactoryDeps:   body.FactoryDeps,
		},
	}
	switch len(body.To) {
	case 0:
	case common.AddressLength:
		to := common.BytesToAddress(body.To)
		tx.To = &to
	default:
		return Transaction712{}, fmt.Errorf("invalid to field length %d", len(body.To))
	}
	if len(body.CustomSignature) > 0 {
		tx.Meta.CustomSignature = body.CustomSignature
	}
	switch len(body.Paymaster) {
	case 0:
	case 2:
		if len(body.Paymaster[0]) != common.AddressLength {
			return Transaction712{}, fmt.Errorf("invalid paymaster address length %d", len(body.Paymaster[0]))
		}
		tx.Meta.PaymasterParams = &PaymasterParams{
			Paymaster:      common.BytesToAddress(body.Paymaster[0]),
			PaymasterInput: body.Paymaster[1],
		}
	default:
		return Transaction712{}, fmt.Errorf("invalid paymaster params: %d fields", len(body.Paymaster))
	}
	return tx, nil
}

func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
