package ownerSigner

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the size of an r || s || v signature.
const SignatureLength = crypto.SignatureLength

var ErrInvalidSignatureLength = errors.New("invalid signature length")

// IOwnerSigner is one key holder of a multisig account.
type IOwnerSigner interface {
	// Address returns the account address of the signing key.
	Address() common.Address

	// SignDigest signs the 32 byte digest as is. Implementations must never apply the
	// "\x19Ethereum Signed Message" prefix: account contracts recover against the raw digest.
	// The returned signature is 65 bytes with v in {27, 28}.
	SignDigest(ctx context.Context, digest common.Hash) ([]byte, error)
}

// RecoverAddress returns the address that produced sig over digest. It accepts v in
// either {0, 1} or {27, 28}.
func RecoverAddress(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignatureLength, SignatureLength, len(sig))
	}
	normalized := common.CopyBytes(sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pub, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// ToEthereumV shifts a {0, 1} recovery id to the {27, 28} form account contracts expect.
func ToEthereumV(sig []byte) ([]byte, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignatureLength, SignatureLength, len(sig))
	}
	out := common.CopyBytes(sig)
	if out[64] < 27 {
		out[64] += 27
	}
	return out, nil
}
