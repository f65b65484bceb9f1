package multisig

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/transactionSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

var (
	ErrNoOwners                   = errors.New("at least one owner is required")
	ErrInvalidAuthorizationLength = errors.New("invalid authorization length")
	ErrSignatureMismatch          = errors.New("signature does not recover to the expected owner")

	// ErrNonCanonicalSignature is a signature the account contract rejects before recovery:
	// v outside {27, 28}, or r, s out of range, or s in the upper half of the curve order.
	ErrNonCanonicalSignature = errors.New("non-canonical signature")
)

// CoSign has every owner sign the transaction digest and concatenates the signatures in
// the order the owners are given. The account contract checks signature i against owner
// i, so the order must match the owners' order in the deployment descriptor.
func CoSign(ctx context.Context, tx zksync.Transaction712, owners ...ownerSigner.IOwnerSigner) ([]byte, error) {
	if len(owners) == 0 {
		return nil, ErrNoOwners
	}

	digest, err := tx.Digest()
	if err != nil {
		return nil, fmt.Errorf("failed to compute transaction digest: %w", err)
	}

	authorization := make([]byte, 0, len(owners)*ownerSigner.SignatureLength)
	for i, owner := range owners {
		sig, err := owner.SignDigest(ctx, digest)
		if err != nil {
			return nil, fmt.Errorf("owner %d (%s) failed to sign: %w", i+1, owner.Address().Hex(), err)
		}
		sig, err = ownerSigner.ToEthereumV(sig)
		if err != nil {
			return nil, fmt.Errorf("owner %d (%s) returned a malformed signature: %w", i+1, owner.Address().Hex(), err)
		}
		authorization = append(authorization, sig...)
	}
	return authorization, nil
}

// SplitAuthorization cuts an authorization payload into its 65 byte signatures.
func SplitAuthorization(authorization []byte) ([][]byte, error) {
	if len(authorization) == 0 || len(authorization)%ownerSigner.SignatureLength != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidAuthorizationLength, len(authorization), ownerSigner.SignatureLength)
	}
	sigs := make([][]byte, 0, len(authorization)/ownerSigner.SignatureLength)
	for i := 0; i < len(authorization); i += ownerSigner.SignatureLength {
		sigs = append(sigs, common.CopyBytes(authorization[i:i+ownerSigner.SignatureLength]))
	}
	return sigs, nil
}

// Verify performs the same check as the account contract: exactly one signature per
// owner, each in canonical form, and signature i must recover to owners[i].
func Verify(authorization []byte, digest common.Hash, owners []common.Address) error {
	if len(owners) == 0 {
		return ErrNoOwners
	}
	if len(authorization) != len(owners)*ownerSigner.SignatureLength {
		return fmt.Errorf("%w: expected %d bytes for %d owners, got %d",
			ErrInvalidAuthorizationLength, len(owners)*ownerSigner.SignatureLength, len(owners), len(authorization))
	}

	sigs, err := SplitAuthorization(authorization)
	if err != nil {
		return err
	}
	for i, sig := range sigs {
		if err := checkSignatureFormat(sig); err != nil {
			return fmt.Errorf("%w: signature %d: %v", ErrNonCanonicalSignature, i+1, err)
		}
		recovered, err := ownerSigner.RecoverAddress(digest, sig)
		if err != nil {
			return fmt.Errorf("%w: signature %d: %v", ErrSignatureMismatch, i+1, err)
		}
		if recovered != owners[i] {
			return fmt.Errorf("%w: signature %d recovers to %s, expected %s", ErrSignatureMismatch, i+1, recovered.Hex(), owners[i].Hex())
		}
	}
	return nil
}

// checkSignatureFormat applies the account contract's format rules to one 65 byte signature.
func checkSignatureFormat(sig []byte) error {
	v := sig[64]
	if v != 27 && v != 28 {
		return fmt.Errorf("v must be 27 or 28, got %d", v)
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(v-27, r, s, true) {
		return fmt.Errorf("r or s out of range or s not in the lower half order")
	}
	return nil
}

// CoSigner authorizes transactions sent from a deployed multisig account.
type CoSigner struct {
	logger  *zap.Logger
	account common.Address
	owners  []ownerSigner.IOwnerSigner
}

var _ transactionSigner.ITransactionSigner = (*CoSigner)(nil)

// NewCoSigner takes the owners in the order they were passed to the factory.
func NewCoSigner(account common.Address, logger *zap.Logger, owners ...ownerSigner.IOwnerSigner) (*CoSigner, error) {
	if account == (common.Address{}) {
		return nil, fmt.Errorf("account address is required")
	}
	if len(owners) != OwnerCount {
		return nil, fmt.Errorf("expected %d owners, got %d", OwnerCount, len(owners))
	}
	return &CoSigner{
		logger:  logger,
		account: account,
		owners:  owners,
	}, nil
}

func (c *CoSigner) GetFromAddress() common.Address {
	return c.account
}

func (c *CoSigner) OwnerAddresses() []common.Address {
	addrs := make([]common.Address, 0, len(c.owners))
	for _, owner := range c.owners {
		addrs = append(addrs, owner.Address())
	}
	return addrs
}

// SignTransaction co-signs tx and checks the result before returning it, so a bad key
// fails here instead of in account validation on chain.
func (c *CoSigner) SignTransaction(ctx context.Context, tx zksync.Transaction712) (zksync.Transaction712, error) {
	if tx.From != c.account {
		return zksync.Transaction712{}, fmt.Errorf("transaction sender %s is not the multisig account %s", tx.From.Hex(), c.account.Hex())
	}

	authorization, err := CoSign(ctx, tx, c.owners...)
	if err != nil {
		return zksync.Transaction712{}, err
	}

	digest, err := tx.Digest()
	if err != nil {
		return zksync.Transaction712{}, fmt.Errorf("failed to compute transaction digest: %w", err)
	}
	if err := Verify(authorization, digest, c.OwnerAddresses()); err != nil {
		return zksync.Transaction712{}, fmt.Errorf("co-signature failed verification: %w", err)
	}

	c.logger.Sugar().Infow("Co-signed multisig transaction",
		"account", c.account.Hex(),
		"nonce", tx.Nonce,
		"digest", digest.Hex(),
	)
	return tx.WithCustomSignature(authorization), nil
}
