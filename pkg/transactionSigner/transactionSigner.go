package transactionSigner

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner/localOwnerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ITransactionSigner authorizes EIP-712 transactions on behalf of one sender.
type ITransactionSigner interface {
	// GetFromAddress returns the sender address the signer authorizes for
	GetFromAddress() common.Address

	// SignTransaction returns a copy of tx carrying the authorization as its custom signature.
	// tx must already be fully populated: any later change invalidates the signature.
	SignTransaction(ctx context.Context, tx zksync.Transaction712) (zksync.Transaction712, error)
}

type SignerConfig struct {
	PrivateKey string `json:"privateKey" yaml:"privateKey"`
}

func NewTransactionSigner(cfg *SignerConfig, logger *zap.Logger) (ITransactionSigner, error) {
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	return NewPrivateKeySigner(cfg.PrivateKey, logger)
}

// PrivateKeySigner signs for an externally owned account. The rollup accepts the
// account's own 65 byte signature over the EIP-712 digest as the custom signature.
type PrivateKeySigner struct {
	logger *zap.Logger
	owner  ownerSigner.IOwnerSigner
}

var _ ITransactionSigner = (*PrivateKeySigner)(nil)

func NewPrivateKeySigner(privateKeyHex string, logger *zap.Logger) (*PrivateKeySigner, error) {
	owner, err := localOwnerSigner.NewLocalOwnerSignerFromHex(privateKeyHex, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	return NewOwnerKeySigner(owner, logger), nil
}

// NewOwnerKeySigner signs with any owner key, local or KMS backed.
func NewOwnerKeySigner(owner ownerSigner.IOwnerSigner, logger *zap.Logger) *PrivateKeySigner {
	return &PrivateKeySigner{
		logger: logger,
		owner:  owner,
	}
}

func (p *PrivateKeySigner) GetFromAddress() common.Address {
	return p.owner.Address()
}

func (p *PrivateKeySigner) SignTransaction(ctx context.Context, tx zksync.Transaction712) (zksync.Transaction712, error) {
	if tx.From != p.owner.Address() {
		return zksync.Transaction712{}, fmt.Errorf("transaction sender %s does not match signer %s", tx.From.Hex(), p.owner.Address().Hex())
	}

	digest, err := tx.Digest()
	if err != nil {
		return zksync.Transaction712{}, fmt.Errorf("failed to compute transaction digest: %w", err)
	}

	sig, err := p.owner.SignDigest(ctx, digest)
	if err != nil {
		return zksync.Transaction712{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	p.logger.Sugar().Debugw("Signed transaction",
		"from", tx.From.Hex(),
		"nonce", tx.Nonce,
		"digest", digest.Hex(),
	)
	return tx.WithCustomSignature(sig), nil
}
