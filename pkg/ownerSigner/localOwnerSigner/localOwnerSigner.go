package localOwnerSigner

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalOwnerSigner holds a secp256k1 key in memory.
type LocalOwnerSigner struct {
	logger     *zap.Logger
	privateKey *ecdsa.PrivateKey
	address    common.Address
	keyId      string
}

var _ ownerSigner.IOwnerSigner = (*LocalOwnerSigner)(nil)

func NewLocalOwnerSigner(privateKey *ecdsa.PrivateKey, logger *zap.Logger) (*LocalOwnerSigner, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}
	return &LocalOwnerSigner{
		logger:     logger,
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		keyId:      fmt.Sprintf("local-key-%s", uuid.New().String()),
	}, nil
}

// NewLocalOwnerSignerFromHex accepts the key with or without a 0x prefix.
func NewLocalOwnerSignerFromHex(privateKeyHex string, logger *zap.Logger) (*LocalOwnerSigner, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key from hex: %w", err)
	}
	return NewLocalOwnerSigner(privateKey, logger)
}

// GenerateLocalOwnerSigner creates a fresh random owner key.
func GenerateLocalOwnerSigner(logger *zap.Logger) (*LocalOwnerSigner, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ECDSA key: %w", err)
	}
	signer, err := NewLocalOwnerSigner(privateKey, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Generated local owner key",
		zap.String("keyId", signer.keyId),
		zap.String("address", signer.address.Hex()),
	)
	return signer, nil
}

func (l *LocalOwnerSigner) Address() common.Address {
	return l.address
}

func (l *LocalOwnerSigner) KeyId() string {
	return l.keyId
}

func (l *LocalOwnerSigner) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(digest.Bytes(), l.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest with key %s: %w", l.keyId, err)
	}

	l.logger.Debug("Signed digest with local owner key",
		zap.String("keyId", l.keyId),
		zap.String("address", l.address.Hex()),
		zap.String("digest", digest.Hex()),
	)

	return ownerSigner.ToEthereumV(sig)
}
