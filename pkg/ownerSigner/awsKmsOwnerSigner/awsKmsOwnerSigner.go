package awsKmsOwnerSigner

import (
	"context"
	"crypto/ecdsa"
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// secp256k1 curve order
var (
	curveOrder, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)
	halfOrder     = new(big.Int).Rsh(curveOrder, 1)
)

// KMSAPI is the subset of the KMS client used here.
type KMSAPI interface {
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
	CreateKey(ctx context.Context, params *kms.CreateKeyInput, optFns ...func(*kms.Options)) (*kms.CreateKeyOutput, error)
	CreateAlias(ctx context.Context, params *kms.CreateAliasInput, optFns ...func(*kms.Options)) (*kms.CreateAliasOutput, error)
}

// AWSKMSOwnerSigner signs digests with an ECC_SECG_P256K1 key that never leaves KMS.
type AWSKMSOwnerSigner struct {
	logger    *zap.Logger
	kmsClient KMSAPI
	keyId     string
	publicKey *ecdsa.PublicKey
	address   common.Address
}

var _ ownerSigner.IOwnerSigner = (*AWSKMSOwnerSigner)(nil)

func NewAWSKMSOwnerSignerFromConfig(ctx context.Context, awsCfg aws.Config, keyId string, logger *zap.Logger) (*AWSKMSOwnerSigner, error) {
	return NewAWSKMSOwnerSigner(ctx, kms.NewFromConfig(awsCfg), keyId, logger)
}

// NewAWSKMSOwnerSigner fetches the public key once and caches the derived address.
func NewAWSKMSOwnerSigner(ctx context.Context, kmsClient KMSAPI, keyId string, logger *zap.Logger) (*AWSKMSOwnerSigner, error) {
	publicKey, err := getPublicKey(ctx, kmsClient, keyId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load public key for key %s", keyId)
	}

	address := crypto.PubkeyToAddress(*publicKey)
	logger.Sugar().Infow("Loaded KMS owner key",
		"keyId", keyId,
		"address", address.Hex(),
	)

	return &AWSKMSOwnerSigner{
		logger:    logger,
		kmsClient: kmsClient,
		keyId:     keyId,
		publicKey: publicKey,
		address:   address,
	}, nil
}

// CreateOwnerKey creates a new secp256k1 signing key with the given alias and returns its key id.
func CreateOwnerKey(ctx context.Context, kmsClient KMSAPI, keyName, aliasName, chainName string) (string, error) {
	input := &kms.CreateKeyInput{
		KeyUsage:    types.KeyUsageTypeSignVerify,
		KeySpec:     types.KeySpecEccSecgP256k1,
		Description: aws.String(fmt.Sprintf("Multisig owner key - %s", keyName)),
		Tags: []types.Tag{
			{
				TagKey:   aws.String("Name"),
				TagValue: aws.String(keyName),
			},
			{
				TagKey:   aws.String("Environment"),
				TagValue: aws.String(chainName),
			},
			{
				TagKey:   aws.String("Purpose"),
				TagValue: aws.String("multisig-owner"),
			},
			{
				TagKey:   aws.String("Curve"),
				TagValue: aws.String("secp256k1"),
			},
		},
	}

	result, err := kmsClient.CreateKey(ctx, input)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create KMS key %s", keyName)
	}
	keyId := aws.ToString(result.KeyMetadata.KeyId)

	if aliasName != "" {
		_, err = kmsClient.CreateAlias(ctx, &kms.CreateAliasInput{
			AliasName:   aws.String(fmt.Sprintf("alias/%s", aliasName)),
			TargetKeyId: aws.String(keyId),
		})
		if err != nil {
			return "", errors.Wrapf(err, "failed to create alias %s for key %s", aliasName, keyId)
		}
	}
	return keyId, nil
}

func (a *AWSKMSOwnerSigner) Address() common.Address {
	return a.address
}

func (a *AWSKMSOwnerSigner) KeyId() string {
	return a.keyId
}

// SignDigest has KMS sign the digest as a precomputed hash, then converts the DER
// signature into r || s || v.
func (a *AWSKMSOwnerSigner) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	signOutput, err := a.kmsClient.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(a.keyId),
		Message:          digest.Bytes(),
		SigningAlgorithm: types.SigningAlgorithmSpecEcdsaSha256,
		MessageType:      types.MessageTypeDigest,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign digest with key %s", a.keyId)
	}

	var sigAsn1 asn1EcSig
	if _, err := asn1.Unmarshal(signOutput.Signature, &sigAsn1); err != nil {
		return nil, errors.Wrap(err, "failed to parse DER signature")
	}

	r := new(big.Int).SetBytes(sigAsn1.R.Bytes)
	s := new(big.Int).SetBytes(sigAsn1.S.Bytes)
	// ecrecover rejects high-S signatures
	if s.Cmp(halfOrder) > 0 {
		s = new(big.Int).Sub(curveOrder, s)
	}

	signature := make([]byte, ownerSigner.SignatureLength)
	r.FillBytes(signature[0:32])
	s.FillBytes(signature[32:64])

	// KMS does not return the recovery id
	for recoveryId := 0; recoveryId < 4; recoveryId++ {
		signature[64] = byte(recoveryId)

		recoveredPubKeyBytes, err := crypto.Ecrecover(digest.Bytes(), signature)
		if err != nil {
			a.logger.Debug("Ecrecover failed",
				zap.Int("recoveryId", recoveryId),
				zap.Error(err))
			continue
		}
		recoveredPubKey, err := crypto.UnmarshalPubkey(recoveredPubKeyBytes)
		if err != nil {
			a.logger.Warn("Failed to unmarshal recovered public key",
				zap.Int("recoveryId", recoveryId),
				zap.Error(err))
			continue
		}

		if recoveredPubKey.X.Cmp(a.publicKey.X) == 0 && recoveredPubKey.Y.Cmp(a.publicKey.Y) == 0 {
			signature[64] = byte(27 + recoveryId)
			return signature, nil
		}
	}

	return nil, fmt.Errorf("could not determine valid recovery ID for key %s", a.keyId)
}

func getPublicKey(ctx context.Context, kmsClient KMSAPI, keyId string) (*ecdsa.PublicKey, error) {
	result, err := kmsClient.GetPublicKey(ctx, &kms.GetPublicKeyInput{
		KeyId: aws.String(keyId),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}
	return parseECDSAPublicKey(result.PublicKey)
}

// parseECDSAPublicKey parses the DER encoded SubjectPublicKeyInfo returned by KMS.
func parseECDSAPublicKey(derBytes []byte) (*ecdsa.PublicKey, error) {
	var asn1pubk asn1EcPublicKey
	if _, err := asn1.Unmarshal(derBytes, &asn1pubk); err != nil {
		return nil, fmt.Errorf("failed to parse ASN.1 public key: %w", err)
	}
	return crypto.UnmarshalPubkey(asn1pubk.PublicKey.Bytes)
}

type asn1EcSig struct {
	R asn1.RawValue
	S asn1.RawValue
}

type asn1EcPublicKey struct {
	EcPublicKeyInfo asn1EcPublicKeyInfo
	PublicKey       asn1.BitString
}

type asn1EcPublicKeyInfo struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}
