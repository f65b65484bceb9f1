package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the aaMultisig CLI
const (
	EnvAARpcURL            = "AA_RPC_URL"
	EnvAAChainID           = "AA_CHAIN_ID"
	EnvAANetworksFile      = "AA_NETWORKS_FILE"
	EnvAARequestsPerSecond = "AA_REQUESTS_PER_SECOND"
	EnvAAFundingPrivateKey = "AA_FUNDING_PRIVATE_KEY"
	EnvAAFundingKMSKeyID   = "AA_FUNDING_KMS_KEY_ID"
	EnvAAFactoryAddress    = "AA_FACTORY_ADDRESS"
	EnvAAArtifactsDir      = "AA_ARTIFACTS_DIR"
	EnvAASalt              = "AA_SALT"
	EnvAAOwner1PrivateKey  = "AA_OWNER1_PRIVATE_KEY"
	EnvAAOwner1KeyFile     = "AA_OWNER1_KEY_FILE"
	EnvAAOwner1KMSKeyID    = "AA_OWNER1_KMS_KEY_ID"
	EnvAAOwner2PrivateKey  = "AA_OWNER2_PRIVATE_KEY"
	EnvAAOwner2KeyFile     = "AA_OWNER2_KEY_FILE"
	EnvAAOwner2KMSKeyID    = "AA_OWNER2_KMS_KEY_ID"
	EnvAAKeyFilePassword   = "AA_KEY_FILE_PASSWORD"
	EnvAAPersistenceType   = "AA_PERSISTENCE_TYPE"
	EnvAABadgerDir         = "AA_BADGER_DIR"
	EnvAARedisAddress      = "AA_REDIS_ADDRESS"
	EnvAARedisPassword     = "AA_REDIS_PASSWORD"
	EnvAARedisDB           = "AA_REDIS_DB"
	EnvAAAWSRegion         = "AA_AWS_REGION"
	EnvAAVerbose           = "AA_VERBOSE"
)

type ChainId uint

const (
	ChainId_ZkSyncEraMainnet ChainId = 324
	ChainId_ZkSyncEraSepolia ChainId = 300
	ChainId_ZkSyncEraLocal   ChainId = 260
)

type ChainName string

const (
	ChainName_ZkSyncEraMainnet ChainName = "zksync-era-mainnet"
	ChainName_ZkSyncEraSepolia ChainName = "zksync-era-sepolia"
	ChainName_ZkSyncEraLocal   ChainName = "zksync-era-local"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_ZkSyncEraMainnet: ChainName_ZkSyncEraMainnet,
	ChainId_ZkSyncEraSepolia: ChainName_ZkSyncEraSepolia,
	ChainId_ZkSyncEraLocal:   ChainName_ZkSyncEraLocal,
}
var ChainNameToId = map[ChainName]ChainId{
	ChainName_ZkSyncEraMainnet: ChainId_ZkSyncEraMainnet,
	ChainName_ZkSyncEraSepolia: ChainId_ZkSyncEraSepolia,
	ChainName_ZkSyncEraLocal:   ChainId_ZkSyncEraLocal,
}

// DefaultRpcUrls are the public endpoints used when no URL is configured.
var DefaultRpcUrls = map[ChainId]string{
	ChainId_ZkSyncEraMainnet: "https://mainnet.era.zksync.io",
	ChainId_ZkSyncEraSepolia: "https://sepolia.era.zksync.dev",
	ChainId_ZkSyncEraLocal:   "http://localhost:8011",
}

// GetSupportedChainIDs returns all supported chain IDs
func GetSupportedChainIDs() []ChainId {
	return []ChainId{
		ChainId_ZkSyncEraMainnet,
		ChainId_ZkSyncEraSepolia,
		ChainId_ZkSyncEraLocal,
	}
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (sepolia), %d (local)",
		ChainId_ZkSyncEraMainnet, ChainId_ZkSyncEraSepolia, ChainId_ZkSyncEraLocal)
}

// OwnerKeyConfig names where one owner key comes from. At most one source may be set;
// none means a fresh random key is generated.
type OwnerKeyConfig struct {
	PrivateKey string `json:"privateKey" yaml:"privateKey"`
	KeyFile    string `json:"keyFile" yaml:"keyFile"`
	KMSKeyId   string `json:"kmsKeyId" yaml:"kmsKeyId"`
}

func (o *OwnerKeyConfig) IsEmpty() bool {
	return o.PrivateKey == "" && o.KeyFile == "" && o.KMSKeyId == ""
}

func (o *OwnerKeyConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	sources := 0
	for _, v := range []string{o.PrivateKey, o.KeyFile, o.KMSKeyId} {
		if v != "" {
			sources++
		}
	}
	if sources > 1 {
		allErrors = append(allErrors, field.Invalid(path, "<redacted>", "only one of privateKey, keyFile or kmsKeyId may be set"))
	}
	if o.PrivateKey != "" && !isHexKey(o.PrivateKey) {
		allErrors = append(allErrors, field.Invalid(path.Child("privateKey"), "<redacted>", "must be 32 bytes of hex"))
	}
	return allErrors
}

type PersistenceType string

const (
	PersistenceType_Memory PersistenceType = "memory"
	PersistenceType_Badger PersistenceType = "badger"
	PersistenceType_Redis  PersistenceType = "redis"
)

type PersistenceConfig struct {
	Type          PersistenceType `json:"type" yaml:"type"`
	BadgerDir     string          `json:"badgerDir" yaml:"badgerDir"`
	RedisAddress  string          `json:"redisAddress" yaml:"redisAddress"`
	RedisPassword string          `json:"redisPassword" yaml:"redisPassword"`
	RedisDB       int             `json:"redisDB" yaml:"redisDB"`
}

func (p *PersistenceConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	switch p.Type {
	case "", PersistenceType_Memory:
	case PersistenceType_Badger:
		if p.BadgerDir == "" {
			allErrors = append(allErrors, field.Required(path.Child("badgerDir"), "badgerDir is required for badger persistence"))
		}
	case PersistenceType_Redis:
		if p.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(path.Child("redisAddress"), "redisAddress is required for redis persistence"))
		}
		if p.RedisDB < 0 {
			allErrors = append(allErrors, field.Invalid(path.Child("redisDB"), p.RedisDB, "must not be negative"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), p.Type,
			[]string{string(PersistenceType_Memory), string(PersistenceType_Badger), string(PersistenceType_Redis)}))
	}
	return allErrors
}

// MultisigConfig is everything the CLI needs to deploy and operate a multisig account.
type MultisigConfig struct {
	// Chain configuration
	ChainID           ChainId   `json:"chain_id"`
	ChainName         ChainName `json:"chain_name"`
	RpcUrl            string    `json:"rpc_url"`
	RequestsPerSecond float64   `json:"requests_per_second"`

	// Funding wallet, pays for deployments and funding transfers
	FundingPrivateKey string `json:"funding_private_key"`
	FundingKMSKeyId   string `json:"funding_kms_key_id"`

	FactoryAddress string `json:"factory_address"`
	ArtifactsDir   string `json:"artifacts_dir"`
	Salt           string `json:"salt"`

	Owner1 OwnerKeyConfig `json:"owner1"`
	Owner2 OwnerKeyConfig `json:"owner2"`

	Persistence PersistenceConfig `json:"persistence"`

	Verbose bool `json:"verbose"`
}

// Validate checks the configuration and fills the chain name and default RPC URL.
func (c *MultisigConfig) Validate() error {
	var allErrors field.ErrorList

	chainName, exists := ChainIdToName[c.ChainID]
	if !exists {
		allErrors = append(allErrors, field.Invalid(field.NewPath("chainId"), c.ChainID,
			fmt.Sprintf("unsupported chain ID. Supported: %s", GetSupportedChainIDsString())))
	} else {
		c.ChainName = chainName
		if c.RpcUrl == "" {
			c.RpcUrl = DefaultRpcUrls[c.ChainID]
		}
	}
	if c.RpcUrl == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("rpcUrl"), "rpcUrl is required"))
	}
	if c.RequestsPerSecond < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("requestsPerSecond"), c.RequestsPerSecond, "must not be negative"))
	}

	if c.FundingPrivateKey != "" && c.FundingKMSKeyId != "" {
		allErrors = append(allErrors, field.Invalid(field.NewPath("fundingPrivateKey"), "<redacted>", "only one of fundingPrivateKey or fundingKmsKeyId may be set"))
	}
	if c.FundingPrivateKey != "" && !isHexKey(c.FundingPrivateKey) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("fundingPrivateKey"), "<redacted>", "must be 32 bytes of hex"))
	}

	if c.FactoryAddress != "" && !common.IsHexAddress(c.FactoryAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("factoryAddress"), c.FactoryAddress, "invalid address format"))
	}
	if _, err := ParseSalt(c.Salt); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("salt"), c.Salt, err.Error()))
	}

	allErrors = append(allErrors, c.Owner1.validate(field.NewPath("owner1"))...)
	allErrors = append(allErrors, c.Owner2.validate(field.NewPath("owner2"))...)
	allErrors = append(allErrors, c.Persistence.validate(field.NewPath("persistence"))...)

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// HasFundingKey reports whether a funding wallet is configured.
func (c *MultisigConfig) HasFundingKey() bool {
	return c.FundingPrivateKey != "" || c.FundingKMSKeyId != ""
}

// GetFactoryAddress returns the configured factory or an error when none is set.
func (c *MultisigConfig) GetFactoryAddress() (common.Address, error) {
	if c.FactoryAddress == "" {
		return common.Address{}, fmt.Errorf("factory address is required, set %s", EnvAAFactoryAddress)
	}
	return common.HexToAddress(c.FactoryAddress), nil
}

// ParseSalt accepts an empty string for the zero salt, or 32 bytes of hex.
func ParseSalt(salt string) (common.Hash, error) {
	if salt == "" {
		return common.Hash{}, nil
	}
	if !strings.HasPrefix(salt, "0x") {
		salt = "0x" + salt
	}
	b, err := hexutil.Decode(salt)
	if err != nil {
		return common.Hash{}, fmt.Errorf("salt must be hex: %w", err)
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("salt must be %d bytes, got %d", common.HashLength, len(b))
	}
	return common.BytesToHash(b), nil
}

func isHexKey(key string) bool {
	key = strings.TrimPrefix(key, "0x")
	if len(key) != 64 {
		return false
	}
	_, err := hexutil.Decode("0x" + key)
	return err == nil
}
