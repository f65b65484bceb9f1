package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPrivateKey = "0x7726827caac94a7f9e1b160f7ea819f172f7b6f9d2a97f992c38edeab82d4110"

func Test_MultisigConfig(t *testing.T) {
	t.Run("Should fill chain name and default rpc url", func(t *testing.T) {
		cfg := &MultisigConfig{ChainID: ChainId_ZkSyncEraSepolia}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, ChainName_ZkSyncEraSepolia, cfg.ChainName)
		assert.Equal(t, "https://sepolia.era.zksync.dev", cfg.RpcUrl)
	})

	t.Run("Should keep an explicit rpc url", func(t *testing.T) {
		cfg := &MultisigConfig{ChainID: ChainId_ZkSyncEraLocal, RpcUrl: "http://127.0.0.1:3050"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://127.0.0.1:3050", cfg.RpcUrl)
	})

	t.Run("Should reject unsupported chain", func(t *testing.T) {
		cfg := &MultisigConfig{ChainID: 1}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported chain ID")
	})

	t.Run("Should aggregate every invalid field", func(t *testing.T) {
		cfg := &MultisigConfig{
			ChainID:           ChainId_ZkSyncEraLocal,
			FundingPrivateKey: "not-a-key",
			FactoryAddress:    "0x1234",
			Salt:              "0x01",
			Owner1:            OwnerKeyConfig{PrivateKey: testPrivateKey, KeyFile: "owner1.json"},
			Persistence:       PersistenceConfig{Type: PersistenceType_Badger},
		}
		err := cfg.Validate()
		require.Error(t, err)
		for _, f := range []string{"fundingPrivateKey", "factoryAddress", "salt", "owner1", "persistence.badgerDir"} {
			assert.Contains(t, err.Error(), f)
		}
		assert.NotContains(t, err.Error(), "not-a-key")
	})

	t.Run("Should reject both funding sources", func(t *testing.T) {
		cfg := &MultisigConfig{
			ChainID:           ChainId_ZkSyncEraLocal,
			FundingPrivateKey: testPrivateKey,
			FundingKMSKeyId:   "alias/funding",
		}
		require.Error(t, cfg.Validate())
	})

	t.Run("Should require redis address", func(t *testing.T) {
		cfg := &MultisigConfig{
			ChainID:     ChainId_ZkSyncEraLocal,
			Persistence: PersistenceConfig{Type: PersistenceType_Redis},
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redisAddress")
	})

	t.Run("Should reject unknown persistence type", func(t *testing.T) {
		cfg := &MultisigConfig{
			ChainID:     ChainId_ZkSyncEraLocal,
			Persistence: PersistenceConfig{Type: "postgres"},
		}
		require.Error(t, cfg.Validate())
	})

	t.Run("Should require factory address when asked", func(t *testing.T) {
		cfg := &MultisigConfig{}
		_, err := cfg.GetFactoryAddress()
		require.Error(t, err)

		cfg.FactoryAddress = "0x0000000000000000000000000000000000001234"
		addr, err := cfg.GetFactoryAddress()
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x1234"), addr)
	})
}

func Test_ParseSalt(t *testing.T) {
	t.Run("Should default to zero salt", func(t *testing.T) {
		salt, err := ParseSalt("")
		require.NoError(t, err)
		assert.Equal(t, common.Hash{}, salt)
	})

	t.Run("Should accept hex with and without prefix", func(t *testing.T) {
		raw := strings.Repeat("ab", 32)
		a, err := ParseSalt(raw)
		require.NoError(t, err)
		b, err := ParseSalt("0x" + raw)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Equal(t, byte(0xab), a[0])
	})

	t.Run("Should reject wrong length", func(t *testing.T) {
		_, err := ParseSalt("0xabcd")
		require.Error(t, err)
	})

	t.Run("Should reject non hex", func(t *testing.T) {
		_, err := ParseSalt("0x" + strings.Repeat("zz", 32))
		require.Error(t, err)
	})
}

const testNetworks = `
[[Networks]]
    Name = "zksync-era-local"
    ChainID = 260
    RpcUrl = "http://localhost:8011"
    FactoryAddress = "0x0000000000000000000000000000000000004321"
    RequestsPerSecond = 5.0

[[Networks]]
    Name = "zksync-era-sepolia"
    ChainID = 300
    RpcUrl = "https://sepolia.example"
`

func Test_Networks(t *testing.T) {
	t.Run("Should parse network entries", func(t *testing.T) {
		networks, err := ParseNetworks([]byte(testNetworks))
		require.NoError(t, err)
		require.Len(t, networks.Networks, 2)

		entry, ok := networks.Find(ChainId_ZkSyncEraLocal)
		require.True(t, ok)
		assert.Equal(t, "zksync-era-local", entry.Name)
		assert.Equal(t, 5.0, entry.RequestsPerSecond)

		_, ok = networks.Find(ChainId_ZkSyncEraMainnet)
		assert.False(t, ok)
	})

	t.Run("Should reject duplicate chain ids", func(t *testing.T) {
		doc := testNetworks + `
[[Networks]]
    Name = "again"
    ChainID = 300
`
		_, err := ParseNetworks([]byte(doc))
		require.Error(t, err)
	})

	t.Run("Should fill unset fields only", func(t *testing.T) {
		networks, err := ParseNetworks([]byte(testNetworks))
		require.NoError(t, err)

		cfg := &MultisigConfig{ChainID: ChainId_ZkSyncEraLocal, RpcUrl: "http://override:8011"}
		assert.True(t, cfg.ApplyNetworks(networks))
		assert.Equal(t, "http://override:8011", cfg.RpcUrl)
		assert.Equal(t, "0x0000000000000000000000000000000000004321", cfg.FactoryAddress)
		assert.Equal(t, 5.0, cfg.RequestsPerSecond)

		other := &MultisigConfig{ChainID: ChainId_ZkSyncEraMainnet}
		assert.False(t, other.ApplyNetworks(networks))
	})

	t.Run("Should load from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "networks.toml")
		require.NoError(t, os.WriteFile(path, []byte(testNetworks), 0o600))

		networks, err := LoadNetworksFile(path, zap.NewNop())
		require.NoError(t, err)
		entry, ok := networks.Find(ChainId_ZkSyncEraSepolia)
		require.True(t, ok)
		assert.Equal(t, "https://sepolia.example", entry.RpcUrl)
	})

	t.Run("Should fail on missing file", func(t *testing.T) {
		_, err := LoadNetworksFile(filepath.Join(t.TempDir(), "missing.toml"), zap.NewNop())
		require.Error(t, err)
	})
}
