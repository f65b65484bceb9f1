package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
	"go.uber.org/zap"
)

// NetworkEntry describes one chain in a networks file:
//
//	[[Networks]]
//	    Name = "zksync-era-local"
//	    ChainID = 260
//	    RpcUrl = "http://localhost:8011"
//	    FactoryAddress = "0x..."
type NetworkEntry struct {
	Name              string  `toml:"Name"`
	ChainID           uint64  `toml:"ChainID"`
	RpcUrl            string  `toml:"RpcUrl"`
	FactoryAddress    string  `toml:"FactoryAddress"`
	RequestsPerSecond float64 `toml:"RequestsPerSecond"`
}

type NetworksConfig struct {
	Networks []NetworkEntry `toml:"Networks"`
}

// ParseNetworks decodes a networks document.
func ParseNetworks(data []byte) (*NetworksConfig, error) {
	cfg := &NetworksConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode networks: %w", err)
	}
	seen := make(map[uint64]struct{}, len(cfg.Networks))
	for i, n := range cfg.Networks {
		if n.ChainID == 0 {
			return nil, fmt.Errorf("network %d (%s) has no chain id", i, n.Name)
		}
		if _, ok := seen[n.ChainID]; ok {
			return nil, fmt.Errorf("duplicate network for chain id %d", n.ChainID)
		}
		seen[n.ChainID] = struct{}{}
	}
	return cfg, nil
}

// LoadNetworksFile opens and decodes a networks TOML file.
func LoadNetworksFile(path string, l *zap.Logger) (*NetworksConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open networks file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.Sugar().Warnw("cannot close networks file", "path", path, "error", err)
		}
	}()

	cfg := &NetworksConfig{}
	if err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode networks file %s: %w", path, err)
	}
	l.Sugar().Debugw("Loaded networks file", "path", path, "networks", len(cfg.Networks))
	return cfg, nil
}

// Find returns the entry for a chain id.
func (n *NetworksConfig) Find(chainID ChainId) (NetworkEntry, bool) {
	for _, entry := range n.Networks {
		if entry.ChainID == uint64(chainID) {
			return entry, true
		}
	}
	return NetworkEntry{}, false
}

// ApplyNetworks fills unset fields of the config from the entry matching its chain id.
// Values already set on the config win.
func (c *MultisigConfig) ApplyNetworks(networks *NetworksConfig) bool {
	if networks == nil {
		return false
	}
	entry, ok := networks.Find(c.ChainID)
	if !ok {
		return false
	}
	if c.RpcUrl == "" {
		c.RpcUrl = entry.RpcUrl
	}
	if c.FactoryAddress == "" {
		c.FactoryAddress = entry.FactoryAddress
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = entry.RequestsPerSecond
	}
	return true
}
