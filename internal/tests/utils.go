package tests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/kelseyhightower/envconfig"
)

var projectRootPattern = regexp.MustCompile(`\/aa-multisig-go([A-Za-z0-9_-]+)?\/?$`)

// GetProjectRootPath walks up from the working directory to the repository root, which is
// either a directory named like the module or the first directory holding go.mod.
func GetProjectRootPath() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	p := wd
	for i := 0; i < 10; i++ {
		if projectRootPattern.MatchString(p) {
			return p
		}
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return p
		}
		p = filepath.Dir(p)
	}
	panic("Could not find project root path")
}

// ChainConfig describes the local node the integration tests run against.
type ChainConfig struct {
	RpcUrl               string `json:"rpcUrl"`
	ChainId              uint64 `json:"chainId"`
	RichWalletPrivateKey string `json:"richWalletPk"`
	ArtifactsDir         string `json:"artifactsDir"`
	FactoryContract      string `json:"factoryContract"`
	AccountContract      string `json:"accountContract"`
}

func ReadChainConfig(projectRoot string) (*ChainConfig, error) {
	filePath := fmt.Sprintf("%s/internal/testData/chain-config.json", projectRoot)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var cf *ChainConfig
	if err := json.Unmarshal(file, &cf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal file: %w", err)
	}
	return cf, nil
}

// EnvOverrides lets CI point the integration tests at another node or artifact set.
type EnvOverrides struct {
	RpcUrl               string `envconfig:"AA_TEST_RPC_URL"`
	RichWalletPrivateKey string `envconfig:"AA_TEST_RICH_WALLET_PK"`
	ArtifactsDir         string `envconfig:"AA_TEST_ARTIFACTS_DIR"`
	StartNode            bool   `envconfig:"AA_TEST_START_NODE" default:"false"`
	NodeBinary           string `envconfig:"AA_TEST_NODE_BINARY" default:"anvil-zksync"`
	NodePort             string `envconfig:"AA_TEST_NODE_PORT" default:"8011"`
}

// LoadIntegrationConfig reads the chain config file and applies environment overrides.
// A relative artifacts dir is resolved against the project root.
func LoadIntegrationConfig(projectRoot string) (*ChainConfig, *EnvOverrides, error) {
	cfg, err := ReadChainConfig(projectRoot)
	if err != nil {
		return nil, nil, err
	}

	env := &EnvOverrides{}
	if err := envconfig.Process("", env); err != nil {
		return nil, nil, fmt.Errorf("failed to process test environment: %w", err)
	}
	if env.RpcUrl != "" {
		cfg.RpcUrl = env.RpcUrl
	}
	if env.RichWalletPrivateKey != "" {
		cfg.RichWalletPrivateKey = env.RichWalletPrivateKey
	}
	if env.ArtifactsDir != "" {
		cfg.ArtifactsDir = env.ArtifactsDir
	}
	if !filepath.IsAbs(cfg.ArtifactsDir) {
		cfg.ArtifactsDir = filepath.Join(projectRoot, cfg.ArtifactsDir)
	}
	return cfg, env, nil
}
