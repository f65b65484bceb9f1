package main

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/aa-multisig-go/internal/aws"
	"github.com/Layr-Labs/aa-multisig-go/pkg/clients/zksyncClient"
	"github.com/Layr-Labs/aa-multisig-go/pkg/config"
	"github.com/Layr-Labs/aa-multisig-go/pkg/contractCaller/caller"
	"github.com/Layr-Labs/aa-multisig-go/pkg/logger"
	"github.com/Layr-Labs/aa-multisig-go/pkg/multisigDeployer"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner/awsKmsOwnerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner/keyfile"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner/localOwnerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence/deploymentStore"
	"github.com/Layr-Labs/aa-multisig-go/pkg/transactionSigner"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// runtime holds the components shared by every command.
type runtime struct {
	cfg    *config.MultisigConfig
	logger *zap.Logger
	client *zksyncClient.ZkSyncClient
	caller *caller.ContractCaller
	store  persistence.IDeploymentStore

	awsRegion   string
	awsCfg      *awsv2.Config
	keyPassword []byte

	// readPassword is asked once when a key file is used without a configured password.
	readPassword func(prompt string) ([]byte, error)
}

// newRuntime builds a runtime connected to the chain with the deployment store open.
func newRuntime(c *cli.Context) (*runtime, error) {
	rt, err := newOfflineRuntime(c)
	if err != nil {
		return nil, err
	}
	if err := rt.connect(c.Context); err != nil {
		rt.Close()
		return nil, err
	}
	if err := rt.openStore(); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// newOfflineRuntime only parses and validates the configuration.
func newOfflineRuntime(c *cli.Context) (*runtime, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg := parseMultisigConfig(c)
	if networksFile := c.String("networks-file"); networksFile != "" {
		networks, err := config.LoadNetworksFile(networksFile, l)
		if err != nil {
			return nil, err
		}
		if !cfg.ApplyNetworks(networks) {
			l.Sugar().Warnw("Chain not listed in networks file", "chainId", cfg.ChainID, "file", networksFile)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rt := &runtime{
		cfg:          cfg,
		logger:       l,
		awsRegion:    c.String("aws-region"),
		readPassword: keyfile.PromptPassword,
	}
	if password := c.String("key-file-password"); password != "" {
		rt.keyPassword = []byte(password)
	}
	return rt, nil
}

// connect dials the RPC endpoint and checks it serves the configured chain.
func (r *runtime) connect(ctx context.Context) error {
	r.logger.Sugar().Infow("Using chain",
		"chainId", r.cfg.ChainID,
		"chainName", r.cfg.ChainName,
		"rpcUrl", r.cfg.RpcUrl,
	)

	client, err := zksyncClient.NewZkSyncClient(&zksyncClient.ZkSyncClientConfig{
		RpcUrl:            r.cfg.RpcUrl,
		RequestsPerSecond: r.cfg.RequestsPerSecond,
	}, r.logger)
	if err != nil {
		return err
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return err
	}
	if chainID.Uint64() != uint64(r.cfg.ChainID) {
		return fmt.Errorf("rpc endpoint serves chain %s, expected %d", chainID, r.cfg.ChainID)
	}

	contractCaller, err := caller.NewContractCaller(client.ContractBackend(), r.logger)
	if err != nil {
		return err
	}
	r.client = client
	r.caller = contractCaller
	return nil
}

func (r *runtime) openStore() error {
	store, err := deploymentStore.NewDeploymentStore(&r.cfg.Persistence, r.logger)
	if err != nil {
		return err
	}
	r.store = store
	return nil
}

func (r *runtime) Close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.logger.Sugar().Warnw("Failed to close deployment store", "error", err)
		}
	}
	_ = r.logger.Sync()
}

func (r *runtime) awsConfig(ctx context.Context) (awsv2.Config, error) {
	if r.awsCfg != nil {
		return *r.awsCfg, nil
	}
	cfg, err := aws.LoadAWSConfig(ctx, r.awsRegion)
	if err != nil {
		return awsv2.Config{}, err
	}
	identity, err := aws.GetCallerIdentity(ctx, cfg)
	if err != nil {
		return awsv2.Config{}, err
	}
	r.logger.Sugar().Infow("Using AWS identity", "arn", identity, "region", cfg.Region)
	r.awsCfg = &cfg
	return cfg, nil
}

func (r *runtime) password(prompt string) ([]byte, error) {
	if r.keyPassword != nil {
		return r.keyPassword, nil
	}
	password, err := r.readPassword(prompt)
	if err != nil {
		return nil, err
	}
	r.keyPassword = password
	return password, nil
}

// fundingSigner returns the wallet paying for deployments and funding transfers.
func (r *runtime) fundingSigner(ctx context.Context) (transactionSigner.ITransactionSigner, error) {
	switch {
	case r.cfg.FundingPrivateKey != "":
		return transactionSigner.NewTransactionSigner(&transactionSigner.SignerConfig{PrivateKey: r.cfg.FundingPrivateKey}, r.logger)
	case r.cfg.FundingKMSKeyId != "":
		awsCfg, err := r.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		owner, err := awsKmsOwnerSigner.NewAWSKMSOwnerSignerFromConfig(ctx, awsCfg, r.cfg.FundingKMSKeyId, r.logger)
		if err != nil {
			return nil, err
		}
		return transactionSigner.NewOwnerKeySigner(owner, r.logger), nil
	default:
		return nil, fmt.Errorf("a funding wallet is required, set %s or %s", config.EnvAAFundingPrivateKey, config.EnvAAFundingKMSKeyID)
	}
}

// owner loads the owner key from its configured source. With no source configured a
// fresh key is generated; generated reports that case.
func (r *runtime) owner(ctx context.Context, name string, keyCfg config.OwnerKeyConfig) (signer ownerSigner.IOwnerSigner, generated bool, err error) {
	switch {
	case keyCfg.PrivateKey != "":
		signer, err = localOwnerSigner.NewLocalOwnerSignerFromHex(keyCfg.PrivateKey, r.logger)
	case keyCfg.KeyFile != "":
		var password []byte
		password, err = r.password(fmt.Sprintf("Password for %s key file %s: ", name, keyCfg.KeyFile))
		if err != nil {
			return nil, false, err
		}
		key, readErr := keyfile.Read(keyCfg.KeyFile, password)
		if readErr != nil {
			return nil, false, readErr
		}
		signer, err = localOwnerSigner.NewLocalOwnerSigner(key, r.logger)
	case keyCfg.KMSKeyId != "":
		awsCfg, cfgErr := r.awsConfig(ctx)
		if cfgErr != nil {
			return nil, false, cfgErr
		}
		signer, err = awsKmsOwnerSigner.NewAWSKMSOwnerSignerFromConfig(ctx, awsCfg, keyCfg.KMSKeyId, r.logger)
	default:
		var local *localOwnerSigner.LocalOwnerSigner
		local, err = localOwnerSigner.GenerateLocalOwnerSigner(r.logger)
		if err == nil {
			r.logger.Sugar().Warnw("No key configured, generated an ephemeral owner key",
				"owner", name,
				"address", local.Address().Hex(),
			)
			signer, generated = local, true
		}
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s key: %w", name, err)
	}
	return signer, generated, nil
}

// owners loads both owner keys in owner order.
func (r *runtime) owners(ctx context.Context) ([]ownerSigner.IOwnerSigner, error) {
	owner1, _, err := r.owner(ctx, "owner1", r.cfg.Owner1)
	if err != nil {
		return nil, err
	}
	owner2, _, err := r.owner(ctx, "owner2", r.cfg.Owner2)
	if err != nil {
		return nil, err
	}
	if owner1.Address() == owner2.Address() {
		return nil, fmt.Errorf("owner1 and owner2 must be different keys, both are %s", owner1.Address().Hex())
	}
	return []ownerSigner.IOwnerSigner{owner1, owner2}, nil
}

// deployer builds a deployer with the funding wallet. Read-only commands pass withFunder
// false and must not send transactions.
func (r *runtime) deployer(ctx context.Context, withFunder bool) (*multisigDeployer.MultisigDeployer, error) {
	var funder transactionSigner.ITransactionSigner
	if withFunder {
		var err error
		funder, err = r.fundingSigner(ctx)
		if err != nil {
			return nil, err
		}
		r.logger.Sugar().Infow("Using funding wallet", "address", funder.GetFromAddress().Hex())
	}
	return multisigDeployer.NewMultisigDeployer(r.client, r.caller, funder, r.store, r.logger), nil
}
