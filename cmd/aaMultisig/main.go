package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Layr-Labs/aa-multisig-go/pkg/config"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "aa-multisig",
		Usage: "Deploy and operate two-owner multisig accounts on zkSync Era",
		Description: `Deploys the account factory and two-owner multisig accounts through zkSync native
account abstraction, funds them and sends transactions co-signed by both owners.

Owner keys can be raw private keys, encrypted key files or AWS KMS keys.`,
		Version: "1.0.0",
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			{
				Name:  "deploy-factory",
				Usage: "Deploy the account factory from compiled artifacts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "factory-contract",
						Usage: "Contract name of the factory artifact",
						Value: "AAFactory",
					},
					&cli.StringFlag{
						Name:  "account-contract",
						Usage: "Contract name of the multisig account artifact",
						Value: "TwoUserMultisig",
					},
					&cli.StringFlag{
						Name:  "factory-salt",
						Usage: "32 byte hex salt for the factory deployment (default zero)",
					},
				},
				Action: deployFactoryCommand,
			},
			{
				Name:  "deploy",
				Usage: "Deploy a multisig account, fund it and send a co-signed transaction from it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "amount",
						Usage: "Amount of ETH to fund the account with",
						Value: "0.008",
					},
					&cli.BoolFlag{
						Name:  "skip-transaction",
						Usage: "Stop after deploying and funding the account",
					},
				},
				Action: deployCommand,
			},
			{
				Name:  "predict-address",
				Usage: "Derive the address a multisig account will be deployed to",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "owner1-address",
						Usage: "First owner address (defaults to the configured owner1 key)",
					},
					&cli.StringFlag{
						Name:  "owner2-address",
						Usage: "Second owner address (defaults to the configured owner2 key)",
					},
				},
				Action: predictAddressCommand,
			},
			{
				Name:  "fund",
				Usage: "Send ETH from the funding wallet",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Recipient address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "amount",
						Usage:    "Amount of ETH",
						Required: true,
					},
				},
				Action: fundCommand,
			},
			{
				Name:  "balance",
				Usage: "Show balance and nonce of an address",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "address",
						Usage:    "Account address",
						Required: true,
					},
				},
				Action: balanceCommand,
			},
			{
				Name:  "generate-owner",
				Usage: "Create a new owner key in an encrypted key file or in AWS KMS",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Path of the encrypted key file to write",
					},
					&cli.BoolFlag{
						Name:  "kms",
						Usage: "Create the key in AWS KMS instead of a key file",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Key name, used for the KMS description and alias",
						Value: "owner",
					},
				},
				Action: generateOwnerCommand,
			},
			{
				Name:   "records",
				Usage:  "List factories and accounts deployed on the configured chain",
				Action: recordsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{
			Name:    "chain-id",
			Aliases: []string{"chain"},
			Usage:   fmt.Sprintf("zkSync chain ID: %s", config.GetSupportedChainIDsString()),
			Value:   uint64(config.ChainId_ZkSyncEraLocal),
			EnvVars: []string{config.EnvAAChainID},
		},
		&cli.StringFlag{
			Name:    "rpc-url",
			Aliases: []string{"rpc"},
			Usage:   "zkSync RPC endpoint URL (defaults to the public endpoint of the chain)",
			EnvVars: []string{config.EnvAARpcURL},
		},
		&cli.StringFlag{
			Name:    "networks-file",
			Usage:   "TOML file with per chain RPC URLs and factory addresses",
			EnvVars: []string{config.EnvAANetworksFile},
		},
		&cli.Float64Flag{
			Name:    "requests-per-second",
			Usage:   "Client side RPC rate limit, 0 for none",
			EnvVars: []string{config.EnvAARequestsPerSecond},
		},
		&cli.StringFlag{
			Name:    "funding-private-key",
			Usage:   "Private key (hex) of the wallet paying for deployments",
			EnvVars: []string{config.EnvAAFundingPrivateKey},
		},
		&cli.StringFlag{
			Name:    "funding-kms-key-id",
			Usage:   "AWS KMS key id of the wallet paying for deployments",
			EnvVars: []string{config.EnvAAFundingKMSKeyID},
		},
		&cli.StringFlag{
			Name:    "factory-address",
			Aliases: []string{"factory"},
			Usage:   "Address of the deployed account factory",
			EnvVars: []string{config.EnvAAFactoryAddress},
		},
		&cli.StringFlag{
			Name:    "artifacts-dir",
			Usage:   "Directory holding the compiled zkSync artifacts",
			Value:   "artifacts-zk",
			EnvVars: []string{config.EnvAAArtifactsDir},
		},
		&cli.StringFlag{
			Name:    "salt",
			Usage:   "32 byte hex salt for the account deployment (default zero)",
			EnvVars: []string{config.EnvAASalt},
		},
		&cli.StringFlag{
			Name:    "owner1-private-key",
			Usage:   "First owner private key (hex)",
			EnvVars: []string{config.EnvAAOwner1PrivateKey},
		},
		&cli.StringFlag{
			Name:    "owner1-key-file",
			Usage:   "First owner encrypted key file",
			EnvVars: []string{config.EnvAAOwner1KeyFile},
		},
		&cli.StringFlag{
			Name:    "owner1-kms-key-id",
			Usage:   "First owner AWS KMS key id",
			EnvVars: []string{config.EnvAAOwner1KMSKeyID},
		},
		&cli.StringFlag{
			Name:    "owner2-private-key",
			Usage:   "Second owner private key (hex)",
			EnvVars: []string{config.EnvAAOwner2PrivateKey},
		},
		&cli.StringFlag{
			Name:    "owner2-key-file",
			Usage:   "Second owner encrypted key file",
			EnvVars: []string{config.EnvAAOwner2KeyFile},
		},
		&cli.StringFlag{
			Name:    "owner2-kms-key-id",
			Usage:   "Second owner AWS KMS key id",
			EnvVars: []string{config.EnvAAOwner2KMSKeyID},
		},
		&cli.StringFlag{
			Name:    "key-file-password",
			Usage:   "Password for key files (prompted when not set)",
			EnvVars: []string{config.EnvAAKeyFilePassword},
		},
		&cli.StringFlag{
			Name:    "persistence-type",
			Usage:   "Where deployment records are kept: memory, badger or redis",
			Value:   string(config.PersistenceType_Memory),
			EnvVars: []string{config.EnvAAPersistenceType},
		},
		&cli.StringFlag{
			Name:    "badger-dir",
			Usage:   "Data directory for badger persistence",
			EnvVars: []string{config.EnvAABadgerDir},
		},
		&cli.StringFlag{
			Name:    "redis-address",
			Usage:   "Redis host:port for redis persistence",
			EnvVars: []string{config.EnvAARedisAddress},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			EnvVars: []string{config.EnvAARedisPassword},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Redis database number",
			EnvVars: []string{config.EnvAARedisDB},
		},
		&cli.StringFlag{
			Name:    "aws-region",
			Usage:   "AWS region for KMS keys",
			EnvVars: []string{config.EnvAAAWSRegion},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "Enable verbose logging",
			EnvVars: []string{config.EnvAAVerbose},
		},
	}
}

func parseMultisigConfig(c *cli.Context) *config.MultisigConfig {
	return &config.MultisigConfig{
		ChainID:           config.ChainId(c.Uint64("chain-id")),
		RpcUrl:            c.String("rpc-url"),
		RequestsPerSecond: c.Float64("requests-per-second"),
		FundingPrivateKey: c.String("funding-private-key"),
		FundingKMSKeyId:   c.String("funding-kms-key-id"),
		FactoryAddress:    c.String("factory-address"),
		ArtifactsDir:      c.String("artifacts-dir"),
		Salt:              c.String("salt"),
		Owner1: config.OwnerKeyConfig{
			PrivateKey: c.String("owner1-private-key"),
			KeyFile:    c.String("owner1-key-file"),
			KMSKeyId:   c.String("owner1-kms-key-id"),
		},
		Owner2: config.OwnerKeyConfig{
			PrivateKey: c.String("owner2-private-key"),
			KeyFile:    c.String("owner2-key-file"),
			KMSKeyId:   c.String("owner2-kms-key-id"),
		},
		Persistence: config.PersistenceConfig{
			Type:          config.PersistenceType(c.String("persistence-type")),
			BadgerDir:     c.String("badger-dir"),
			RedisAddress:  c.String("redis-address"),
			RedisPassword: c.String("redis-password"),
			RedisDB:       c.Int("redis-db"),
		},
		Verbose: c.Bool("verbose"),
	}
}
