package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Layr-Labs/aa-multisig-go/pkg/artifacts"
	"github.com/Layr-Labs/aa-multisig-go/pkg/config"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner/awsKmsOwnerSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner/keyfile"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner/localOwnerSigner"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
)

func deployFactoryCommand(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	factoryArtifact, err := artifacts.Find(rt.cfg.ArtifactsDir, c.String("factory-contract"))
	if err != nil {
		return err
	}
	accountArtifact, err := artifacts.Find(rt.cfg.ArtifactsDir, c.String("account-contract"))
	if err != nil {
		return err
	}
	if !factoryArtifact.DependsOn(accountArtifact) {
		rt.logger.Sugar().Warnw("Factory artifact does not list the account bytecode as a dependency",
			"factory", factoryArtifact.ContractName,
			"account", accountArtifact.ContractName,
		)
	}

	salt, err := config.ParseSalt(c.String("factory-salt"))
	if err != nil {
		return err
	}

	deployer, err := rt.deployer(c.Context, true)
	if err != nil {
		return err
	}
	deployment, err := deployer.DeployFactory(c.Context, factoryArtifact, accountArtifact, salt)
	if err != nil {
		return err
	}

	fmt.Printf("AA factory address: %s\n", deployment.Address.Hex())
	fmt.Printf("Account bytecode hash: %s\n", deployment.AccountBytecodeHash.Hex())
	fmt.Printf("Transaction: %s\n", deployment.TxHash.Hex())
	return nil
}

// deployCommand runs the whole flow: deploy the account, fund it, then send a transaction
// from it that both owners co-sign.
func deployCommand(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	factory, err := rt.cfg.GetFactoryAddress()
	if err != nil {
		return err
	}
	salt, err := config.ParseSalt(rt.cfg.Salt)
	if err != nil {
		return err
	}
	amount, err := parseEther(c.String("amount"))
	if err != nil {
		return err
	}

	owners, err := rt.owners(c.Context)
	if err != nil {
		return err
	}
	deployer, err := rt.deployer(c.Context, true)
	if err != nil {
		return err
	}

	account, err := deployer.DeployAccount(c.Context, factory, salt, owners[0].Address(), owners[1].Address())
	if err != nil {
		return err
	}
	fmt.Printf("Multisig account deployed on address %s\n", account.Address.Hex())

	if _, err := deployer.Fund(c.Context, account.Address, amount); err != nil {
		return err
	}
	balance, err := rt.client.BalanceAt(c.Context, account.Address)
	if err != nil {
		return err
	}
	fmt.Printf("Multisig account balance is %s ETH\n", formatEther(balance))

	if c.Bool("skip-transaction") {
		return nil
	}

	// The co-signed transaction deploys another account for two throwaway owners.
	newOwner1, err := localOwnerSigner.GenerateLocalOwnerSigner(rt.logger)
	if err != nil {
		return err
	}
	newOwner2, err := localOwnerSigner.GenerateLocalOwnerSigner(rt.logger)
	if err != nil {
		return err
	}
	call, err := rt.caller.PopulateDeployAccount(factory, salt, newOwner1.Address(), newOwner2.Address())
	if err != nil {
		return err
	}

	execution, err := deployer.ExecuteFromMultisig(c.Context, account.Address, call, owners...)
	if execution != nil {
		fmt.Printf("The multisig's nonce before the first tx is %d\n", execution.NonceBefore)
		fmt.Printf("Transaction: %s\n", execution.TxHash.Hex())
		fmt.Printf("The multisig's nonce after the first tx is %d\n", execution.NonceAfter)
		fmt.Printf("Fee paid: %s ETH\n", formatEther(execution.Fee))
	}
	return err
}

func predictAddressCommand(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	factory, err := rt.cfg.GetFactoryAddress()
	if err != nil {
		return err
	}
	salt, err := config.ParseSalt(rt.cfg.Salt)
	if err != nil {
		return err
	}

	owner1, err := ownerAddress(c, rt, "owner1", rt.cfg.Owner1)
	if err != nil {
		return err
	}
	owner2, err := ownerAddress(c, rt, "owner2", rt.cfg.Owner2)
	if err != nil {
		return err
	}

	deployer, err := rt.deployer(c.Context, false)
	if err != nil {
		return err
	}
	address, err := deployer.PredictAccountAddress(c.Context, factory, salt, owner1, owner2)
	if err != nil {
		return err
	}
	fmt.Printf("Multisig account address: %s\n", address.Hex())
	return nil
}

// ownerAddress prefers an explicit address flag, then the address stored in a key file
// (no password needed), then the configured key.
func ownerAddress(c *cli.Context, rt *runtime, name string, keyCfg config.OwnerKeyConfig) (common.Address, error) {
	if flag := c.String(name + "-address"); flag != "" {
		if !common.IsHexAddress(flag) {
			return common.Address{}, fmt.Errorf("invalid %s address %q", name, flag)
		}
		return common.HexToAddress(flag), nil
	}
	if keyCfg.IsEmpty() {
		return common.Address{}, fmt.Errorf("%s is required: pass --%s-address or configure its key", name, name)
	}
	if keyCfg.KeyFile != "" {
		return keyfile.ReadAddress(keyCfg.KeyFile)
	}
	signer, _, err := rt.owner(c.Context, name, keyCfg)
	if err != nil {
		return common.Address{}, err
	}
	return signer.Address(), nil
}

func fundCommand(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	to := c.String("to")
	if !common.IsHexAddress(to) {
		return fmt.Errorf("invalid recipient address %q", to)
	}
	amount, err := parseEther(c.String("amount"))
	if err != nil {
		return err
	}

	deployer, err := rt.deployer(c.Context, true)
	if err != nil {
		return err
	}
	receipt, err := deployer.Fund(c.Context, common.HexToAddress(to), amount)
	if err != nil {
		return err
	}
	fmt.Printf("Sent %s ETH to %s in %s\n", formatEther(amount), common.HexToAddress(to).Hex(), receipt.TxHash.Hex())
	return nil
}

func balanceCommand(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	address := c.String("address")
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid address %q", address)
	}
	account := common.HexToAddress(address)

	balance, err := rt.client.BalanceAt(c.Context, account)
	if err != nil {
		return err
	}
	nonce, err := rt.client.NonceAt(c.Context, account)
	if err != nil {
		return err
	}
	fmt.Printf("Address: %s\n", account.Hex())
	fmt.Printf("Balance: %s ETH\n", formatEther(balance))
	fmt.Printf("Nonce: %d\n", nonce)
	return nil
}

func generateOwnerCommand(c *cli.Context) error {
	rt, err := newOfflineRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	name := c.String("name")
	if c.Bool("kms") {
		awsCfg, err := rt.awsConfig(c.Context)
		if err != nil {
			return err
		}
		kmsClient := kms.NewFromConfig(awsCfg)
		alias := fmt.Sprintf("aa-multisig-%s-%s", rt.cfg.ChainName, name)
		keyId, err := awsKmsOwnerSigner.CreateOwnerKey(c.Context, kmsClient, name, alias, string(rt.cfg.ChainName))
		if err != nil {
			return err
		}
		signer, err := awsKmsOwnerSigner.NewAWSKMSOwnerSigner(c.Context, kmsClient, keyId, rt.logger)
		if err != nil {
			return err
		}
		fmt.Printf("KMS key id: %s\n", keyId)
		fmt.Printf("Alias: alias/%s\n", alias)
		fmt.Printf("Owner address: %s\n", signer.Address().Hex())
		return nil
	}

	out := c.String("out")
	if out == "" {
		return fmt.Errorf("--out is required unless --kms is set")
	}
	if _, err := os.Stat(out); err == nil {
		return fmt.Errorf("refusing to overwrite existing key file %s", out)
	}

	password, err := newKeyFilePassword(rt)
	if err != nil {
		return err
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := keyfile.Write(out, key, password, keyfile.DefaultScryptParams); err != nil {
		return err
	}
	fmt.Printf("Key file: %s\n", out)
	fmt.Printf("Owner address: %s\n", crypto.PubkeyToAddress(key.PublicKey).Hex())
	return nil
}

// newKeyFilePassword uses the configured password or asks for one twice.
func newKeyFilePassword(rt *runtime) ([]byte, error) {
	if rt.keyPassword != nil {
		return rt.keyPassword, nil
	}
	password, err := rt.readPassword("New key file password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := rt.readPassword("Repeat password: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(password, confirm) {
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

func recordsCommand(c *cli.Context) error {
	rt, err := newOfflineRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.openStore(); err != nil {
		return err
	}

	chainId := uint64(rt.cfg.ChainID)
	factories, err := rt.store.ListFactories(chainId)
	if err != nil {
		return err
	}
	accounts, err := rt.store.ListAccounts(chainId)
	if err != nil {
		return err
	}

	fmt.Printf("Factories on %s (%d):\n", rt.cfg.ChainName, len(factories))
	for _, f := range factories {
		fmt.Printf("  %s  deployer=%s  accountBytecodeHash=%s  tx=%s\n",
			f.Address.Hex(), f.Deployer.Hex(), f.AccountBytecodeHash.Hex(), f.DeployTxHash.Hex())
	}
	fmt.Printf("Accounts on %s (%d):\n", rt.cfg.ChainName, len(accounts))
	for _, a := range accounts {
		fmt.Printf("  %s  factory=%s  owner1=%s  owner2=%s  tx=%s\n",
			a.Address.Hex(), a.Factory.Hex(), a.Owner1.Hex(), a.Owner2.Hex(), a.DeployTxHash.Hex())
	}
	return nil
}
