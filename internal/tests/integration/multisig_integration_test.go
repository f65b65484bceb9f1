package integration

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/Layr-Labs/aa-multisig-go/internal/tests"
	"github.com/Layr-Labs/aa-multisig-go/pkg/artifacts"
	"github.com/Layr-Labs/aa-multisig-go/pkg/clients/zksyncClient"
	"github.com/Layr-Labs/aa-multisig-go/pkg/contractCaller/caller"
	"github.com/Layr-Labs/aa-multisig-go/pkg/logger"
	"github.com/Layr-Labs/aa-multisig-go/pkg/multisig"
	"github.com/Layr-Labs/aa-multisig-go/pkg/multisigDeployer"
	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence/memory"
	"github.com/Layr-Labs/aa-multisig-go/pkg/testutil"
	"github.com/Layr-Labs/aa-multisig-go/pkg/transactionSigner"
	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_MultisigLifecycle deploys the factory and a two-owner account on a local zkSync node,
// funds the account and sends a co-signed transaction from it.
func Test_MultisigLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping zkSync node integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	root := tests.GetProjectRootPath()
	chainConfig, env, err := tests.LoadIntegrationConfig(root)
	require.NoError(t, err)

	nodeClient := ethereum.NewEthereumClient(&ethereum.EthereumClientConfig{
		BaseUrl:   chainConfig.RpcUrl,
		BlockType: ethereum.BlockType_Latest,
	}, l)

	if env.StartNode {
		node, err := tests.StartEraNode(ctx, env.NodeBinary, env.NodePort)
		require.NoError(t, err)
		defer func() {
			if err := tests.KillNode(node); err != nil {
				t.Logf("Warning: failed to kill node: %v", err)
			}
		}()
		require.NoError(t, tests.WaitForNode(ctx, t, nodeClient))
	} else if !tests.NodeReachable(ctx, nodeClient) {
		t.Skipf("No zkSync node reachable at %s", chainConfig.RpcUrl)
	}

	factoryArtifact, err := artifacts.Find(chainConfig.ArtifactsDir, chainConfig.FactoryContract)
	if errors.Is(err, artifacts.ErrArtifactNotFound) {
		t.Skipf("Compiled artifacts not found in %s", chainConfig.ArtifactsDir)
	}
	require.NoError(t, err)
	accountArtifact, err := artifacts.Find(chainConfig.ArtifactsDir, chainConfig.AccountContract)
	require.NoError(t, err)

	client, err := zksyncClient.NewZkSyncClient(&zksyncClient.ZkSyncClientConfig{RpcUrl: chainConfig.RpcUrl}, l)
	require.NoError(t, err)

	chainId, err := client.ChainID(ctx)
	require.NoError(t, err)
	require.Equal(t, chainConfig.ChainId, chainId.Uint64())

	contractCaller, err := caller.NewContractCaller(client.ContractBackend(), l)
	require.NoError(t, err)

	funder, err := transactionSigner.NewPrivateKeySigner(chainConfig.RichWalletPrivateKey, l)
	require.NoError(t, err)

	store := memory.NewMemoryPersistence(l)
	deployer := multisigDeployer.NewMultisigDeployer(client, contractCaller, funder, store, l)

	// a fresh factory salt keeps reruns against a long lived node from colliding
	var factorySalt common.Hash
	_, err = rand.Read(factorySalt[:])
	require.NoError(t, err)

	factory, err := deployer.DeployFactory(ctx, factoryArtifact, accountArtifact, factorySalt)
	require.NoError(t, err)
	t.Logf("AA factory address: %s", factory.Address.Hex())

	owners := testutil.CreateTestOwners(t, 2)
	predicted, err := deployer.PredictAccountAddress(ctx, factory.Address, multisig.ZeroSalt, owners[0].Address(), owners[1].Address())
	require.NoError(t, err)

	account, err := deployer.DeployAccount(ctx, factory.Address, multisig.ZeroSalt, owners[0].Address(), owners[1].Address())
	require.NoError(t, err)
	require.Equal(t, predicted, account.Address)
	t.Logf("Multisig account address: %s", account.Address.Hex())

	fundAmount := big.NewInt(8_000_000_000_000_000)
	_, err = deployer.Fund(ctx, account.Address, fundAmount)
	require.NoError(t, err)

	balance, err := client.BalanceAt(ctx, account.Address)
	require.NoError(t, err)
	require.Equal(t, fundAmount, balance)

	newOwners := testutil.CreateTestOwners(t, 2)
	call, err := contractCaller.PopulateDeployAccount(factory.Address, multisig.ZeroSalt, newOwners[0].Address(), newOwners[1].Address())
	require.NoError(t, err)

	execution, err := deployer.ExecuteFromMultisig(ctx, account.Address, call, owners[0], owners[1])
	require.NoError(t, err)

	assert.Equal(t, uint64(0), execution.NonceBefore)
	assert.Equal(t, uint64(1), execution.NonceAfter)
	assert.Equal(t, -1, execution.BalanceAfter.Cmp(execution.BalanceBefore))

	records, err := store.ListAccounts(chainConfig.ChainId)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, account.Address, records[0].Address)
}
