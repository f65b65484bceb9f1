package artifacts

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const factoryAbi = `[{"type":"constructor","inputs":[{"name":"_aaBytecodeHash","type":"bytes32"}],"stateMutability":"nonpayable"},{"type":"function","name":"aaBytecodeHash","inputs":[],"outputs":[{"name":"","type":"bytes32"}],"stateMutability":"view"}]`

func writeArtifact(t *testing.T, dir, name string, bytecode []byte, deps map[string]string) string {
	contents, err := json.Marshal(map[string]interface{}{
		"_format":      "hh-zksolc-artifact-1",
		"contractName": name,
		"sourceName":   "contracts/" + name + ".sol",
		"abi":          json.RawMessage(factoryAbi),
		"bytecode":     hexutil.Encode(bytecode),
		"factoryDeps":  deps,
	})
	require.NoError(t, err)

	path := filepath.Join(dir, "contracts", name+".sol", name+".json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, contents, 0644))
	return path
}

func Test_Artifacts(t *testing.T) {
	accountBytecode := bytes.Repeat([]byte{0x01}, 32*5)
	accountHash, err := zksync.HashBytecode(accountBytecode)
	require.NoError(t, err)

	dir := t.TempDir()
	writeArtifact(t, dir, "TwoUserMultisig", accountBytecode, nil)
	writeArtifact(t, dir, "AAFactory", bytes.Repeat([]byte{0x02}, 32*3), map[string]string{
		accountHash.Hex(): "contracts/TwoUserMultisig.sol:TwoUserMultisig",
	})

	t.Run("Should find and load artifacts by contract name", func(t *testing.T) {
		account, err := Find(dir, "TwoUserMultisig")
		require.NoError(t, err)
		assert.Equal(t, "TwoUserMultisig", account.ContractName)
		assert.Equal(t, accountHash, account.BytecodeHash())

		factory, err := Find(dir, "AAFactory")
		require.NoError(t, err)
		_, ok := factory.ABI.Methods["aaBytecodeHash"]
		assert.True(t, ok)
		assert.True(t, factory.DependsOn(account))
		assert.False(t, account.DependsOn(factory))
	})

	t.Run("Should report a missing artifact", func(t *testing.T) {
		_, err := Find(dir, "Missing")
		assert.ErrorIs(t, err, ErrArtifactNotFound)
	})

	t.Run("Should reject bytecode the deployer would refuse", func(t *testing.T) {
		badDir := t.TempDir()
		path := writeArtifact(t, badDir, "Even", bytes.Repeat([]byte{0x01}, 32*2), nil)
		_, err := Load(path)
		assert.Error(t, err)
	})
}
