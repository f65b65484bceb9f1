package testutil

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Layr-Labs/aa-multisig-go/pkg/artifacts"
	"github.com/Layr-Labs/aa-multisig-go/pkg/ownerSigner/localOwnerSigner"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

const factoryConstructorAbi = `[{"type":"constructor","inputs":[{"name":"_aaBytecodeHash","type":"bytes32"}],"stateMutability":"nonpayable"}]`

// CreateTestOwners generates n random owner keys.
func CreateTestOwners(t *testing.T, n int) []*localOwnerSigner.LocalOwnerSigner {
	owners := make([]*localOwnerSigner.LocalOwnerSigner, n)
	for i := range owners {
		owner, err := localOwnerSigner.GenerateLocalOwnerSigner(zap.NewNop())
		if err != nil {
			t.Fatalf("Failed to generate owner key: %v", err)
		}
		owners[i] = owner
	}
	return owners
}

// CreateTestArtifacts returns a factory and an account artifact with distinct, well formed
// bytecode. The factory artifact lists the account as a dependency.
func CreateTestArtifacts(t *testing.T) (factory *artifacts.Artifact, account *artifacts.Artifact) {
	account = parseArtifact(t, "TwoUserMultisig", `[]`, bytes.Repeat([]byte{0x01}, 32*5), nil)
	factory = parseArtifact(t, "AAFactory", factoryConstructorAbi, bytes.Repeat([]byte{0x02}, 32*3),
		map[string]string{account.BytecodeHash().Hex(): "contracts/TwoUserMultisig.sol:TwoUserMultisig"})
	return factory, account
}

// ArtifactJSON renders an artifact the way the zkSync hardhat plugin writes it.
func ArtifactJSON(t *testing.T, name, abiJson string, bytecode []byte, deps map[string]string) []byte {
	contents, err := json.Marshal(map[string]interface{}{
		"_format":      "hh-zksolc-artifact-1",
		"contractName": name,
		"sourceName":   "contracts/" + name + ".sol",
		"abi":          json.RawMessage(abiJson),
		"bytecode":     hexutil.Encode(bytecode),
		"factoryDeps":  deps,
	})
	if err != nil {
		t.Fatalf("Failed to marshal artifact: %v", err)
	}
	return contents
}

func parseArtifact(t *testing.T, name, abiJson string, bytecode []byte, deps map[string]string) *artifacts.Artifact {
	artifact, err := artifacts.Parse(ArtifactJSON(t, name, abiJson, bytecode, deps))
	if err != nil {
		t.Fatalf("Failed to parse %s artifact: %v", name, err)
	}
	return artifact
}

// FactoryConstructorAbi is the constructor fragment of the account factory.
func FactoryConstructorAbi() string {
	return factoryConstructorAbi
}
