// Package artifacts reads compiler output for the factory and account contracts.
package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var ErrArtifactNotFound = errors.New("artifact not found")

type artifactFile struct {
	Format       string            `json:"_format"`
	ContractName string            `json:"contractName"`
	SourceName   string            `json:"sourceName"`
	Abi          json.RawMessage   `json:"abi"`
	Bytecode     string            `json:"bytecode"`
	FactoryDeps  map[string]string `json:"factoryDeps"`
}

type Artifact struct {
	ContractName string
	SourceName   string
	ABI          abi.ABI
	Bytecode     []byte
	// FactoryDeps maps the bytecode hash of each dependency to its contract name.
	FactoryDeps map[common.Hash]string
}

// Parse decodes an artifact and checks the bytecode is deployable.
func Parse(data []byte) (*Artifact, error) {
	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	if file.ContractName == "" {
		return nil, fmt.Errorf("artifact has no contract name")
	}

	parsedAbi, err := abi.JSON(bytes.NewReader(file.Abi))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi of %s: %w", file.ContractName, err)
	}

	bytecode, err := hexutil.Decode(file.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bytecode of %s: %w", file.ContractName, err)
	}
	if _, err := zksync.HashBytecode(bytecode); err != nil {
		return nil, fmt.Errorf("invalid bytecode for %s: %w", file.ContractName, err)
	}

	deps := make(map[common.Hash]string, len(file.FactoryDeps))
	for hash, name := range file.FactoryDeps {
		deps[common.HexToHash(hash)] = name
	}

	return &Artifact{
		ContractName: file.ContractName,
		SourceName:   file.SourceName,
		ABI:          parsedAbi,
		Bytecode:     bytecode,
		FactoryDeps:  deps,
	}, nil
}

func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return Parse(data)
}

// Find looks for <contractName>.json anywhere below dir, the layout compilers write.
func Find(dir, contractName string) (*Artifact, error) {
	var found string
	target := contractName + ".json"
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == target {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", dir, err)
	}
	if found == "" {
		return nil, fmt.Errorf("%w: %s in %s", ErrArtifactNotFound, contractName, dir)
	}
	return Load(found)
}

func (a *Artifact) BytecodeHash() common.Hash {
	// validated in Parse
	hash, _ := zksync.HashBytecode(a.Bytecode)
	return hash
}

// DependsOn reports whether other is listed as a factory dependency.
func (a *Artifact) DependsOn(other *Artifact) bool {
	_, ok := a.FactoryDeps[other.BytecodeHash()]
	return ok
}
