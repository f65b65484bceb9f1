package zksync

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// HashBytecode returns the versioned hash the rollup uses to identify deployable bytecode:
// version byte, a zero byte, the length in 32 byte words (big endian uint16) and the last
// 28 bytes of sha256(bytecode).
func HashBytecode(bytecode []byte) (common.Hash, error) {
	if len(bytecode) == 0 {
		return common.Hash{}, fmt.Errorf("bytecode is empty")
	}
	if len(bytecode)%32 != 0 {
		return common.Hash{}, fmt.Errorf("bytecode length in bytes must be divisible by 32, got %d", len(bytecode))
	}
	words := len(bytecode) / 32
	if words > MaxBytecodeWords {
		return common.Hash{}, fmt.Errorf("bytecode too long: %d words, max %d", words, MaxBytecodeWords)
	}
	if words%2 == 0 {
		return common.Hash{}, fmt.Errorf("bytecode length in 32-byte words must be odd, got %d", words)
	}

	digest := sha256.Sum256(bytecode)

	var hash common.Hash
	hash[0] = bytecodeHashVersion
	hash[1] = 0
	binary.BigEndian.PutUint16(hash[2:4], uint16(words))
	copy(hash[4:], digest[4:])
	return hash, nil
}

// BytecodeWords extracts the word length encoded in a versioned bytecode hash.
func BytecodeWords(hash common.Hash) (int, error) {
	if hash[0] != bytecodeHashVersion {
		return 0, fmt.Errorf("unsupported bytecode hash version %d", hash[0])
	}
	return int(binary.BigEndian.Uint16(hash[2:4])), nil
}
