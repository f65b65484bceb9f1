package keyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = ScryptParams{N: 1 << 10, R: 8, P: 1}

func Test_KeyFile(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)
	password := []byte("correct horse battery staple")

	t.Run("Should decrypt what was written", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "owner1.json")
		require.NoError(t, Write(path, key, password, testParams))

		decrypted, err := Read(path, password)
		require.NoError(t, err)
		assert.Equal(t, crypto.FromECDSA(key), crypto.FromECDSA(decrypted))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("Should read the address without the password", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "owner1.json")
		require.NoError(t, Write(path, key, password, testParams))

		stored, err := ReadAddress(path)
		require.NoError(t, err)
		assert.Equal(t, address, stored)
	})

	t.Run("Should reject a wrong password", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "owner1.json")
		require.NoError(t, Write(path, key, password, testParams))

		_, err := Read(path, []byte("wrong"))
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("Should refuse to overwrite an existing key file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "owner1.json")
		require.NoError(t, Write(path, key, password, testParams))

		err := Write(path, key, password, testParams)
		assert.ErrorIs(t, err, os.ErrExist)
	})

	t.Run("Should fail on a missing file", func(t *testing.T) {
		_, err := Read(filepath.Join(t.TempDir(), "missing.json"), password)
		assert.Error(t, err)
	})
}
