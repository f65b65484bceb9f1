// Package keyfile stores owner private keys on disk encrypted with a password.
package keyfile

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/term"
)

const (
	fileVersion  = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12
)

var ErrInvalidPassword = errors.New("invalid password")

// ScryptParams are the key derivation costs written into each file.
type ScryptParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

// DefaultScryptParams uses about 256MB of memory per derivation.
var DefaultScryptParams = ScryptParams{N: 1 << 18, R: 8, P: 1}

// OwnerKeyFile is the on-disk JSON envelope. Address is stored in clear so a file can be
// identified without the password.
type OwnerKeyFile struct {
	Version    int          `json:"version"`
	Address    string       `json:"address"`
	Scrypt     ScryptParams `json:"scrypt"`
	Salt       string       `json:"salt"`
	Nonce      string       `json:"nonce"`
	CipherText string       `json:"ciphertext"`
}

// Write encrypts privateKey under password and writes it to filePath with mode 0600.
// An existing non-empty file is never overwritten.
func Write(filePath string, privateKey *ecdsa.PrivateKey, password []byte, params ScryptParams) error {
	if privateKey == nil {
		return errors.New("private key cannot be nil")
	}
	if len(password) == 0 {
		return errors.New("password cannot be empty")
	}
	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return fmt.Errorf("file is not empty: %w", os.ErrExist)
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt, params)
	if err != nil {
		return err
	}

	plaintext := crypto.FromECDSA(privateKey)
	defer clear(plaintext)

	keyFile := OwnerKeyFile{
		Version:    fileVersion,
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey).Hex(),
		Scrypt:     params,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(aesGCM.Seal(nil, nonce, plaintext, nil)),
	}

	fileData, err := json.MarshalIndent(keyFile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key file: %w", err)
	}
	if err := os.WriteFile(filePath, fileData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Read decrypts the key stored at filePath and checks it against the stored address.
func Read(filePath string, password []byte) (*ecdsa.PrivateKey, error) {
	keyFile, err := load(filePath)
	if err != nil {
		return nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(keyFile.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(keyFile.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(keyFile.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aesGCM, err := newGCM(password, salt, keyFile.Scrypt)
	if err != nil {
		return nil, err
	}
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPassword
	}
	defer clear(plaintext)

	privateKey, err := crypto.ToECDSA(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to parse decrypted key: %w", err)
	}
	if crypto.PubkeyToAddress(privateKey.PublicKey) != common.HexToAddress(keyFile.Address) {
		return nil, fmt.Errorf("decrypted key does not match address %s", keyFile.Address)
	}
	return privateKey, nil
}

// ReadAddress returns the owner address without decrypting the key.
func ReadAddress(filePath string) (common.Address, error) {
	keyFile, err := load(filePath)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(keyFile.Address) {
		return common.Address{}, fmt.Errorf("invalid address %q in key file", keyFile.Address)
	}
	return common.HexToAddress(keyFile.Address), nil
}

// PromptPassword reads a password from the terminal without echoing it.
func PromptPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(strings.TrimSpace(string(password))) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return password, nil
}

func load(filePath string) (*OwnerKeyFile, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("key file %s does not exist", filePath)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(fileData) == 0 {
		return nil, errors.New("file is empty")
	}

	var keyFile OwnerKeyFile
	if err := json.Unmarshal(fileData, &keyFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key file: %w", err)
	}
	if keyFile.Version != fileVersion {
		return nil, fmt.Errorf("unsupported key file version %d", keyFile.Version)
	}
	return &keyFile, nil
}

func newGCM(password, salt []byte, params ScryptParams) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, params.N, params.R, params.P, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
