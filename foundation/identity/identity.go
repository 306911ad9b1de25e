// Package identity provides the identifier a node is credited under when it
// mines a block.
package identity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// Resolve returns the node identifier. When a key file is configured the
// identifier is the address of its public key, otherwise a random one is
// generated for the life of the process.
func Resolve(keyPath string) (string, error) {
	if keyPath == "" {
		return Random(), nil
	}

	return FromKeyFile(keyPath)
}

// FromKeyFile loads the ECDSA private key stored at the path and returns the
// address of its public key.
func FromKeyFile(path string) (string, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return "", fmt.Errorf("loading key %q: %w", path, err)
	}

	return crypto.PubkeyToAddress(privateKey.PublicKey).Hex(), nil
}

// Random returns a random identifier with the dashes removed.
func Random() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GenerateKeyFile creates a new ECDSA private key, stores it at the path and
// returns the address of its public key.
func GenerateKeyFile(path string) (string, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generating key: %w", err)
	}

	if err := crypto.SaveECDSA(path, privateKey); err != nil {
		return "", fmt.Errorf("saving key %q: %w", path, err)
	}

	return crypto.PubkeyToAddress(privateKey.PublicKey).Hex(), nil
}
