// Package auth issues and verifies the credentials of the development server:
// PASETO access tokens, opaque refresh tokens and argon2id password hashes.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// PASETO v4 local tokens use a 256-bit symmetric key.
	keyLength    = 32
	keyHexLength = keyLength * 2

	keyFileName = "devserver.key"
)

// GenerateKey returns a fresh random symmetric key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// LoadOrGenerateKey reads the hex-encoded key from dir, creating it when it
// does not exist yet, so issued tokens survive a server restart.
func LoadOrGenerateKey(dir string) ([]byte, error) {
	path := filepath.Join(dir, keyFileName)

	//#nosec G304 -- path is built from the configured data directory
	if data, err := os.ReadFile(path); err == nil {
		keyHex := strings.TrimSpace(string(data))
		if len(keyHex) != keyHexLength {
			return nil, fmt.Errorf("invalid key length in %s: expected %d hex chars, got %d", path, keyHexLength, len(keyHex))
		}
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid key in %s: %w", path, err)
		}
		return key, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read key: %w", err)
	}

	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("save key: %w", err)
	}
	return key, nil
}
