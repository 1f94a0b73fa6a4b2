package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/99designs/keyring"
)

const (
	keychainService = "gasmon"
	apiKeyRef       = keychainService + ".etherscan"
)

// ErrKeyNotFound is returned when the keychain holds no API key.
var ErrKeyNotFound = errors.New("no API key stored in keychain")

// Keystore wraps OS keychain access for the Etherscan API key.
type Keystore struct {
	ring keyring.Keyring
}

// NewKeystore wraps an already opened keyring.
func NewKeystore(ring keyring.Keyring) *Keystore {
	return &Keystore{ring: ring}
}

// DefaultKeystore returns a keystore backed by the OS keychain.
func DefaultKeystore(dir string) *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt(keychainService),
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		// Use file backend as ultimate fallback.
		ring, err = keyring.Open(keyring.Config{
			ServiceName:      keychainService,
			AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
			FileDir:          dir,
			FilePasswordFunc: keyring.FixedStringPrompt(keychainService),
		})
		if err != nil {
			return &Keystore{}
		}
	}

	return &Keystore{ring: ring}
}

// Store saves the API key.
func (k *Keystore) Store(apiKey string) error {
	if k.ring == nil {
		return fmt.Errorf("keystore not available")
	}
	err := k.ring.Set(keyring.Item{
		Key:   apiKeyRef,
		Data:  []byte(apiKey),
		Label: "gasmon Etherscan API key",
	})
	if err != nil {
		return fmt.Errorf("keychain store: %w", err)
	}
	return nil
}

// Retrieve returns the stored API key or ErrKeyNotFound.
func (k *Keystore) Retrieve() (string, error) {
	if k.ring == nil {
		return "", ErrKeyNotFound
	}
	item, err := k.ring.Get(apiKeyRef)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes the stored key. Deleting a missing key is not an error.
func (k *Keystore) Delete() error {
	if k.ring == nil {
		return nil
	}
	err := k.ring.Remove(apiKeyRef)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}
