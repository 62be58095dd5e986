package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
)

// KeyringStore keeps credentials in the operating system secret store
type KeyringStore struct {
	open func(service string) (keyring.Keyring, error)
}

// NewKeyringStore creates a store backed by the platform keyring, falling back to an encrypted file.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{open: openKeyring}
}

// openKeyring returns a configured keyring instance.
func openKeyring(service string) (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir(service),
		FilePasswordFunc:         keyring.FixedStringPrompt(service + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

func fileDir(service string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("~", ".config", service, "credentials")
	}
	return filepath.Join(dir, service, "credentials")
}

func (k *KeyringStore) Persistent() bool { return true }

// Get retrieves a credential value from the keyring.
func (k *KeyringStore) Get(service, account string) (string, error) {
	ring, err := k.open(service)
	if err != nil {
		return "", err
	}

	item, err := ring.Get(account)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", account, err)
	}
	if len(item.Data) == 0 {
		return "", ErrNotFound
	}

	return string(item.Data), nil
}

// Set stores a credential value in the keyring.
func (k *KeyringStore) Set(service, account, secret string) error {
	ring, err := k.open(service)
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   account,
		Data:  []byte(secret),
		Label: service + " " + account,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", account, err)
	}

	return nil
}

// Delete removes a credential from the keyring. Removing an absent key is not an error;
// the file backend reports one as a plain fs.ErrNotExist.
func (k *KeyringStore) Delete(service, account string) error {
	ring, err := k.open(service)
	if err != nil {
		return err
	}

	err = ring.Remove(account)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting credential %q: %w", account, err)
	}

	return nil
}
