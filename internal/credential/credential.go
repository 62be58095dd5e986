package credential

import (
	"errors"
)

// IdentifierAccount is the account key the login identifier is stored under.
// The secret is stored under SecretAccount(identifier).
const IdentifierAccount = "PAN"

var (
	// ErrNotFound is returned by a Store that holds no value for the account.
	ErrNotFound = errors.New("credential not found")
	// ErrNoCredentials is returned when every tier came up empty.
	ErrNoCredentials = errors.New("unable to log into online banking without a PAN and password")
)

// Store is one tier of the credential lookup chain
type Store interface {
	Get(service, account string) (string, error)
	Set(service, account, secret string) error
	Delete(service, account string) error
}

// Interactive is implemented by tiers that ask the operator for values.
type Interactive interface {
	Interactive() bool
}

// Persistent is implemented by tiers that keep values across runs.
type Persistent interface {
	Persistent() bool
}

// SecretAccount returns the account key the secret for identifier is stored under
func SecretAccount(identifier string) string {
	return IdentifierAccount + "_" + identifier
}

func isInteractive(s Store) bool {
	i, ok := s.(Interactive)
	return ok && i.Interactive()
}

func isPersistent(s Store) bool {
	p, ok := s.(Persistent)
	return ok && p.Persistent()
}
