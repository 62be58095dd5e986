package credential

import (
	"os"
	"strings"
)

// EnvStore reads the login pair from environment variables.
// Deleting a value unsets the variable for the rest of the process.
type EnvStore struct {
	IdentifierVar string
	SecretVar     string
}

func NewEnvStore(identifierVar, secretVar string) *EnvStore {
	return &EnvStore{IdentifierVar: identifierVar, SecretVar: secretVar}
}

func (e *EnvStore) variable(account string) string {
	switch {
	case account == IdentifierAccount:
		return e.IdentifierVar
	case strings.HasPrefix(account, IdentifierAccount+"_"):
		return e.SecretVar
	default:
		return ""
	}
}

func (e *EnvStore) Get(_, account string) (string, error) {
	name := e.variable(account)
	if name == "" {
		return "", ErrNotFound
	}
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

func (e *EnvStore) Set(_, account, secret string) error {
	name := e.variable(account)
	if name == "" {
		return nil
	}
	return os.Setenv(name, secret)
}

func (e *EnvStore) Delete(_, account string) error {
	name := e.variable(account)
	if name == "" {
		return nil
	}
	return os.Unsetenv(name)
}
