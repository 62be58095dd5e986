package models

import "strings"

// Credential is the login pair for the online banking portal
type Credential struct {
	Identifier string
	Secret     string
}

// Complete reports whether both halves of the pair are present.
func (c Credential) Complete() bool {
	return c.Identifier != "" && c.Secret != ""
}

// Masked returns the identifier with all but its last three characters hidden, for logging.
func (c Credential) Masked() string {
	const visible = 3
	if len(c.Identifier) <= visible {
		return strings.Repeat("*", len(c.Identifier))
	}
	return strings.Repeat("*", len(c.Identifier)-visible) + c.Identifier[len(c.Identifier)-visible:]
}

// String never exposes the secret.
func (c Credential) String() string {
	return "Credential{" + c.Masked() + "}"
}
