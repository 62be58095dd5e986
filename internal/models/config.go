package models

import "time"

// NoLimit disables truncation of the inbox listing
const NoLimit = -1

// Config represents the application configuration
type Config struct {
	Portal      PortalConfig      `yaml:"portal"`
	Browser     BrowserConfig     `yaml:"browser"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Log         LogConfig         `yaml:"log"`
	Output      OutputConfig      `yaml:"output"`
	Limit       int               `yaml:"limit"`
}

// PortalConfig holds the online banking addresses and wait bounds
type PortalConfig struct {
	LoginURL          string        `yaml:"loginURL"`
	MailURL           string        `yaml:"mailURL"`
	MessageURL        string        `yaml:"messageURL"` // one %s for the message id
	Timeout           time.Duration `yaml:"timeout"`
	NavigationTimeout time.Duration `yaml:"navigationTimeout"`
}

// BrowserConfig controls how the browser process is launched
type BrowserConfig struct {
	Show      bool   `yaml:"show"`
	Bin       string `yaml:"bin"`
	NoSandbox bool   `yaml:"noSandbox"`
	Stealth   bool   `yaml:"stealth"`
}

// CredentialsConfig selects the credential tiers and their keys
type CredentialsConfig struct {
	Service       string   `yaml:"service"`
	Tiers         []string `yaml:"tiers"`
	IdentifierEnv string   `yaml:"identifierEnv"`
	SecretEnv     string   `yaml:"secretEnv"`
	EnvFile       string   `yaml:"envFile"`
}

// LogConfig represents logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OutputConfig selects how retrieved messages are written
type OutputConfig struct {
	Format      string `yaml:"format"`
	FromAddress string `yaml:"fromAddress"`
}
