package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"retrieve-bankmail/internal/bankwest"
	"retrieve-bankmail/internal/models"

	"gopkg.in/yaml.v2"
)

const (
	DefaultPath    = "config.yaml"
	DefaultService = "retrieve-bankmail"
)

// Tier names accepted in credentials.tiers
const (
	TierKeyring = "keyring"
	TierEnv     = "env"
	TierPrompt  = "prompt"
)

// Output formats
const (
	FormatLog  = "log"
	FormatMbox = "mbox"
)

// Default returns the configuration used when no file overrides it
func Default() *models.Config {
	return &models.Config{
		Portal: models.PortalConfig{
			LoginURL:          bankwest.LoginPage,
			MailURL:           bankwest.MailPage,
			MessageURL:        bankwest.MessagePage,
			Timeout:           30 * time.Second,
			NavigationTimeout: 60 * time.Second,
		},
		Browser: models.BrowserConfig{
			NoSandbox: true,
			Stealth:   true,
		},
		Credentials: models.CredentialsConfig{
			Service:       DefaultService,
			Tiers:         []string{TierKeyring, TierEnv, TierPrompt},
			IdentifierEnv: "PAN",
			SecretEnv:     "PASSWORD",
			EnvFile:       ".env",
		},
		Log: models.LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: models.OutputConfig{
			Format:      FormatLog,
			FromAddress: "bankmail@ibs.bankwest.com.au",
		},
		Limit: models.NoLimit,
	}
}

// Load reads the configuration from the specified YAML file on top of the defaults
func Load(filepath string) (*models.Config, error) {
	configFile, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(configFile, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath, err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filepath, err)
	}

	return config, nil
}

// Validate checks values that would otherwise only fail halfway through a run
func Validate(cfg *models.Config) error {
	if strings.Count(cfg.Portal.MessageURL, "%s") != 1 {
		return fmt.Errorf("portal.messageURL must contain exactly one %%s, got %q", cfg.Portal.MessageURL)
	}
	if cfg.Portal.LoginURL == "" || cfg.Portal.MailURL == "" {
		return fmt.Errorf("portal.loginURL and portal.mailURL are required")
	}
	if cfg.Portal.Timeout <= 0 || cfg.Portal.NavigationTimeout <= 0 {
		return fmt.Errorf("portal timeouts must be positive")
	}
	if cfg.Limit < models.NoLimit {
		return fmt.Errorf("limit must be non-negative, got %d", cfg.Limit)
	}

	if len(cfg.Credentials.Tiers) == 0 {
		return fmt.Errorf("credentials.tiers must name at least one tier")
	}
	for _, tier := range cfg.Credentials.Tiers {
		switch tier {
		case TierKeyring, TierEnv, TierPrompt:
		default:
			return fmt.Errorf("unknown credential tier %q", tier)
		}
	}

	switch cfg.Output.Format {
	case FormatLog, FormatMbox:
	default:
		return fmt.Errorf("unknown output format %q", cfg.Output.Format)
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}

	return nil
}
