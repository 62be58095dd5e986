package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"retrieve-bankmail/internal/config"
	"retrieve-bankmail/internal/logging"
	"retrieve-bankmail/internal/models"

	"github.com/spf13/cobra"
)

const (
	flagVerbose     = "verbose"
	flagDebug       = "debug"
	flagLogLevel    = "log-level"
	flagShowBrowser = "show-browser"
	flagLimit       = "limit"
	flagConfig      = "config"
	flagFormat      = "format"
	flagEnvFile     = "env-file"
	flagTiers       = "tiers"
)

// registerFlags declares the command line surface on cmd
func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolP(flagVerbose, "v", false, "Verbose output")
	flags.BoolP(flagDebug, "d", false, "Debug output")
	flags.StringP(flagLogLevel, "g", "", "Log level: spam, debug, verbose, info, notice, warning, error")
	flags.BoolP(flagShowBrowser, "s", false, "Show the browser window while scraping")
	flags.IntP(flagLimit, "l", models.NoLimit, "Maximum number of messages to fetch (default: all)")
	flags.StringP(flagConfig, "c", config.DefaultPath, "Path to the YAML configuration file")
	flags.StringP(flagFormat, "f", "", "Output format: log or mbox")
	flags.String(flagEnvFile, "", "Environment file loaded before reading credentials")
	flags.StringSlice(flagTiers, nil, "Credential sources in lookup order (keyring, env, prompt)")
}

// loadConfig reads the configuration file and folds the command line flags on top of it
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	flags := cmd.Flags()

	path, err := flags.GetString(flagConfig)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !flags.Changed(flagConfig):
		cfg = config.Default()
	default:
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *models.Config) error {
	flags := cmd.Flags()

	verbose, _ := flags.GetBool(flagVerbose)
	debug, _ := flags.GetBool(flagDebug)
	explicit, _ := flags.GetString(flagLogLevel)
	cfg.Log.Level = logging.ResolveLevel(debug, verbose, explicit, cfg.Log.Level)
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}

	if flags.Changed(flagShowBrowser) {
		cfg.Browser.Show, _ = flags.GetBool(flagShowBrowser)
	}

	if flags.Changed(flagLimit) {
		limit, _ := flags.GetInt(flagLimit)
		if limit < 0 {
			return fmt.Errorf("--limit must be non-negative, got %d", limit)
		}
		cfg.Limit = limit
	}

	if flags.Changed(flagFormat) {
		cfg.Output.Format, _ = flags.GetString(flagFormat)
	}
	if flags.Changed(flagEnvFile) {
		cfg.Credentials.EnvFile, _ = flags.GetString(flagEnvFile)
	}
	if flags.Changed(flagTiers) {
		tiers, _ := flags.GetStringSlice(flagTiers)
		cfg.Credentials.Tiers = make([]string, 0, len(tiers))
		for _, tier := range tiers {
			cfg.Credentials.Tiers = append(cfg.Credentials.Tiers, strings.ToLower(strings.TrimSpace(tier)))
		}
	}

	return nil
}
