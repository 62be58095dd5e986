package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retrieve-bankmail/internal/bankwest"
	"retrieve-bankmail/internal/config"
	"retrieve-bankmail/internal/credential"
	"retrieve-bankmail/internal/logging"
	"retrieve-bankmail/internal/models"
	"retrieve-bankmail/internal/output"
	"retrieve-bankmail/internal/retriever"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Browser profile directories older than this are leftovers from crashed runs
const staleProfileAge = time.Hour

// errReported marks a failure that has already been logged
var errReported = errors.New("run failed")

func main() {
	rootCmd := &cobra.Command{
		Use:           "retrieve-bankmail",
		Short:         "Retrieve secure inbox messages from Bankwest online banking",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	registerFlags(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *models.Config) error {
	// mbox goes to stdout, so the log moves out of its way
	var logOut io.Writer = os.Stdout
	if cfg.Output.Format == config.FormatMbox {
		logOut = os.Stderr
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: logOut,
	})
	if err != nil {
		return err
	}
	log := logger.WithField("trace_id", uuid.NewString())

	if cfg.Credentials.EnvFile != "" {
		if err := godotenv.Load(cfg.Credentials.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warnf("Error reading %s", cfg.Credentials.EnvFile)
		}
	}

	bankwest.SweepStaleProfiles(staleProfileAge, log)

	resolver := credential.NewResolver(cfg.Credentials.Service, log, credentialTiers(cfg.Credentials)...)
	emitter := newEmitter(cfg.Output, log)
	defer func() {
		if err := emitter.Close(); err != nil {
			log.WithError(err).Error("Error closing output")
		}
	}()

	log.Info("getting mail")
	browser := bankwest.NewRodBrowser(cfg.Browser, log)
	if _, err := retriever.New(browser, resolver, emitter, cfg, log).Run(ctx); err != nil {
		log.WithError(err).WithField("phase", retriever.FailedPhase(err)).Error("Error retrieving mail")
		return errReported
	}
	return nil
}

func credentialTiers(cfg models.CredentialsConfig) []credential.Store {
	tiers := make([]credential.Store, 0, len(cfg.Tiers))
	for _, name := range cfg.Tiers {
		switch name {
		case config.TierKeyring:
			tiers = append(tiers, credential.NewKeyringStore())
		case config.TierEnv:
			tiers = append(tiers, credential.NewEnvStore(cfg.IdentifierEnv, cfg.SecretEnv))
		case config.TierPrompt:
			tiers = append(tiers, credential.NewPromptStore())
		}
	}
	return tiers
}

func newEmitter(cfg models.OutputConfig, log *logrus.Entry) output.Emitter {
	if cfg.Format == config.FormatMbox {
		return output.NewMboxEmitter(os.Stdout, cfg.FromAddress)
	}
	return output.NewLogEmitter(log)
}
