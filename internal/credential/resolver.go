package credential

import (
	"context"
	"errors"
	"fmt"

	"retrieve-bankmail/internal/models"

	"github.com/sirupsen/logrus"
)

// Resolver looks the login pair up through an ordered chain of tiers
type Resolver struct {
	service string
	tiers   []Store
	log     *logrus.Entry
}

// NewResolver creates a Resolver that consults tiers in the given order.
func NewResolver(service string, log *logrus.Entry, tiers ...Store) *Resolver {
	return &Resolver{
		service: service,
		tiers:   tiers,
		log:     log,
	}
}

// Credential returns a complete login pair or ErrNoCredentials.
// Values the operator typed in are saved to the persistent tiers that came up empty.
func (r *Resolver) Credential(ctx context.Context) (models.Credential, error) {
	identifier, err := r.lookup(ctx, IdentifierAccount)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return models.Credential{}, err
	}
	if identifier == "" {
		r.log.Error("No PAN available from any credential source")
		return models.Credential{}, ErrNoCredentials
	}

	secret, err := r.lookup(ctx, SecretAccount(identifier))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return models.Credential{}, err
	}
	if secret == "" {
		r.log.Error("No password available for the PAN provided")
		return models.Credential{}, ErrNoCredentials
	}

	return models.Credential{Identifier: identifier, Secret: secret}, nil
}

// lookup walks the tiers in order. Errors from non-interactive tiers are logged and skipped
// so a broken keyring still falls through to the environment.
func (r *Resolver) lookup(ctx context.Context, account string) (string, error) {
	var missed []Store

	for _, tier := range r.tiers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		value, err := tier.Get(r.service, account)
		switch {
		case err == nil && value != "":
			if isInteractive(tier) {
				r.persist(account, value, missed)
			}
			return value, nil
		case err == nil, errors.Is(err, ErrNotFound):
			r.log.Debugf("%s not found in %T", label(account), tier)
			missed = append(missed, tier)
		case isInteractive(tier):
			return "", fmt.Errorf("prompting for %s: %w", label(account), err)
		default:
			r.log.WithError(err).Warnf("Credential tier %T unavailable", tier)
		}
	}

	return "", ErrNotFound
}

func (r *Resolver) persist(account, value string, tiers []Store) {
	for _, tier := range tiers {
		if !isPersistent(tier) {
			continue
		}
		if err := tier.Set(r.service, account, value); err != nil {
			r.log.WithError(err).Warnf("Failed to save %s to %T", label(account), tier)
		}
	}
}

// Invalidate removes the pair from every tier so the next Credential call cannot return it again.
func (r *Resolver) Invalidate(_ context.Context, cred models.Credential) error {
	r.log.Warnf("Removing stored credentials for PAN %s", cred.Masked())

	var errs []error
	for _, tier := range r.tiers {
		for _, account := range []string{SecretAccount(cred.Identifier), IdentifierAccount} {
			if err := tier.Delete(r.service, account); err != nil && !errors.Is(err, ErrNotFound) {
				errs = append(errs, fmt.Errorf("%T: %w", tier, err))
			}
		}
	}

	return errors.Join(errs...)
}

// label names an account without exposing the identifier embedded in secret account keys
func label(account string) string {
	if account == IdentifierAccount {
		return "PAN"
	}
	return "password"
}
