package bankwest

import (
	"context"
	"errors"
	"fmt"

	"retrieve-bankmail/internal/models"
)

// The first attempt plus one retry with a fresh pair
const maxLoginAttempts = 2

var errLoginTimeout = errors.New("timed out waiting for logged-in marker")

// EstablishSession logs in with credentials from creds. When the logged-in marker does not
// appear in time the pair is invalidated and the login is retried once with a fresh pair.
func (p *Portal) EstablishSession(ctx context.Context, creds CredentialSource) error {
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		p.state = models.SessionAuthenticating

		cred, err := creds.Credential(ctx)
		if err == nil && !cred.Complete() {
			err = ErrIncompleteCredential
		}
		if err != nil {
			p.state = models.SessionFatal
			if attempt > 1 {
				// The portal already rejected the first pair and nothing replaced it.
				return fmt.Errorf("%w: no replacement credentials after a rejected login: %w", ErrLoginFailed, err)
			}
			return fmt.Errorf("%w: %w", ErrCredentials, err)
		}

		err = p.login(ctx, cred)
		if err == nil {
			p.state = models.SessionAuthenticated
			p.log.Infof("Logged in as PAN %s", cred.Masked())
			return nil
		}
		if !errors.Is(err, errLoginTimeout) {
			p.state = models.SessionFatal
			return err
		}

		p.state = models.SessionFailed
		p.log.Warnf("Login attempt %d/%d timed out waiting for %s", attempt, maxLoginAttempts, loggedInMarker)

		if attempt == maxLoginAttempts {
			break
		}
		if err := creds.Invalidate(ctx, cred); err != nil {
			p.state = models.SessionFatal
			return fmt.Errorf("invalidating credentials: %w", err)
		}
	}

	p.state = models.SessionFatal
	return fmt.Errorf("%w after %d attempts", ErrLoginFailed, maxLoginAttempts)
}

// login performs a single attempt: load the login page, submit the pair, wait for the marker.
func (p *Portal) login(ctx context.Context, cred models.Credential) error {
	if err := p.navigate(ctx, p.cfg.LoginURL); err != nil {
		return err
	}

	for _, field := range []struct{ selector, value string }{
		{identifierInput, cred.Identifier},
		{secretInput, cred.Secret},
	} {
		if err := p.fill(ctx, field.selector, field.value); err != nil {
			return err
		}
	}

	if err := p.click(ctx, loginButton); err != nil {
		return err
	}

	p.log.Debug("waiting for page to load")
	if err := p.wait(ctx, loggedInMarker); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errLoginTimeout
		}
		return fmt.Errorf("waiting for %q: %w", loggedInMarker, err)
	}

	return nil
}

func (p *Portal) fill(ctx context.Context, selector, value string) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	if err := p.page.Fill(ctx, selector, value); err != nil {
		return structural("login", selector, err)
	}
	return nil
}

func (p *Portal) click(ctx context.Context, selector string) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	if err := p.page.Click(ctx, selector); err != nil {
		return structural("login", selector, err)
	}
	return nil
}
