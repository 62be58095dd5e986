package bankwest

import (
	"context"

	"retrieve-bankmail/internal/models"
)

// OpenInbox moves the authenticated session to the mail list and waits for it to render.
// A missing list container is not retried: the session is trusted at this point.
func (p *Portal) OpenInbox(ctx context.Context) error {
	if p.state != models.SessionAuthenticated {
		return ErrNotAuthenticated
	}

	p.log.Debug("navigating to mail page")
	if err := p.navigate(ctx, p.cfg.MailURL); err != nil {
		return err
	}

	p.log.Debugf("waiting for mail page %s to load", p.cfg.MailURL)
	if err := p.wait(ctx, inboxMarker); err != nil {
		return structural("inbox", inboxMarker, err)
	}

	return nil
}
