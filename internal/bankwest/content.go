package bankwest

import (
	"context"
	"fmt"

	"retrieve-bankmail/internal/mailformat"
	"retrieve-bankmail/internal/models"
)

// FetchContent loads the detail page of msg and attaches its normalized body.
func (p *Portal) FetchContent(ctx context.Context, msg *models.Message) error {
	if p.state != models.SessionAuthenticated {
		return ErrNotAuthenticated
	}
	if msg.ID() == "" {
		return ErrMissingID
	}

	link := fmt.Sprintf(p.cfg.MessageURL, msg.ID())
	p.log.Debugf("loading message %s", msg.ID())
	if err := p.navigate(ctx, link); err != nil {
		return err
	}

	p.log.Debug("waiting for message to load")
	if err := p.wait(ctx, bodyMarker); err != nil {
		return structural("message", bodyMarker, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	text, err := p.page.Text(ctx, bodyMarker)
	if err != nil {
		return structural("message", bodyMarker, err)
	}

	msg.SetContent(mailformat.NormalizeContent(text))
	return nil
}
