package bankwest

import (
	"context"
	"errors"
	"fmt"

	"retrieve-bankmail/internal/models"

	"github.com/sirupsen/logrus"
)

// Bankwest Online Banking addresses
const (
	LoginPage   = "https://ibs.bankwest.com.au/Session/PersonalLogin"
	MailPage    = "https://ibs.bankwest.com.au/SecureMailWeb/MailPage.aspx?app=cm"
	MessagePage = "https://ibs.bankwest.com.au/SecureMailWeb/ReadMailPage.aspx?msgid=%s&status=R"
)

const (
	identifierInput = `input[name="PAN"]`
	secretInput     = `input[name="Password"]`
	loginButton     = `button[name="button"]`
	loggedInMarker  = `.logoutButton`
	inboxMarker     = `#leftColumn`
	bodyMarker      = `span[id$="lblBody"]`
)

// Portal drives one authenticated browsing session against online banking
type Portal struct {
	page  Page
	cfg   models.PortalConfig
	log   *logrus.Entry
	state models.SessionState
}

// NewPortal creates a Portal on top of an open page
func NewPortal(page Page, cfg models.PortalConfig, log *logrus.Entry) *Portal {
	return &Portal{
		page:  page,
		cfg:   cfg,
		log:   log,
		state: models.SessionAnonymous,
	}
}

// State returns the current login state.
func (p *Portal) State() models.SessionState {
	return p.state
}

func (p *Portal) navigate(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.NavigationTimeout)
	defer cancel()

	p.log.Debugf("loading %s", url)
	if err := p.page.Navigate(ctx, url); err != nil {
		return fmt.Errorf("loading %s: %w", url, err)
	}
	return nil
}

func (p *Portal) wait(ctx context.Context, selector string) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	return p.page.WaitElement(ctx, selector)
}

// structural turns a timed out wait into a StructureError for the named page.
func structural(page, selector string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &StructureError{Page: page, Selector: selector, Err: err}
	}
	return fmt.Errorf("%s page: waiting for %q: %w", page, selector, err)
}
