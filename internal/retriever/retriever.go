package retriever

import (
	"context"
	"errors"
	"fmt"

	"retrieve-bankmail/internal/bankwest"
	"retrieve-bankmail/internal/models"
	"retrieve-bankmail/internal/output"

	"github.com/sirupsen/logrus"
)

// Phases of a run, used to tell the operator where a fatal error happened
const (
	PhaseBrowser     = "browser"
	PhaseCredentials = "credentials"
	PhaseLogin       = "login"
	PhaseInbox       = "inbox"
	PhaseEnumerate   = "enumerate"
	PhaseFetch       = "fetch"
	PhaseEmit        = "emit"
)

// PhaseError wraps a fatal error with the phase it aborted
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// FailedPhase returns the phase recorded in err, or "" when err carries none.
func FailedPhase(err error) string {
	var phaseErr *PhaseError
	if errors.As(err, &phaseErr) {
		return phaseErr.Phase
	}
	return ""
}

type Retriever struct {
	browser bankwest.Browser
	creds   bankwest.CredentialSource
	emitter output.Emitter
	config  *models.Config
	log     *logrus.Entry
}

// New creates a Retriever. Nothing is launched until Run.
func New(browser bankwest.Browser, creds bankwest.CredentialSource, emitter output.Emitter, cfg *models.Config, log *logrus.Entry) *Retriever {
	return &Retriever{
		browser: browser,
		creds:   creds,
		emitter: emitter,
		config:  cfg,
		log:     log,
	}
}

// Run performs the whole workflow:
// login, open inbox, enumerate, then fetch and emit each message in order.
// The browser is released on every return path. It returns the number of messages emitted.
func (r *Retriever) Run(ctx context.Context) (emitted int, err error) {
	page, err := r.browser.Open(ctx)
	if err != nil {
		return 0, &PhaseError{Phase: PhaseBrowser, Err: err}
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			r.log.WithError(cerr).Warn("Error releasing browser")
		}
	}()

	portal := bankwest.NewPortal(page, r.config.Portal, r.log)

	if err := portal.EstablishSession(ctx, r.creds); err != nil {
		if errors.Is(err, bankwest.ErrCredentials) {
			return 0, &PhaseError{Phase: PhaseCredentials, Err: err}
		}
		return 0, &PhaseError{Phase: PhaseLogin, Err: err}
	}

	if err := portal.OpenInbox(ctx); err != nil {
		return 0, &PhaseError{Phase: PhaseInbox, Err: err}
	}

	messages, err := portal.Enumerate(ctx, r.config.Limit)
	if err != nil {
		return 0, &PhaseError{Phase: PhaseEnumerate, Err: err}
	}

	for _, msg := range messages {
		if err := portal.FetchContent(ctx, msg); err != nil {
			return emitted, &PhaseError{Phase: PhaseFetch, Err: fmt.Errorf("message %s: %w", msg.ID(), err)}
		}
		if err := r.emitter.Emit(msg); err != nil {
			return emitted, &PhaseError{Phase: PhaseEmit, Err: err}
		}
		emitted++
	}

	r.log.WithField("count", emitted).Info("finished getting mail")
	return emitted, nil
}
