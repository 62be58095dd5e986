package bankwest

import (
	"context"

	"retrieve-bankmail/internal/models"
)

// Browser opens the single page a run drives
type Browser interface {
	Open(ctx context.Context) (Page, error)
}

// Page is the small part of a browser tab the portal workflow needs.
// Every call is bounded by ctx; an expired deadline surfaces as context.DeadlineExceeded.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitElement(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string) (string, error)
	HTML(ctx context.Context) (string, error)
	Close() error
}

// CredentialSource yields login pairs and forgets pairs that failed
type CredentialSource interface {
	Credential(ctx context.Context) (models.Credential, error)
	Invalidate(ctx context.Context, cred models.Credential) error
}
