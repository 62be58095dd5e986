package bankwest

import (
	"errors"
	"fmt"
)

var (
	ErrCredentials          = errors.New("credentials unavailable")
	ErrLoginFailed          = errors.New("login failed: logged-in marker never appeared")
	ErrNotAuthenticated     = errors.New("session is not authenticated")
	ErrIncompleteCredential = errors.New("credential pair is incomplete")
	ErrMissingID            = errors.New("message has no id")
)

// StructureError reports an element the portal was expected to render but did not.
// Row is the 1-based inbox row, or 0 when the element is not part of a row.
type StructureError struct {
	Page     string
	Selector string
	Row      int
	Err      error
}

func (e *StructureError) Error() string {
	msg := fmt.Sprintf("%s page: expected element %q not found", e.Page, e.Selector)
	if e.Row > 0 {
		msg = fmt.Sprintf("%s page row %d: expected element %q not found", e.Page, e.Row, e.Selector)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

// IsStructureError reports whether err (or any error in its chain) is a StructureError.
func IsStructureError(err error) bool {
	var structErr *StructureError
	return errors.As(err, &structErr)
}
