package models

// SessionState tracks the login state machine of the portal session
type SessionState int

const (
	SessionAnonymous SessionState = iota
	SessionAuthenticating
	SessionAuthenticated
	SessionFailed
	SessionFatal
)

func (s SessionState) String() string {
	switch s {
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticating:
		return "authenticating"
	case SessionAuthenticated:
		return "authenticated"
	case SessionFailed:
		return "failed"
	case SessionFatal:
		return "fatal"
	default:
		return "unknown"
	}
}
