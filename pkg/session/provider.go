package session

import "net/http"

// Status is the provider-reported state of a session.
type Status int

const (
	// StatusNone means no session is active: not started yet, or saved.
	StatusNone Status = iota
	// StatusActive means the session was started and accepts reads and writes.
	StatusActive
	// StatusDisabled means the provider cannot start sessions at all.
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDisabled:
		return "disabled"
	default:
		return "none"
	}
}

// CookieParams are the cookie attributes a provider applies to the
// identifier cookie.
type CookieParams struct {
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Provider is the host side of a session: it issues identifiers, transmits
// them to the client and persists data between requests. A Provider serves
// a single unit of work and is not safe for concurrent use.
type Provider interface {
	// Start resumes or creates a session. name overrides the cookie name when non-empty.
	Start(params CookieParams, name string) error

	// Status reports the current state.
	Status() Status

	// ID returns the current identifier, empty before Start.
	ID() string

	// RegenerateID replaces the identifier and invalidates the old one.
	// It reports false when the identifier could not be replaced.
	RegenerateID() bool

	// WriteClose persists the data and ends the session for this unit of work.
	WriteClose()

	// Committed reports whether response headers were already sent and,
	// when known, the file:line that sent them.
	Committed() (bool, string)

	// Values returns the live data map. Mutations are persisted by WriteClose.
	Values() map[string]any
}
