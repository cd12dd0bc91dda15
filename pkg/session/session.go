package session

import (
	"errors"
	"fmt"
	"math"
)

// Session is the typed facade over a Provider's data. Create one per unit of
// work with NewSession; the middleware does this for every request.
//
// The call order is Start, any number of reads and writes, then Save.
type Session struct {
	provider Provider
	config   Config
}

// NewSession wraps p. cfg is copied; later changes to the caller's value have
// no effect.
func NewSession(p Provider, cfg Config) *Session {
	return &Session{provider: p, config: cfg}
}

// Start resumes the client's session or creates a new one.
//
// It fails with ErrAlreadyStarted when the session is active and with
// ErrTransportCommitted when response headers were already sent; both are
// caller bugs. A provider refusal is returned joined with ErrProviderStart.
func (s *Session) Start() error {
	if s.IsActive() {
		return ErrAlreadyStarted
	}

	// Cookie parameters can only ride on a response that has not started.
	if committed, where := s.provider.Committed(); committed {
		if where == "" {
			return ErrTransportCommitted
		}
		return fmt.Errorf("%w: headers already sent by %s", ErrTransportCommitted, where)
	}

	if err := s.provider.Start(s.config.CookieParams(), s.config.Name); err != nil {
		return errors.Join(ErrProviderStart, err)
	}
	return nil
}

// Save flushes the data to the provider and closes the session for this unit
// of work. Writes made afterwards are not persisted.
func (s *Session) Save() {
	s.provider.WriteClose()
}

// IsActive reports whether the provider considers the session active.
func (s *Session) IsActive() bool {
	return s.provider.Status() == StatusActive
}

// ID returns the session identifier, empty before Start.
func (s *Session) ID() string {
	return s.provider.ID()
}

// Get returns the value stored under key, or def when the key is absent.
func (s *Session) Get(key string, def any) any {
	if v, ok := s.provider.Values()[key]; ok {
		return v
	}
	return def
}

// Has reports whether key is present, even when its value is nil.
func (s *Session) Has(key string) bool {
	_, ok := s.provider.Values()[key]
	return ok
}

// Put stores value under key, replacing any previous value.
func (s *Session) Put(key string, value any) {
	s.provider.Values()[key] = value
}

// Forget removes key. Missing keys are ignored.
func (s *Session) Forget(key string) {
	delete(s.provider.Values(), key)
}

// Regenerate issues a new identifier and invalidates the old one. Data is
// kept. It returns false, without error, when the provider cannot do it,
// e.g. the session is not active.
func (s *Session) Regenerate() bool {
	return s.provider.RegenerateID()
}

// GetString retrieves a string value
func (s *Session) GetString(key string) (string, bool) {
	str, ok := s.provider.Values()[key].(string)
	return str, ok
}

// GetInt retrieves an integer value. Integer and float64 values are accepted
// since codecs may change the numeric type on the way through a backend.
// Values that do not fit in an int, and floats with a fractional part, are
// rejected.
func (s *Session) GetInt(key string) (int, bool) {
	switch v := s.provider.Values()[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint32:
		if uint64(v) > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float64:
		if v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt+1 {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value
func (s *Session) GetBool(key string) (bool, bool) {
	b, ok := s.provider.Values()[key].(bool)
	return b, ok
}

// Value returns the value under key asserted to T, or def when the key is
// absent or holds another type.
func Value[T any](s *Session, key string, def T) T {
	if v, ok := s.provider.Values()[key].(T); ok {
		return v
	}
	return def
}
