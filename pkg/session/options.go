package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithBackend sets the session backend. The Manager does not close it.
func WithBackend(backend Backend) Option {
	return func(m *Manager) {
		m.backend = backend
	}
}

// WithCookieManager sets the cookie manager that signs identifier cookies
func WithCookieManager(cookieMgr *cookie.Manager) Option {
	return func(m *Manager) {
		m.cookies = cookieMgr
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithName sets the session cookie name
func WithName(name string) Option {
	return func(m *Manager) {
		m.config.Name = name
	}
}

// WithSecure sets the Secure flag on the session cookie
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.config.Secure = secure
	}
}

// WithTTL sets how long backends keep session data
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.config.TTL = ttl
	}
}

// WithFlashPrefix sets the reserved flash namespace key
func WithFlashPrefix(prefix string) Option {
	return func(m *Manager) {
		m.config.FlashPrefix = prefix
	}
}

// WithLogger sets the logger used by the Manager and its providers
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithIDGenerator sets the session identifier generator
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// WithAutoStart makes Middleware start the session before calling the handler
func WithAutoStart(enabled bool) Option {
	return func(m *Manager) {
		m.autoStart = enabled
	}
}

// WithUnauthorizedHandler sets the handler RequireKey calls for requests
// without the required key. The default replies 401.
func WithUnauthorizedHandler(h http.Handler) Option {
	return func(m *Manager) {
		m.unauthorized = h
	}
}
