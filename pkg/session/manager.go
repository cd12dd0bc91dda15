package session

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Manager builds a Provider and Session per request from shared settings.
type Manager struct {
	backend     Backend
	ownsBackend bool
	cookies     *cookie.Manager
	config      Config
	logger      *slog.Logger
	newID       IDGenerator
	autoStart   bool

	unauthorized http.Handler
}

// New creates a session manager with the given options. It panics without a
// cookie manager. Without a backend an in-memory one is created and closed
// by Close.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		newID:  TokenGenerator,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.cookies == nil {
		// Fail fast on misconfiguration: sessions cannot be carried without cookies.
		panic("session: cookie manager is required")
	}

	if m.logger == nil {
		m.logger = logger.Discard()
	}

	if m.unauthorized == nil {
		m.unauthorized = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}

	if m.backend == nil {
		m.backend = NewMemoryBackend(m.config.CleanupInterval)
		m.ownsBackend = true
	}

	return m
}

// NewFromConfig creates a new Manager from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Backend returns the backend sessions are persisted to.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Provider creates the host provider for one request.
func (m *Manager) Provider(w http.ResponseWriter, r *http.Request) *HTTPProvider {
	return NewHTTPProvider(w, r, m.backend, m.cookies,
		WithProviderTTL(m.config.TTL),
		WithProviderIDGenerator(m.newID),
		WithProviderLogger(m.logger),
	)
}

// Session creates an unstarted session for one request. Handlers must write
// the response through the returned writer for start ordering to be enforced.
func (m *Manager) Session(w http.ResponseWriter, r *http.Request) (*Session, http.ResponseWriter) {
	p := m.Provider(w, r)
	return NewSession(p, m.config), p.ResponseWriter()
}

// Close releases the backend if the Manager created it.
func (m *Manager) Close() error {
	if !m.ownsBackend {
		return nil
	}
	if mb, ok := m.backend.(*MemoryBackend); ok {
		return mb.Close()
	}
	return nil
}
