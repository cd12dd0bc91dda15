package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// HTTPProvider is the Provider for one HTTP request. It carries the
// identifier in a signed cookie and keeps data in a Backend.
//
// Identifiers the backend does not know are never adopted: Start issues a
// fresh one instead, so a client cannot choose its own identifier.
type HTTPProvider struct {
	w       *ResponseWriter
	r       *http.Request
	backend Backend
	cookies *cookie.Manager
	newID   IDGenerator
	ttl     time.Duration
	logger  *slog.Logger

	name   string
	params CookieParams
	status Status
	id     string
	values map[string]any
}

// ProviderOption configures an HTTPProvider.
type ProviderOption func(*HTTPProvider)

// WithProviderTTL sets how long the backend keeps data after WriteClose.
func WithProviderTTL(ttl time.Duration) ProviderOption {
	return func(p *HTTPProvider) { p.ttl = ttl }
}

// WithProviderIDGenerator replaces the identifier generator.
func WithProviderIDGenerator(gen IDGenerator) ProviderOption {
	return func(p *HTTPProvider) {
		if gen != nil {
			p.newID = gen
		}
	}
}

// WithProviderLogger sets the logger for backend failures.
func WithProviderLogger(l *slog.Logger) ProviderOption {
	return func(p *HTTPProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewHTTPProvider creates a provider for the request r. A nil backend or
// cookie manager yields a provider in StatusDisabled.
func NewHTTPProvider(w http.ResponseWriter, r *http.Request, backend Backend, cookies *cookie.Manager, opts ...ProviderOption) *HTTPProvider {
	p := &HTTPProvider{
		w:       NewResponseWriter(w),
		r:       r,
		backend: backend,
		cookies: cookies,
		newID:   TokenGenerator,
		ttl:     DefaultConfig().TTL,
		logger:  logger.Discard(),
		name:    DefaultName,
		status:  StatusNone,
		values:  make(map[string]any),
	}

	for _, opt := range opts {
		opt(p)
	}

	if backend == nil || cookies == nil {
		p.status = StatusDisabled
	}

	return p
}

// Start reads the identifier cookie and loads its data. Without a usable
// cookie a new identifier is generated and sent to the client. Values put
// before Start are discarded.
func (p *HTTPProvider) Start(params CookieParams, name string) error {
	switch p.status {
	case StatusDisabled:
		return ErrProviderDisabled
	case StatusActive:
		return ErrAlreadyStarted
	}

	if name != "" {
		p.name = name
	}
	p.params = params

	ctx := p.r.Context()

	id, err := p.cookies.GetSigned(p.r, p.name)
	if err == nil {
		data, err := p.backend.Load(ctx, id)
		switch {
		case err == nil:
			if data == nil {
				data = make(map[string]any)
			}
			p.activate(id, data)
			return nil
		case !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrInvalidSession):
			return fmt.Errorf("load session: %w", err)
		}
		p.logger.DebugContext(ctx, "unusable session identifier, issuing a new one",
			logger.Component("session"),
			logger.SessionID(id),
			logger.Error(err),
		)
	} else if !errors.Is(err, cookie.ErrCookieNotFound) {
		p.logger.DebugContext(ctx, "rejected session cookie",
			logger.Component("session"),
			logger.Error(err),
		)
	}

	id, err = p.newID()
	if err != nil {
		return err
	}

	p.activate(id, make(map[string]any))
	p.sendCookie()
	return nil
}

func (p *HTTPProvider) activate(id string, data map[string]any) {
	p.id = id
	p.values = data
	p.status = StatusActive
}

func (p *HTTPProvider) Status() Status {
	return p.status
}

func (p *HTTPProvider) ID() string {
	return p.id
}

// RegenerateID moves the session to a new identifier. The old record is
// deleted; data is written under the new identifier by WriteClose.
func (p *HTTPProvider) RegenerateID() bool {
	if p.status != StatusActive {
		return false
	}

	ctx := p.r.Context()

	if committed, where := p.w.Committed(); committed {
		p.logger.WarnContext(ctx, "cannot regenerate session identifier after headers were sent",
			logger.Component("session"),
			slog.String("location", where),
		)
		return false
	}

	id, err := p.newID()
	if err != nil {
		p.logger.ErrorContext(ctx, "session identifier generation failed",
			logger.Component("session"),
			logger.Error(err),
		)
		return false
	}

	if err := p.backend.Delete(ctx, p.id); err != nil {
		p.logger.ErrorContext(ctx, "failed to delete previous session record",
			logger.Component("session"),
			logger.SessionID(p.id),
			logger.Error(err),
		)
		return false
	}

	p.id = id
	p.sendCookie()
	return true
}

// WriteClose saves the data and returns the provider to StatusNone. The save
// outlives client cancellation so a dropped connection does not lose writes.
func (p *HTTPProvider) WriteClose() {
	if p.status != StatusActive {
		return
	}

	ctx := context.WithoutCancel(p.r.Context())
	if err := p.backend.Save(ctx, p.id, p.values, p.ttl); err != nil {
		p.logger.ErrorContext(ctx, "failed to save session",
			logger.Component("session"),
			logger.SessionID(p.id),
			logger.Error(err),
		)
	}

	p.status = StatusNone
}

func (p *HTTPProvider) Committed() (bool, string) {
	return p.w.Committed()
}

func (p *HTTPProvider) Values() map[string]any {
	return p.values
}

// ResponseWriter returns the commit-tracking writer handlers should write to.
func (p *HTTPProvider) ResponseWriter() http.ResponseWriter {
	return p.w
}

func (p *HTTPProvider) sendCookie() {
	p.cookies.SetSigned(p.w, p.name, p.id,
		cookie.WithSecure(p.params.Secure),
		cookie.WithHTTPOnly(p.params.HttpOnly),
		cookie.WithSameSite(p.params.SameSite),
	)
}
