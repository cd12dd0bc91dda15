package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const testSecret = "test-secret-key-that-is-at-least-32-chars"

func testCookies(t *testing.T) *cookie.Manager {
	t.Helper()
	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	return m
}

// responseCookie returns the last cookie named name, as a browser would keep it.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

// errBackend fails every call with err.
type errBackend struct{ err error }

func (b errBackend) Load(context.Context, string) (map[string]any, error) { return nil, b.err }
func (b errBackend) Save(context.Context, string, map[string]any, time.Duration) error {
	return b.err
}
func (b errBackend) Delete(context.Context, string) error { return b.err }

func fixedID(id string) session.IDGenerator {
	return func() (string, error) { return id, nil }
}

func TestHTTPProvider_Start(t *testing.T) {
	cookies := testCookies(t)
	params := session.CookieParams{Secure: true, HttpOnly: true, SameSite: http.SameSiteLaxMode}

	t.Run("new session sets cookie", func(t *testing.T) {
		backend := session.NewMemoryBackend(0)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		p := session.NewHTTPProvider(rec, req, backend, cookies, session.WithProviderIDGenerator(fixedID("id-1")))
		require.NoError(t, p.Start(params, "sid"))

		assert.Equal(t, session.StatusActive, p.Status())
		assert.Equal(t, "id-1", p.ID())
		assert.Empty(t, p.Values())

		c := responseCookie(rec, "sid")
		require.NotNil(t, c)
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, "/", c.Path)
		assert.NotEqual(t, "id-1", c.Value, "identifier must be signed")
	})

	t.Run("default name when empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		p := session.NewHTTPProvider(rec, req, session.NewMemoryBackend(0), cookies)
		require.NoError(t, p.Start(params, ""))
		assert.NotNil(t, responseCookie(rec, session.DefaultName))
	})

	t.Run("resumes known session without resending cookie", func(t *testing.T) {
		backend := session.NewMemoryBackend(0)
		require.NoError(t, backend.Save(context.Background(), "known", map[string]any{"user_id": "u1"}, time.Hour))

		signer := httptest.NewRecorder()
		cookies.SetSigned(signer, "sid", "known")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(responseCookie(signer, "sid"))
		rec := httptest.NewRecorder()

		p := session.NewHTTPProvider(rec, req, backend, cookies)
		require.NoError(t, p.Start(params, "sid"))

		assert.Equal(t, "known", p.ID())
		assert.Equal(t, "u1", p.Values()["user_id"])
		assert.Nil(t, responseCookie(rec, "sid"))
	})

	t.Run("unknown identifier is replaced", func(t *testing.T) {
		signer := httptest.NewRecorder()
		cookies.SetSigned(signer, "sid", "attacker-chosen")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(responseCookie(signer, "sid"))
		rec := httptest.NewRecorder()

		p := session.NewHTTPProvider(rec, req, session.NewMemoryBackend(0), cookies, session.WithProviderIDGenerator(fixedID("fresh")))
		require.NoError(t, p.Start(params, "sid"))

		assert.Equal(t, "fresh", p.ID())
		assert.NotNil(t, responseCookie(rec, "sid"))
	})

	t.Run("tampered cookie is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: "forged.signature"})
		rec := httptest.NewRecorder()

		p := session.NewHTTPProvider(rec, req, session.NewMemoryBackend(0), cookies, session.WithProviderIDGenerator(fixedID("fresh")))
		require.NoError(t, p.Start(params, "sid"))
		assert.Equal(t, "fresh", p.ID())
	})

	t.Run("values put before start are discarded", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		p := session.NewHTTPProvider(httptest.NewRecorder(), req, session.NewMemoryBackend(0), cookies)
		p.Values()["early"] = true

		require.NoError(t, p.Start(params, "sid"))
		assert.NotContains(t, p.Values(), "early")
	})

	t.Run("twice", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		p := session.NewHTTPProvider(httptest.NewRecorder(), req, session.NewMemoryBackend(0), cookies)
		require.NoError(t, p.Start(params, "sid"))
		assert.ErrorIs(t, p.Start(params, "sid"), session.ErrAlreadyStarted)
	})

	t.Run("disabled without backend", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		p := session.NewHTTPProvider(httptest.NewRecorder(), req, nil, cookies)

		assert.Equal(t, session.StatusDisabled, p.Status())
		assert.ErrorIs(t, p.Start(params, "sid"), session.ErrProviderDisabled)
	})

	t.Run("backend failure", func(t *testing.T) {
		boom := errors.New("connection refused")
		signer := httptest.NewRecorder()
		cookies.SetSigned(signer, "sid", "known")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(responseCookie(signer, "sid"))

		p := session.NewHTTPProvider(httptest.NewRecorder(), req, errBackend{err: boom}, cookies)
		err := p.Start(params, "sid")
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, session.StatusNone, p.Status())
	})

	t.Run("id generation failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		gen := func() (string, error) { return "", session.ErrTokenGeneration }

		p := session.NewHTTPProvider(httptest.NewRecorder(), req, session.NewMemoryBackend(0), cookies, session.WithProviderIDGenerator(gen))
		assert.ErrorIs(t, p.Start(params, "sid"), session.ErrTokenGeneration)
	})
}

func TestHTTPProvider_RegenerateID(t *testing.T) {
	cookies := testCookies(t)
	params := session.CookieParams{HttpOnly: true, SameSite: http.SameSiteLaxMode}
	ctx := context.Background()

	t.Run("inactive", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		p := session.NewHTTPProvider(httptest.NewRecorder(), req, session.NewMemoryBackend(0), cookies)
		assert.False(t, p.RegenerateID())
	})

	t.Run("moves data to new identifier", func(t *testing.T) {
		backend := session.NewMemoryBackend(0)
		require.NoError(t, backend.Save(ctx, "old", map[string]any{"cart": "3 items"}, time.Hour))

		signer := httptest.NewRecorder()
		cookies.SetSigned(signer, "sid", "old")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(responseCookie(signer, "sid"))
		rec := httptest.NewRecorder()

		p := session.NewHTTPProvider(rec, req, backend, cookies, session.WithProviderIDGenerator(fixedID("new")))
		require.NoError(t, p.Start(params, "sid"))
		require.True(t, p.RegenerateID())
		assert.Equal(t, "new", p.ID())

		_, err := backend.Load(ctx, "old")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		c := responseCookie(rec, "sid")
		require.NotNil(t, c)

		p.WriteClose()
		data, err := backend.Load(ctx, "new")
		require.NoError(t, err)
		assert.Equal(t, "3 items", data["cart"])
	})

	t.Run("after headers were sent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		p := session.NewHTTPProvider(httptest.NewRecorder(), req, session.NewMemoryBackend(0), cookies)
		require.NoError(t, p.Start(params, "sid"))

		p.ResponseWriter().WriteHeader(http.StatusOK)
		id := p.ID()

		assert.False(t, p.RegenerateID())
		assert.Equal(t, id, p.ID())
	})

	t.Run("backend delete failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		p := session.NewHTTPProvider(httptest.NewRecorder(), req, errBackend{err: errors.New("down")}, cookies)
		require.NoError(t, p.Start(params, "sid"))

		id := p.ID()
		assert.False(t, p.RegenerateID())
		assert.Equal(t, id, p.ID())
	})
}

func TestHTTPProvider_WriteClose(t *testing.T) {
	cookies := testCookies(t)
	ctx := context.Background()

	t.Run("persists values", func(t *testing.T) {
		backend := session.NewMemoryBackend(0)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		p := session.NewHTTPProvider(httptest.NewRecorder(), req, backend, cookies, session.WithProviderIDGenerator(fixedID("s1")))
		require.NoError(t, p.Start(session.CookieParams{}, "sid"))

		p.Values()["k"] = "v"
		p.WriteClose()
		assert.Equal(t, session.StatusNone, p.Status())

		data, err := backend.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "v", data["k"])
	})

	t.Run("survives cancelled request context", func(t *testing.T) {
		backend := session.NewMemoryBackend(0)
		reqCtx, cancel := context.WithCancel(ctx)
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(reqCtx)

		p := session.NewHTTPProvider(httptest.NewRecorder(), req, backend, cookies, session.WithProviderIDGenerator(fixedID("s2")))
		require.NoError(t, p.Start(session.CookieParams{}, "sid"))
		cancel()
		p.WriteClose()

		_, err := backend.Load(ctx, "s2")
		assert.NoError(t, err)
	})

	t.Run("inactive is a no-op", func(t *testing.T) {
		backend := session.NewMemoryBackend(0)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		p := session.NewHTTPProvider(httptest.NewRecorder(), req, backend, cookies)
		p.WriteClose()
		assert.Equal(t, 0, backend.Len())
	})

	t.Run("save failure is swallowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		backend := errBackend{err: session.ErrSessionNotFound}
		p := session.NewHTTPProvider(httptest.NewRecorder(), req, backend, cookies)
		require.NoError(t, p.Start(session.CookieParams{}, "sid"))

		assert.NotPanics(t, p.WriteClose)
		assert.Equal(t, session.StatusNone, p.Status())
	})
}

func TestSession_StartAfterOutput(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	p := session.NewHTTPProvider(rec, req, session.NewMemoryBackend(0), testCookies(t))
	sess := session.NewSession(p, session.DefaultConfig())

	_, _ = p.ResponseWriter().Write([]byte("early output"))

	err := sess.Start()
	require.ErrorIs(t, err, session.ErrTransportCommitted)
	assert.Contains(t, err.Error(), "http_provider_test.go:")
	assert.False(t, sess.IsActive())
	assert.Nil(t, responseCookie(rec, session.DefaultName))
}
