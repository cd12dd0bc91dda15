package cookie_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

const (
	secret    = "this-is-a-very-long-secret-key-32-chars-long"
	oldSecret = "this-is-old-very-long-secret-key-32-chars-ok"
)

func roundTrip(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		secrets []string
		wantErr error
	}{
		{"no secrets", []string{}, cookie.ErrNoSecret},
		{"empty secrets", []string{"", ""}, cookie.ErrNoSecret},
		{"secret too short", []string{"short"}, cookie.ErrSecretTooShort},
		{"valid secret", []string{secret}, nil},
		{"multiple secrets", []string{secret, oldSecret}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := cookie.New(tt.secrets)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestManager_Defaults(t *testing.T) {
	t.Parallel()
	m, err := cookie.New([]string{secret})
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	m.Set(w, "sid", "abc")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Path != "/" || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Secure {
		t.Errorf("unexpected default attributes: %+v", c)
	}
}

func TestManager_SetGetSigned(t *testing.T) {
	t.Parallel()
	m, _ := cookie.New([]string{secret})

	for _, value := range []string{"abc", "", "with.dots.and=equals", "ünïcödé"} {
		w := httptest.NewRecorder()
		m.SetSigned(w, "sid", value)

		got, err := m.GetSigned(roundTrip(w), "sid")
		if value == "" {
			if !errors.Is(err, cookie.ErrInvalidFormat) {
				t.Errorf("empty value: got err %v, want ErrInvalidFormat", err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("GetSigned(%q) error: %v", value, err)
		}
		if got != value {
			t.Errorf("GetSigned() = %q, want %q", got, value)
		}
	}
}

func TestManager_SignedTamperDetection(t *testing.T) {
	t.Parallel()
	m, _ := cookie.New([]string{secret})

	w := httptest.NewRecorder()
	m.SetSigned(w, "sid", "session-a")
	signed := w.Result().Cookies()[0].Value

	payload, sig, _ := strings.Cut(signed, ".")
	forged, _ := strings.CutSuffix(payload, payload[len(payload)-1:])
	forged += "B"

	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{"altered payload", forged + "." + sig, cookie.ErrInvalidSignature},
		{"altered signature", payload + ".AAAA", cookie.ErrInvalidSignature},
		{"missing separator", payload, cookie.ErrInvalidFormat},
		{"bad base64", "!!!." + sig, cookie.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(&http.Cookie{Name: "sid", Value: tt.value})
			_, err := m.GetSigned(r, "sid")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GetSigned() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestManager_SecretRotation(t *testing.T) {
	t.Parallel()
	oldMgr, _ := cookie.New([]string{oldSecret})
	newMgr, _ := cookie.New([]string{secret, oldSecret})

	w := httptest.NewRecorder()
	oldMgr.SetSigned(w, "sid", "legacy")

	got, err := newMgr.GetSigned(roundTrip(w), "sid")
	if err != nil {
		t.Fatalf("rotated manager rejected old cookie: %v", err)
	}
	if got != "legacy" {
		t.Errorf("got %q, want legacy", got)
	}

	w = httptest.NewRecorder()
	newMgr.SetSigned(w, "sid", "fresh")
	if _, err := oldMgr.GetSigned(roundTrip(w), "sid"); !errors.Is(err, cookie.ErrInvalidSignature) {
		t.Errorf("old manager accepted cookie signed with new secret: %v", err)
	}
}

func TestManager_GetMissing(t *testing.T) {
	t.Parallel()
	m, _ := cookie.New([]string{secret})
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, err := m.Get(r, "nope"); !errors.Is(err, cookie.ErrCookieNotFound) {
		t.Errorf("Get() error = %v, want ErrCookieNotFound", err)
	}
	if _, err := m.GetSigned(r, "nope"); !errors.Is(err, cookie.ErrCookieNotFound) {
		t.Errorf("GetSigned() error = %v, want ErrCookieNotFound", err)
	}
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()
	m, _ := cookie.New([]string{secret}, cookie.WithDomain("example.com"))

	w := httptest.NewRecorder()
	m.Delete(w, "sid", cookie.WithSecure(true))

	c := w.Result().Cookies()[0]
	if c.MaxAge != -1 || c.Value != "" {
		t.Errorf("cookie not expired: %+v", c)
	}
	if c.Domain != "example.com" || !c.Secure {
		t.Errorf("delete lost attributes: %+v", c)
	}
}

func TestManager_OptionsDoNotLeak(t *testing.T) {
	t.Parallel()
	m, _ := cookie.New([]string{secret})

	w := httptest.NewRecorder()
	m.Set(w, "a", "1", cookie.WithSecure(true), cookie.WithMaxAge(60), cookie.WithPath("/app"))
	m.Set(w, "b", "2")

	cookies := w.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	if !cookies[0].Secure || cookies[0].MaxAge != 60 || cookies[0].Path != "/app" {
		t.Errorf("per-call options not applied: %+v", cookies[0])
	}
	if cookies[1].Secure || cookies[1].MaxAge != 0 || cookies[1].Path != "/" {
		t.Errorf("per-call options leaked into defaults: %+v", cookies[1])
	}
	if m.Defaults().Secure {
		t.Error("defaults mutated")
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	cfg := cookie.DefaultConfig()
	cfg.Secrets = " " + secret + " , ," + oldSecret
	cfg.Secure = true
	cfg.Domain = "example.com"

	if got := cfg.SecretList(); len(got) != 2 || got[0] != secret || got[1] != oldSecret {
		t.Fatalf("SecretList() = %v", got)
	}

	m, err := cookie.NewFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	d := m.Defaults()
	if !d.Secure || d.Domain != "example.com" || d.Path != "/" || d.SameSite != http.SameSiteLaxMode {
		t.Errorf("unexpected defaults: %+v", d)
	}

	if _, err := cookie.NewFromConfig(cookie.DefaultConfig()); !errors.Is(err, cookie.ErrNoSecret) {
		t.Errorf("expected ErrNoSecret, got %v", err)
	}
}
