package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const (
	minSecretLength = 32
	signatureSep    = "."
)

// Manager writes plain and signed cookies with shared default attributes.
type Manager struct {
	secrets  []string
	defaults Attributes
}

func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := resolve(Attributes{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{
		secrets:  secrets,
		defaults: defaults,
	}, nil
}

// Defaults returns the attributes applied when no per-call options are given.
func (m *Manager) Defaults() Attributes {
	return m.defaults
}

func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	http.SetCookie(w, resolve(m.defaults, opts).cookie(name, value))
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires the cookie. Pass the same Path/Domain options the cookie
// was written with, otherwise the browser keeps the original.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	c := resolve(m.defaults, opts).cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) {
	m.Set(w, name, m.sign(value), opts...)
}

func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

func (m *Manager) sign(value string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(value))
	return payload + signatureSep + mac(m.secrets[0], payload)
}

func (m *Manager) verify(signed string) (string, error) {
	payload, signature, ok := strings.Cut(signed, signatureSep)
	if !ok || payload == "" || signature == "" {
		return "", ErrInvalidFormat
	}

	value, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidFormat
	}

	// Every secret is tried so cookies signed before a rotation stay valid.
	for _, secret := range m.secrets {
		if hmac.Equal([]byte(signature), []byte(mac(secret, payload))) {
			return string(value), nil
		}
	}

	return "", ErrInvalidSignature
}

func mac(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
