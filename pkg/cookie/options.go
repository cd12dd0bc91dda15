package cookie

import "net/http"

// Attributes are the cookie attributes applied when a cookie is written.
type Attributes struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

type Option func(*Attributes)

func WithPath(path string) Option {
	return func(a *Attributes) {
		a.Path = path
	}
}

func WithDomain(domain string) Option {
	return func(a *Attributes) {
		a.Domain = domain
	}
}

// WithMaxAge sets Max-Age in seconds. Zero produces a browser-session cookie.
func WithMaxAge(seconds int) Option {
	return func(a *Attributes) {
		a.MaxAge = seconds
	}
}

func WithSecure(secure bool) Option {
	return func(a *Attributes) {
		a.Secure = secure
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(a *Attributes) {
		a.HttpOnly = httpOnly
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(a *Attributes) {
		a.SameSite = sameSite
	}
}

// resolve returns a copy of base with opts applied; base is left untouched.
func resolve(base Attributes, opts []Option) Attributes {
	attrs := base
	for _, opt := range opts {
		opt(&attrs)
	}
	return attrs
}

func (a Attributes) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     a.Path,
		Domain:   a.Domain,
		MaxAge:   a.MaxAge,
		Secure:   a.Secure,
		HttpOnly: a.HttpOnly,
		SameSite: a.SameSite,
	}
}
