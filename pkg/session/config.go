package session

import (
	"net/http"
	"time"
)

const (
	// DefaultName is the cookie name used when Config.Name is empty.
	DefaultName = "sid"

	// DefaultFlashPrefix is the reserved entry key holding flash messages.
	DefaultFlashPrefix = "_flash"
)

// Config holds session configuration
type Config struct {
	// Name is the session cookie name; empty keeps the provider default
	Name string `env:"SESSION_NAME" envDefault:"sid"`

	// Secure restricts the cookie to HTTPS (recommended for production)
	Secure bool `env:"SESSION_SECURE" envDefault:"false"`

	// HttpOnly hides the cookie from client-side scripts
	HttpOnly bool `env:"SESSION_HTTP_ONLY" envDefault:"true"`

	// FlashPrefix is the reserved key under which flash messages live.
	// It must not be used as an ordinary key.
	FlashPrefix string `env:"SESSION_FLASH_PREFIX" envDefault:"_flash"`

	// TTL is how long the backend keeps session data after the last save
	TTL time.Duration `env:"SESSION_TTL" envDefault:"24m"`

	// CleanupInterval for the default in-memory backend (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		Name:            DefaultName,
		Secure:          false,
		HttpOnly:        true,
		FlashPrefix:     DefaultFlashPrefix,
		TTL:             24 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// CookieParams returns the cookie attributes handed to the provider on start.
// SameSite is always Lax.
func (c Config) CookieParams() CookieParams {
	return CookieParams{
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c Config) flashPrefix() string {
	if c.FlashPrefix == "" {
		return DefaultFlashPrefix
	}
	return c.FlashPrefix
}
