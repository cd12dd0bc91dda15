// Package config loads typed configuration structs from the environment.
//
// It wraps github.com/joho/godotenv (for .env files) and
// github.com/caarlos0/env/v11 (for struct tag parsing). Each configuration
// type is parsed once per process and cached by its type, so packages can call
// Load for the same struct freely.
//
// # Usage
//
//	type SessionConfig struct {
//	    Name   string        `env:"SESSION_NAME" envDefault:"sid"`
//	    Secure bool          `env:"SESSION_SECURE" envDefault:"false"`
//	    TTL    time.Duration `env:"SESSION_TTL" envDefault:"24m"`
//	}
//
//	if err := config.LoadEnv("./.env.local"); err != nil {
//	    log.Fatalf("loading env: %v", err)
//	}
//
//	var cfg SessionConfig
//	config.MustLoad(&cfg)
//
// Load reads the default .env in the working directory on first use when it
// exists; a missing file is not an error there. LoadEnv with explicit paths
// does report missing files. Files never override variables already present
// in the process environment, and earlier files win over later ones.
//
// # Error Handling
//
//   - ErrParsingConfig – env.Parse failed (e.g. a required variable is unset).
//   - ErrNilPointer    – a nil pointer was passed to Load.
//   - ErrLoadingEnv    – an explicit .env file could not be read.
//
// # Testing Helpers
//
// ResetCache clears every cached struct; ForceReloadConfig re-parses a
// single type after the environment changed.
package config
