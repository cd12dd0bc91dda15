// Package cookie writes and reads the HTTP cookies that carry session
// identifiers.
//
// A Manager is created with one or more secrets (at least 32 bytes each) and
// a set of default attributes. Identifiers are written with SetSigned, which
// appends an HMAC-SHA256 signature so a client cannot forge or alter the
// identifier it presents back. The first secret signs; every secret verifies,
// which lets secrets be rotated without invalidating live sessions.
//
// # Usage
//
//	man, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")},
//	    cookie.WithSecure(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	man.SetSigned(w, "sid", id)
//	id, err := man.GetSigned(r, "sid")
//
// # Configuration
//
// Config carries env tags and can be populated with pkg/config; NewFromConfig
// applies only the non-zero fields.
//
// # Error Handling
//
// ErrCookieNotFound, ErrInvalidSignature and ErrInvalidFormat are returned by
// the readers and can be matched with errors.Is.
package cookie
