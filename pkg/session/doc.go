// Package session provides a typed key-value session with read-once flash
// messages, on top of a pluggable host Provider.
//
// # Architecture
//
// A Session is a thin facade. Everything that involves the outside world
// (identifier generation, the identifier cookie, persistence) belongs to a
// Provider. HTTPProvider is the implementation for net/http: it keeps the
// identifier in a signed cookie (see pkg/cookie) and the data in a Backend.
// MemoryBackend ships with the package; pkg/redis provides a Redis one.
//
//	┌────────┐  cookie   ┌──────────────┐  Load/Save  ┌─────────┐
//	│ Client │ ────────► │ HTTPProvider │ ──────────► │ Backend │
//	└────────┘           └──────────────┘             └─────────┘
//	                            ▲
//	                            │ Provider
//	                     ┌──────────────┐
//	                     │   Session    │  Get/Put/Flash/…
//	                     └──────────────┘
//
// A Manager holds the shared pieces and creates one Provider and Session per
// request. Its Middleware stores the Session in the request context and
// saves it once the handler returns.
//
// # Lifecycle
//
// The order is Start, then reads and writes, then Save:
//
//   - Start fails with ErrAlreadyStarted if the session is active, and with
//     ErrTransportCommitted once response headers have been written, since
//     the identifier cookie could no longer be sent. Provider failures are
//     joined with ErrProviderStart.
//   - Save persists the data and returns the session to the inactive state.
//     Writes after Save are not persisted.
//   - Regenerate swaps the identifier (do it on login) and reports false
//     rather than failing when that is impossible.
//
// # Usage
//
//	cookieMgr, _ := cookie.New([]string{secret})
//	manager := session.New(
//	    session.WithCookieManager(cookieMgr),
//	    session.WithAutoStart(true),
//	)
//	defer manager.Close()
//
//	mux.Handle("/", manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    for _, msg := range sess.GetFlash("errors") {
//	        fmt.Fprintln(w, msg)
//	    }
//	})))
//
// # Flash messages
//
// Flash stores messages under a key inside a reserved entry
// (Config.FlashPrefix, "_flash" by default); GetFlash returns them once and
// deletes them. The namespace is shared by every flow in the session: reusing
// a key from unrelated flows overwrites earlier messages.
//
// # Concurrency
//
// A Session and its Provider belong to one request and must not be shared
// between goroutines. Backends are shared and safe for concurrent use.
// Concurrent requests for the same session are last-write-wins.
package session
