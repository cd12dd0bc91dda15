package session

import (
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Middleware puts an unstarted (or, with WithAutoStart, started) session in
// the request context and saves it after the handler returns if it is still
// active.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, rw := m.Session(w, r)

		if m.autoStart {
			if err := sess.Start(); err != nil {
				m.logger.ErrorContext(r.Context(), "failed to start session",
					logger.Component("session"),
					logger.Error(err),
				)
				http.Error(rw, "Session error", http.StatusInternalServerError)
				return
			}
		}

		defer func() {
			if sess.IsActive() {
				sess.Save()
			}
		}()

		next.ServeHTTP(rw, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RequireKey passes requests whose session lacks key to the unauthorized
// handler (401 unless WithUnauthorizedHandler is set). It must run inside
// Middleware and starts the session when the handler chain has not.
func (m *Manager) RequireKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := FromContext(r.Context())
			if !ok {
				m.unauthorized.ServeHTTP(w, r)
				return
			}

			if !sess.IsActive() {
				if err := sess.Start(); err != nil {
					m.logger.ErrorContext(r.Context(), "failed to start session",
						logger.Component("session"),
						logger.Error(err),
					)
					http.Error(w, "Session error", http.StatusInternalServerError)
					return
				}
			}

			if !sess.Has(key) {
				m.unauthorized.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
