package session

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strings"
)

// ResponseWriter records when response headers are committed and which code
// committed them. Providers use it to refuse cookie changes that would be
// silently dropped.
type ResponseWriter struct {
	http.ResponseWriter
	committed bool
	location  string
}

// NewResponseWriter wraps w. Wrapping an existing *ResponseWriter returns it.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w}
}

func (w *ResponseWriter) WriteHeader(code int) {
	// Informational responses leave the header map open.
	if code < 100 || code >= 200 || code == http.StatusSwitchingProtocols {
		w.commit()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *ResponseWriter) Flush() {
	w.commit()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("session: underlying ResponseWriter does not implement http.Hijacker")
	}
	w.commit()
	return h.Hijack()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Committed reports whether headers were sent and, if known, where from.
func (w *ResponseWriter) Committed() (bool, string) {
	return w.committed, w.location
}

func (w *ResponseWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	w.location = callerOutside()
}

// callerOutside returns file:line of the first stack frame that is not part
// of this writer or of the standard library I/O helpers that wrap it.
func callerOutside() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isWriterFrame(frame.Function) {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return ""
		}
	}
}

func isWriterFrame(fn string) bool {
	for _, prefix := range []string{"fmt.", "io.", "bufio.", "net/http.", "encoding/json."} {
		if strings.HasPrefix(fn, prefix) {
			return true
		}
	}
	return strings.Contains(fn, "session.(*ResponseWriter)")
}
