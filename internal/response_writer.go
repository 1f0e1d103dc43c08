package internal

import (
	"net/http"
	"sync/atomic"
)

// ResponseWriter records what was sent through it. Dispatch checks Written
// so a not-found or error page never follows a response a gate, redirect or
// handler already committed.
//
// Flushing, hijacking and deadlines go through http.NewResponseController,
// which reaches the underlying writer through Unwrap.
type ResponseWriter struct {
	http.ResponseWriter
	status    int
	size      int64
	committed atomic.Bool
}

// NewResponseWriter wraps w. Status reports 200 until a header is written.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader commits the status. Later calls are ignored so a handler
// cannot trigger "superfluous WriteHeader" warnings from the server.
func (w *ResponseWriter) WriteHeader(code int) {
	if !w.committed.CompareAndSwap(false, true) {
		return
	}
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Write commits a 200 status if none was written and counts body bytes.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

// Status is the committed status code.
func (w *ResponseWriter) Status() int { return w.status }

// Size is the number of body bytes written.
func (w *ResponseWriter) Size() int64 { return w.size }

// Written reports whether the status line was committed.
func (w *ResponseWriter) Written() bool { return w.committed.Load() }

// Unwrap returns the wrapped writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
