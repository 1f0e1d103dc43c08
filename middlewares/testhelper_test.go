package middlewares_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrymomot/trueweb/internal"
)

// routesFunc adapts a function to the internal.Handler interface.
type routesFunc func(r internal.Router)

func (f routesFunc) Routes(r internal.Router) { f(r) }

// serve sends req through an App whose only handler is routes.
func serve(t *testing.T, req *http.Request, routes func(r internal.Router), opts ...internal.Option) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts, internal.WithHandlers(routesFunc(routes)))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

// guarded serves req through a group protected by gate. The group's only
// route answers 200 "inside" and runs fn first when it is not nil.
func guarded(t *testing.T, req *http.Request, gate internal.Gate, fn func(c internal.Context), opts ...internal.Option) *httptest.ResponseRecorder {
	t.Helper()

	return serve(t, req, func(r internal.Router) {
		r.Group("/*", func(r internal.Router) {
			r.Any("/*", func(c internal.Context) error {
				if fn != nil {
					fn(c)
				}
				return c.String(http.StatusOK, "inside")
			})
		}, gate)
	}, opts...)
}

// logBuffer is a concurrency-safe sink for a JSON slog handler.
type logBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *logBuffer) {
	buf := &logBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
