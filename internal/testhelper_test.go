package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/trueweb/internal"
)

// captureHandler matches every request and hands the context to fn.
type captureHandler struct {
	fn func(c internal.Context)
}

func (h *captureHandler) Routes(r internal.Router) {
	r.Any("/*", func(c internal.Context) error {
		h.fn(c)
		return nil
	})
}

// requestVia creates an App with the given options, registers a catch-all
// route that runs fn, and sends req. This lets tests exercise the real
// request context without accessing unexported symbols.
func requestVia(t *testing.T, req *http.Request, opts []internal.Option, fn func(c internal.Context)) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts, internal.WithHandlers(&captureHandler{fn: fn}))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

// routesFunc adapts a function to the Handler interface.
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
