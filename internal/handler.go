package internal

// Handler declares routes on a router session.
// Routes is called once per request; route calls made after the request
// has been matched are no-ops.
//
// Example:
//
//	type PagesHandler struct{}
//
//	func (h *PagesHandler) Routes(r trueweb.Router) {
//	    r.GET("/", h.home)
//	    r.GET("/posts/:slug", h.post)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands the request to the error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
//
// Example:
//
//	func Timing(next trueweb.HandlerFunc) trueweb.HandlerFunc {
//	    return func(c trueweb.Context) error {
//	        start := time.Now()
//	        err := next(c)
//	        c.LogDebug("handled", "took", time.Since(start))
//	        return err
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// Gate guards a route group. Gates run in order before the group body;
// the first one returning false skips the body. A veto is not an error:
// the request continues with the routes declared after the group.
//
// A gate may write a response (for example a 401 challenge). The app does
// not render its not-found page over a response that was already written.
type Gate func(c Context) bool

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error

// chain applies mw around h. The first middleware is the outermost.
func chain(h HandlerFunc, mw []Middleware) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
