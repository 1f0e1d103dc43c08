package internal

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

// Router is the interface handlers use to declare routes.
//
// A Router is a matching session bound to one request. Every call attempts
// a match against the live request right away, in the order the calls are
// made. The first route that matches runs its handler; after that every
// route call is a no-op until Reset is called.
type Router interface {
	// GET matches GET requests against pattern.
	GET(pattern string, h HandlerFunc, mw ...Middleware)

	// POST matches POST requests against pattern.
	POST(pattern string, h HandlerFunc, mw ...Middleware)

	// PUT matches PUT requests against pattern.
	PUT(pattern string, h HandlerFunc, mw ...Middleware)

	// PATCH matches PATCH requests against pattern.
	PATCH(pattern string, h HandlerFunc, mw ...Middleware)

	// DELETE matches DELETE requests against pattern.
	DELETE(pattern string, h HandlerFunc, mw ...Middleware)

	// HEAD matches HEAD requests against pattern.
	HEAD(pattern string, h HandlerFunc, mw ...Middleware)

	// OPTIONS matches OPTIONS requests against pattern.
	OPTIONS(pattern string, h HandlerFunc, mw ...Middleware)

	// Any matches requests of every method against pattern.
	Any(pattern string, h HandlerFunc, mw ...Middleware)

	// Map matches requests whose method is one of methods.
	Map(methods []string, pattern string, h HandlerFunc, mw ...Middleware)

	// Controller matches like Map with a single method and dispatches to the
	// controller registered under name. An empty method or "*" matches any method.
	Controller(method, pattern, name string, vars Vars, mw ...Middleware)

	// Group runs fn with a nested session when the request path falls under
	// pattern and every gate passes. An empty pattern gates nothing.
	Group(pattern string, fn func(r Router), gates ...Gate)

	// Use appends middleware applied to routes declared afterwards on this
	// session and its groups.
	Use(mw ...Middleware)

	// Redirect looks the request path up in the JSON redirect table at
	// tablePath and, on a hit, writes the redirect and ends matching.
	// It reports whether a redirect was written.
	Redirect(tablePath string, code int) bool

	// Reset re-enables matching on this session.
	Reset()

	// Matched reports whether a route on this session has matched.
	Matched() bool
}

// MatchState is the outcome of a matching session.
type MatchState struct {
	err     error
	pattern string
	matched bool
}

// Matched reports whether a route matched.
func (s *MatchState) Matched() bool {
	return s.matched
}

// Pattern returns the pattern of the route that matched.
func (s *MatchState) Pattern() string {
	return s.pattern
}

// Err returns the error the matched handler returned.
func (s *MatchState) Err() error {
	return s.err
}

// session is a Router bound to one request.
type session struct {
	ctx         Context
	controllers controllerRegistry
	logger      *slog.Logger
	parent      *session
	state       MatchState
	middlewares []Middleware
}

// NewRouter returns a matching session for c.
func NewRouter(c Context, opts ...RouterOption) Router {
	return newSession(c, opts...)
}

// RouterOption configures a standalone matching session.
type RouterOption func(*session)

// WithRouterControllers makes the given controllers available to Controller routes.
func WithRouterControllers(controllers map[string]Controller) RouterOption {
	return func(s *session) {
		for name, c := range controllers {
			s.controllers.register(name, c)
		}
	}
}

func newSession(c Context, opts ...RouterOption) *session {
	s := &session{
		ctx:         c,
		controllers: make(controllerRegistry),
		logger:      c.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the match outcome of s.
func (s *session) State() *MatchState {
	return &s.state
}

func (s *session) GET(pattern string, h HandlerFunc, mw ...Middleware) {
	s.Map([]string{http.MethodGet}, pattern, h, mw...)
}

func (s *session) POST(pattern string, h HandlerFunc, mw ...Middleware) {
	s.Map([]string{http.MethodPost}, pattern, h, mw...)
}

func (s *session) PUT(pattern string, h HandlerFunc, mw ...Middleware) {
	s.Map([]string{http.MethodPut}, pattern, h, mw...)
}

func (s *session) PATCH(pattern string, h HandlerFunc, mw ...Middleware) {
	s.Map([]string{http.MethodPatch}, pattern, h, mw...)
}

func (s *session) DELETE(pattern string, h HandlerFunc, mw ...Middleware) {
	s.Map([]string{http.MethodDelete}, pattern, h, mw...)
}

func (s *session) HEAD(pattern string, h HandlerFunc, mw ...Middleware) {
	s.Map([]string{http.MethodHead}, pattern, h, mw...)
}

func (s *session) OPTIONS(pattern string, h HandlerFunc, mw ...Middleware) {
	s.Map([]string{http.MethodOptions}, pattern, h, mw...)
}

func (s *session) Any(pattern string, h HandlerFunc, mw ...Middleware) {
	s.Map(nil, pattern, h, mw...)
}

func (s *session) Map(methods []string, pattern string, h HandlerFunc, mw ...Middleware) {
	if s.state.matched || !s.methodAllowed(methods) {
		return
	}

	params, ok := ParsePattern(pattern).Match(s.ctx.Input().Path)
	if !ok {
		return
	}

	if params != nil {
		route := make(map[string]any, len(params))
		for k, v := range params {
			route[k] = v
		}
		s.ctx.Input().Route = &Data{values: route}
	}

	s.settle(pattern, nil)
	s.logger.DebugContext(s.ctx, "route matched",
		slog.String("method", s.ctx.Input().Method),
		slog.String("pattern", pattern),
	)

	all := append(slices.Clone(s.middlewares), mw...)
	s.settle(pattern, chain(h, all)(s.ctx))
}

func (s *session) Controller(method, pattern, name string, vars Vars, mw ...Middleware) {
	var methods []string
	if method != "" && method != "*" {
		methods = []string{strings.ToUpper(method)}
	}
	s.Map(methods, pattern, func(c Context) error {
		ctrl, err := s.controllers.lookup(name)
		if err != nil {
			return err
		}
		return ctrl.Serve(c, vars)
	}, mw...)
}

func (s *session) Group(pattern string, fn func(r Router), gates ...Gate) {
	if s.state.matched {
		return
	}
	if pattern != "" && !ParsePattern(pattern).MatchPrefix(s.ctx.Input().Path) {
		return
	}
	for i, gate := range gates {
		if !gate(s.ctx) {
			s.logger.DebugContext(s.ctx, "group gate vetoed request",
				slog.String("pattern", pattern),
				slog.Int("gate", i),
			)
			// A gate that answered the request ends matching.
			if s.ctx.Written() {
				s.settle(pattern, nil)
			}
			return
		}
	}

	fn(&session{
		ctx:         s.ctx,
		controllers: s.controllers,
		logger:      s.logger,
		parent:      s,
		middlewares: slices.Clone(s.middlewares),
	})
}

func (s *session) Use(mw ...Middleware) {
	s.middlewares = append(s.middlewares, mw...)
}

func (s *session) Redirect(tablePath string, code int) bool {
	if s.state.matched {
		return false
	}

	in := s.ctx.Input()
	target, ok, err := LookupRedirect(tablePath, in.Path)
	if err != nil {
		s.settle("", err)
		return false
	}
	if !ok {
		return false
	}

	s.logger.InfoContext(s.ctx, "redirect table hit",
		slog.String("path", in.Path),
		slog.String("target", target),
		slog.Int("status", redirectStatus(code)),
	)
	writeRedirect(s.ctx.Response(), target, code)
	s.settle(in.Path, nil)
	return true
}

func (s *session) Reset() {
	s.state = MatchState{}
	s.ctx.Input().Route = nil
}

func (s *session) Matched() bool {
	return s.state.matched
}

// settle marks s and every enclosing session as matched with the given outcome.
func (s *session) settle(pattern string, err error) {
	for cur := s; cur != nil; cur = cur.parent {
		cur.state = MatchState{matched: true, pattern: pattern, err: err}
	}
}

func (s *session) methodAllowed(methods []string) bool {
	if len(methods) == 0 {
		return true
	}
	method := s.ctx.Input().Method
	return slices.ContainsFunc(methods, func(m string) bool {
		return strings.EqualFold(m, method)
	})
}
