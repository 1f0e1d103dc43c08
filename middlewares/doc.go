// Package middlewares provides middleware and group gates for trueweb
// applications.
//
// # Middleware
//
// RequestID assigns an ID to each request (reusing X-Request-ID when the
// client sent one) and echoes it in the response. Recover turns panics into
// a PanicError, which the error handler renders as a 500. RequestLogger logs
// one line per request.
//
//	app := trueweb.New(
//	    trueweb.WithLogger("web", middlewares.RequestIDExtractor()),
//	    trueweb.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.RequestLogger(),
//	        middlewares.Recover(),
//	    ),
//	)
//
// Middleware listed first runs outermost, so Recover placed last still sees
// the request ID in its log line.
//
// # Gates
//
// Gates guard route groups. A gate returns false to veto the group; the gates
// in this package answer the request themselves (401 or 415) before vetoing,
// so the request does not fall through to the not-found page.
//
//	basic, _ := middlewares.BasicAuth(middlewares.BasicAuthConfig{
//	    Credentials: map[string]string{"admin": secret},
//	})
//	r.Group("/admin/*", func(r trueweb.Router) {
//	    r.GET("/admin", dashboard)
//	}, basic)
//
// Available gates: BasicAuth, BearerToken (opaque tokens looked up in a
// cache.Cache), JWT, CookieAuth (signed cookie) and ContentType. The
// identity an auth gate accepted is returned by GetPrincipal.
package middlewares
