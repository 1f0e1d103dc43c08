// Package internal provides the core types and implementation for the trueweb framework.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/trueweb" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns the chi mux, health and static endpoints, and per-request dispatch
//   - Request: the parsed, read-only snapshot of one request (query, per-method body data, files)
//   - Data: a map-backed bag of decoded values with sanitizing accessors
//   - Router: a matching session bound to one request
//   - Pattern: a parsed route pattern (literal, :name, * and *:name segments)
//   - Controller: a named handler dispatched by Router.Controller
//   - Gate: a vetoable check guarding a route group
//
// # Dispatch
//
// For each request that is not a health or static endpoint the App builds a
// Request, opens a router session and calls every registered Handler's Routes
// method in order. Route calls attempt a match immediately; the first one that
// matches runs its handler and every later route call is a no-op:
//
//	func (h *Blog) Routes(r internal.Router) {
//	    r.GET("/posts/:slug", h.show)   // wins for /posts/hello
//	    r.GET("/posts/*", h.fallback)   // never runs for /posts/hello
//	}
//
// When nothing matches, the not-found handler runs, unless a gate already
// answered the request.
//
// # Patterns
//
//	/literal     exact, byte-wise
//	/:name       one segment, URL-decoded into Param(name)
//	/*           the rest of the path, discarded
//	/*:name      the rest of the path joined with "/"
//
// A pattern without "*" only matches paths with the same number of segments.
// A bare "*" ends matching successfully, even when pattern segments follow it.
//
// # Groups and Gates
//
// Group checks its pattern as a prefix, runs its gates in order, and runs
// the body with a nested session only when every gate passed:
//
//	r.Group("/admin/*", func(r internal.Router) {
//	    r.GET("/admin/users", h.users)
//	}, adminOnly)
//
// A match inside the group ends matching for the enclosing session as well.
//
// # Redirect Tables
//
// A redirect table is a JSON object mapping request paths to targets.
// Keys ending in "*" match by prefix; a "*" in the target carries the rest of
// the path over:
//
//	{"old/blog/*": "blog/*", "about-us": "about"}
//
// Tables are read on every lookup. See LookupRedirect.
//
// # Request Data
//
// Request bodies are decoded by content type: form encodings, JSON
// (json-iterator, numbers kept exact), XML (nested maps) or a raw string.
// Only the container of the active method is filled; the rest stay empty.
// Malformed JSON and XML bodies leave the container empty and log a warning.
package internal
