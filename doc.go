// Package trueweb is a small web framework built around first-match-wins
// routing against the live request.
//
// Handlers declare routes on a [Router] for every request. Each route call
// tries to match at once; the first match runs its handler and every later
// call is a no-op. There is no route table to compile.
//
//	app := trueweb.New(
//	    trueweb.WithHandlers(handlers.NewBlog(repo)),
//	)
//	if err := app.Run(trueweb.Address(":8080")); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes:
//
//	type Blog struct {
//	    repo *Repository
//	}
//
//	func (h *Blog) Routes(r trueweb.Router) {
//	    r.GET("/posts/:slug", h.show)
//	    r.POST("/posts", h.create)
//	    r.GET("/posts/*:rest", h.archive)
//	}
//
//	func (h *Blog) show(c trueweb.Context) error {
//	    slug := trueweb.Param[string](c, "slug")
//	    return c.Render(http.StatusOK, views.Post(h.repo.Find(slug)))
//	}
//
// Request bodies are decoded by content type before any handler runs.
// JSON, XML and form bodies land in the Data bag of the active method:
//
//	email, ok := c.Input().Post.AsEmail("email")
//
// # Groups and Gates
//
// A group runs its body only when its pattern matches as a prefix and every
// gate passes. Gates come from the middlewares package:
//
//	admin, err := middlewares.BasicAuth(middlewares.BasicAuthConfig{
//	    Credentials: map[string]string{"admin": secret},
//	})
//	r.Group("/admin/*", func(r trueweb.Router) {
//	    r.GET("/admin/users", h.users)
//	}, admin)
//
// # Controllers
//
// Routes can dispatch to named controllers registered with [WithController]:
//
//	trueweb.WithController("blog/show", trueweb.ControllerFunc(showPost))
//	r.Controller(http.MethodGet, "/blog/:slug", "blog/show", trueweb.Vars{"layout": "wide"})
//
// # Redirect Tables
//
// [WithRedirectTable] answers requests listed in a JSON file before any
// handler runs. Keys ending in "*" match by prefix:
//
//	{"old-blog/*": "blog/*", "about-us": "about"}
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM for graceful shutdown. Register cleanup with
// [ShutdownHook]:
//
//	app.Run(trueweb.ShutdownHook(redis.Shutdown(client)))
package trueweb
