package internal

import (
	"io/fs"
	"net/http"
	"strings"
)

type staticRoute struct {
	handler http.Handler
	pattern string
}

// WithStaticFiles serves the files under subDir of fsys at pattern.
// Directory listings and dotfiles answer 404. A subDir that is not a valid
// fs path disables the mount and is logged when the App is built.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	trueweb.New(
//	    trueweb.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		sub, err := fs.Sub(fsys, subDir)
		if err != nil {
			a.logger.Error("static files disabled",
				"pattern", pattern, "dir", subDir, "error", err.Error())
			a.staticRoutes = append(a.staticRoutes, staticRoute{http.NotFoundHandler(), pattern})
			return
		}
		a.staticRoutes = append(a.staticRoutes, staticRoute{staticHandler(pattern, sub), pattern})
	}
}

func staticHandler(pattern string, fsys fs.FS) http.Handler {
	files := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") || strings.Contains(r.URL.Path, "/.") {
			http.NotFound(w, r)
			return
		}

		h := w.Header()
		h.Set("Cache-Control", "public, max-age=3600")
		h.Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}
