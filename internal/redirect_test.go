package internal_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trueweb/internal"
)

func writeTable(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "redirects.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLookupRedirect(t *testing.T) {
	t.Parallel()

	table := writeTable(t, `{
		"old-page": "new-page",
		"/blog/archive": "https://archive.example.com/blog",
		"a/b/*": "a/c/*",
		"x/*": "x-landing",
		"docs/*": "manual/*",
		"docs/v1/*": "legacy/*",
		"skipped": 42,
		"nested": {"a": "b"}
	}`)

	tests := []struct {
		name   string
		path   string
		target string
		found  bool
	}{
		{name: "exact", path: "/old-page", target: "new-page", found: true},
		{name: "exact key with leading slash", path: "/blog/archive", target: "https://archive.example.com/blog", found: true},
		{name: "wildcard tail is appended", path: "/a/b/d/e", target: "a/c/d/e", found: true},
		{name: "wildcard target without star", path: "/x/anything/here", target: "x-landing", found: true},
		{name: "first wildcard in file order wins", path: "/docs/v1/intro", target: "manual/v1/intro", found: true},
		{name: "wildcard needs the full prefix", path: "/a/b", found: false},
		{name: "unmapped", path: "/elsewhere", found: false},
		{name: "non-string values are ignored", path: "/skipped", found: false},
		{name: "object values are ignored", path: "/nested", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			target, found, err := internal.LookupRedirect(table, tt.path)
			require.NoError(t, err)
			require.Equal(t, tt.found, found)
			require.Equal(t, tt.target, target)
		})
	}
}

func TestLookupRedirect_StarlessTarget(t *testing.T) {
	t.Parallel()

	table := writeTable(t, `{"a/b/*": "a/c"}`)
	target, found, err := internal.LookupRedirect(table, "/a/b/d")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "a/c", target)
}

func TestLookupRedirect_ExactBeatsWildcard(t *testing.T) {
	t.Parallel()

	table := writeTable(t, `{"shop/*": "store/*", "shop/sale": "offers"}`)
	target, found, err := internal.LookupRedirect(table, "/shop/sale")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "offers", target)
}

func TestLookupRedirect_ReadsOnEveryCall(t *testing.T) {
	t.Parallel()

	table := writeTable(t, `{"a": "b"}`)
	target, _, err := internal.LookupRedirect(table, "/a")
	require.NoError(t, err)
	require.Equal(t, "b", target)

	require.NoError(t, os.WriteFile(table, []byte(`{"a": "c"}`), 0o600))
	target, _, err = internal.LookupRedirect(table, "/a")
	require.NoError(t, err)
	require.Equal(t, "c", target)
}

func TestLookupRedirect_BadTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(t.TempDir(), "missing.json")},
		{name: "not an object", path: writeTable(t, `["a", "b"]`)},
		{name: "malformed", path: writeTable(t, `{"a": `)},
		{name: "empty", path: writeTable(t, ``)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, found, err := internal.LookupRedirect(tt.path, "/a")
			require.ErrorIs(t, err, internal.ErrRedirectTable)
			require.False(t, found)
		})
	}
}

func TestApp_RedirectTable(t *testing.T) {
	t.Parallel()

	table := writeTable(t, `{
		"old": "new",
		"a/b/*": "a/c/*",
		"away": "https://example.com/landing",
		"proto": "//cdn.example.com/x"
	}`)

	routes := func(r internal.Router) {
		r.GET("/*", func(c internal.Context) error {
			return c.String(http.StatusOK, "routed")
		})
	}

	tests := []struct {
		name     string
		code     int
		path     string
		status   int
		location string
	}{
		{name: "exact", code: http.StatusMovedPermanently, path: "/old", status: http.StatusMovedPermanently, location: "/new"},
		{name: "wildcard", code: http.StatusPermanentRedirect, path: "/a/b/d/e", status: http.StatusPermanentRedirect, location: "/a/c/d/e"},
		{name: "see other", code: http.StatusSeeOther, path: "/old", status: http.StatusSeeOther, location: "/new"},
		{name: "temporary", code: http.StatusTemporaryRedirect, path: "/old", status: http.StatusTemporaryRedirect, location: "/new"},
		{name: "unsupported status becomes 301", code: http.StatusFound, path: "/old", status: http.StatusMovedPermanently, location: "/new"},
		{name: "zero status becomes 301", code: 0, path: "/old", status: http.StatusMovedPermanently, location: "/new"},
		{name: "absolute url kept", code: http.StatusMovedPermanently, path: "/away", status: http.StatusMovedPermanently, location: "https://example.com/landing"},
		{name: "protocol relative url kept", code: http.StatusMovedPermanently, path: "/proto", status: http.StatusMovedPermanently, location: "//cdn.example.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, httptest.NewRequest(http.MethodGet, tt.path, nil), routes,
				internal.WithRedirectTable(table, tt.code),
			)
			require.Equal(t, tt.status, w.Code)
			require.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}

	t.Run("miss falls through to routes", func(t *testing.T) {
		t.Parallel()
		w := serve(t, httptest.NewRequest(http.MethodGet, "/current", nil), routes,
			internal.WithRedirectTable(table, http.StatusMovedPermanently),
		)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "routed", w.Body.String())
	})

	t.Run("broken table is an internal error", func(t *testing.T) {
		t.Parallel()
		var got error
		w := serve(t, httptest.NewRequest(http.MethodGet, "/current", nil), routes,
			internal.WithRedirectTable(filepath.Join(t.TempDir(), "missing.json"), http.StatusMovedPermanently),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				got = err
				return internal.DefaultErrorHandler(c, err)
			}),
		)
		require.ErrorIs(t, got, internal.ErrRedirectTable)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRouter_Redirect(t *testing.T) {
	t.Parallel()

	table := writeTable(t, `{"old": "new"}`)

	t.Run("hit ends matching", func(t *testing.T) {
		t.Parallel()
		called := false
		w := serve(t, httptest.NewRequest(http.MethodGet, "/old", nil), func(r internal.Router) {
			require.True(t, r.Redirect(table, http.StatusSeeOther))
			require.True(t, r.Matched())
			r.GET("/old", func(c internal.Context) error {
				called = true
				return nil
			})
		})
		require.False(t, called)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/new", w.Header().Get("Location"))
	})

	t.Run("ignored once matched", func(t *testing.T) {
		t.Parallel()
		w := serve(t, httptest.NewRequest(http.MethodGet, "/old", nil), func(r internal.Router) {
			r.GET("/old", func(c internal.Context) error { return c.String(http.StatusOK, "page") })
			require.False(t, r.Redirect(table, http.StatusSeeOther))
		})
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "page", w.Body.String())
	})
}
