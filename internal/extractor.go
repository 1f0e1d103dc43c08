package internal

import (
	"strings"
)

// ExtractorSource reads a single value from the request.
// It returns the value and whether it was found.
type ExtractorSource = func(Context) (string, bool)

// Extractor tries sources in order and returns the first non-empty value.
// The auth gates use it to locate credentials.
//
// Example:
//
//	token := trueweb.NewExtractor(
//	    trueweb.FromBearerToken(),
//	    trueweb.FromCookieSigned("token"),
//	    trueweb.FromQuery("access_token"),
//	)
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor from the given sources.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value found.
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func nonEmpty(v string) (string, bool) {
	return v, v != ""
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return nonEmpty(c.Header(name))
	}
}

// FromQuery reads a query string value.
func FromQuery(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return nonEmpty(c.Query(name))
	}
}

// FromCookie reads a plain cookie.
func FromCookie(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v, err := c.Cookie(name)
		if err != nil {
			return "", false
		}
		return nonEmpty(v)
	}
}

// FromCookieSigned reads a signed cookie. Tampered cookies are ignored.
func FromCookieSigned(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v, err := c.CookieSigned(name)
		if err != nil {
			return "", false
		}
		return nonEmpty(v)
	}
}

// FromCookieEncrypted reads an encrypted cookie.
func FromCookieEncrypted(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v, err := c.CookieEncrypted(name)
		if err != nil {
			return "", false
		}
		return nonEmpty(v)
	}
}

// FromParam reads a route capture. Captures are only known once a route has
// matched, so this source is useful in route middleware, not in gates.
func FromParam(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return nonEmpty(c.Param(name))
	}
}

// FromForm reads a value from the active method's body data.
func FromForm(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return nonEmpty(c.Form(name))
	}
}

// FromInput reads a value from the merged query and body data.
func FromInput(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v, ok := c.Input().All.String(name)
		if !ok {
			return "", false
		}
		return nonEmpty(v)
	}
}

// FromBearerToken reads the token of an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func FromBearerToken() ExtractorSource {
	return func(c Context) (string, bool) {
		scheme, token, ok := strings.Cut(c.Header("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			return "", false
		}
		return nonEmpty(strings.TrimSpace(token))
	}
}
