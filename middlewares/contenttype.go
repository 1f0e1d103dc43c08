package middlewares

import (
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrymomot/trueweb/internal"
)

// ContentTypeConfig configures the Content-Type gate.
type ContentTypeConfig struct {
	// ErrorHandler renders the 415 response. Defaults to internal.DefaultErrorHandler.
	ErrorHandler internal.ErrorHandler

	// AllowedTypes are the acceptable media types. Matching is
	// case-insensitive and ignores parameters. Required.
	AllowedTypes []string

	// Methods that are checked. Defaults to POST, PUT and PATCH;
	// other methods always pass.
	Methods []string
}

// ContentType returns a gate that vetoes body-carrying requests whose
// Content-Type is missing or not allowed, answering 415.
//
// Example:
//
//	jsonOnly, err := middlewares.ContentType(middlewares.ContentTypeConfig{
//	    AllowedTypes: []string{"application/json"},
//	})
//	r.Group("/api/*", apiRoutes, jsonOnly)
func ContentType(cfg ContentTypeConfig) (internal.Gate, error) {
	if len(cfg.AllowedTypes) == 0 {
		return nil, ErrNoAllowedTypes
	}

	methods := cfg.Methods
	if methods == nil {
		methods = []string{http.MethodPost, http.MethodPut, http.MethodPatch}
	}
	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[strings.ToUpper(m)] = struct{}{}
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	return func(c internal.Context) bool {
		if _, check := methodSet[c.Input().Method]; !check {
			return true
		}

		mediaType, _, err := mime.ParseMediaType(c.Header("Content-Type"))
		if err == nil {
			if _, ok := allowed[strings.ToLower(mediaType)]; ok {
				return true
			}
		}

		return deny(c, cfg.ErrorHandler, internal.NewHTTPError(
			http.StatusUnsupportedMediaType,
			http.StatusText(http.StatusUnsupportedMediaType),
		))
	}, nil
}
