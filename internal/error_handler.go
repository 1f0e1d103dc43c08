package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// errorBody is the JSON shape of an error response.
type errorBody struct {
	*HTTPError
	Errors ValidationErrors `json:"errors,omitempty"`
}

// DefaultErrorHandler renders err as JSON for clients that ask for it and as
// a small HTML page otherwise. Messages of non-HTTP errors are never shown.
func DefaultErrorHandler(c Context, err error) error {
	he := AsHTTPError(err)
	if he == nil {
		status := StatusOf(err)
		he = NewHTTPError(status, http.StatusText(status), WithCause(err))
	}
	resp := *he
	he = &resp
	if he.Code == 0 {
		he.Code = http.StatusInternalServerError
	}
	if he.RequestID == "" {
		he.RequestID = c.Response().Header().Get("X-Request-ID")
	}

	if wantsJSON(c) {
		body := errorBody{HTTPError: he}
		var ve ValidationErrors
		if errors.As(err, &ve) {
			body.Errors = ve
		}
		return c.JSON(he.Code, body)
	}

	return c.Render(he.Code, errorPage(he))
}

// errorPage renders a minimal standalone HTML error document.
func errorPage(he *HTTPError) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		title := fmt.Sprintf("%d %s", he.Code, templ.EscapeString(he.StatusText()))
		var b strings.Builder
		b.WriteString("<!doctype html><html><head><meta charset=\"utf-8\"><title>")
		b.WriteString(title)
		b.WriteString("</title></head><body><h1>")
		b.WriteString(title)
		b.WriteString("</h1><p>")
		b.WriteString(templ.EscapeString(he.Error()))
		b.WriteString("</p>")
		if he.Detail != "" {
			b.WriteString("<p>")
			b.WriteString(templ.EscapeString(he.Detail))
			b.WriteString("</p>")
		}
		if he.RequestID != "" {
			b.WriteString("<small>Request ID: ")
			b.WriteString(templ.EscapeString(he.RequestID))
			b.WriteString("</small>")
		}
		b.WriteString("</body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// wantsJSON reports whether the client prefers a JSON error body.
func wantsJSON(c Context) bool {
	if strings.Contains(c.Header("Accept"), "application/json") {
		return true
	}
	return strings.HasSuffix(c.Input().ContentType, "json")
}
