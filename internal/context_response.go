package internal

import (
	"context"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var responseJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Component renders HTML. templ.Component satisfies it.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

func (c *requestContext) Response() http.ResponseWriter   { return c.rw }
func (c *requestContext) ResponseWriter() *ResponseWriter { return c.rw }
func (c *requestContext) Written() bool                   { return c.rw.Written() }

func (c *requestContext) SetHeader(name, value string) {
	c.rw.Header().Set(name, value)
}

// send sets the content type and commits the status.
func (c *requestContext) send(code int, contentType string) {
	if contentType != "" {
		c.rw.Header().Set("Content-Type", contentType)
	}
	c.rw.WriteHeader(code)
}

func (c *requestContext) JSON(code int, v any) error {
	c.send(code, "application/json; charset=utf-8")
	return responseJSON.NewEncoder(c.rw).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.send(code, "text/plain; charset=utf-8")
	_, err := io.WriteString(c.rw, s)
	return err
}

func (c *requestContext) HTML(code int, html string) error {
	c.send(code, "text/html; charset=utf-8")
	_, err := io.WriteString(c.rw, html)
	return err
}

func (c *requestContext) Render(code int, component Component) error {
	c.send(code, "text/html; charset=utf-8")
	return component.Render(c.request.Context(), c.rw)
}

func (c *requestContext) NoContent(code int) error {
	c.send(code, "")
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.rw, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}
