package internal

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/dmitrymomot/trueweb/pkg/logger"
)

const (
	defaultMaxMultipartMemory = 32 << 20 // 32MB
	defaultMaxBodySize        = 32 << 20 // 32MB
)

// Content type families understood by the body parser.
var (
	formContentTypes = []string{
		"application/x-www-form-urlencoded",
		"multipart/form-data",
		"text/plain",
	}
	jsonContentTypes = []string{
		"application/json",
		"application/ld+json",
		"application/activity+json",
		"application/octet-stream",
	}
	xmlContentTypes = []string{
		"text/xml",
		"application/xml",
	}
)

// bodyJSON keeps numbers as json.Number so integer accessors stay exact.
var bodyJSON = jsoniter.Config{
	UseNumber:              true,
	EscapeHTML:             true,
	ValidateJsonRawMessage: true,
}.Froze()

// Request is the per-request snapshot handlers and gates read from.
// It is built once before routing and is not modified afterwards, except
// for Route which the router fills in when a pattern with captures matches.
type Request struct {
	// Header holds the request headers.
	Header http.Header

	// Per-method data. All containers are always non-nil; only the one
	// matching Method is filled from the body.
	Get    *Data
	Post   *Data
	Put    *Data
	Patch  *Data
	Delete *Data

	// All is Get overlaid by the active method's data.
	All *Data

	// Route holds the captures of the matched pattern. Nil until a pattern
	// with named or wildcard captures matches.
	Route *Data

	// Files holds uploaded files keyed by field name ("name[]" is stored as "name").
	Files map[string]*FileField

	raw  *http.Request
	form *multipart.Form

	// Method is the upper-cased request method.
	Method string

	// URI is the request URI as received, query string included.
	URI string

	// Path is the URI before "?" with every "../" replaced by "/".
	Path string

	// ContentType is the primary media type, lower-cased, parameters stripped.
	ContentType string
}

// RequestOption configures how a Request is built.
type RequestOption func(*requestConfig)

type requestConfig struct {
	logger             *slog.Logger
	maxMultipartMemory int64
	maxBodySize        int64
}

// WithRequestLogger sets the logger used to report malformed bodies.
func WithRequestLogger(l *slog.Logger) RequestOption {
	return func(c *requestConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxMultipartMemory sets how much of a multipart body is kept in memory.
// Defaults to 32MB.
func WithMaxMultipartMemory(n int64) RequestOption {
	return func(c *requestConfig) {
		if n > 0 {
			c.maxMultipartMemory = n
		}
	}
}

// WithMaxBodySize caps the number of body bytes read, multipart bodies included.
// Defaults to 32MB.
func WithMaxBodySize(n int64) RequestOption {
	return func(c *requestConfig) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// NewRequest builds the request snapshot from r. It consumes r.Body.
//
// Malformed JSON or XML bodies do not fail the request: the affected
// container is left empty and a warning is logged.
func NewRequest(r *http.Request, opts ...RequestOption) *Request {
	cfg := &requestConfig{
		logger:             logger.NewNope(),
		maxMultipartMemory: defaultMaxMultipartMemory,
		maxBodySize:        defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	uri := r.RequestURI
	if uri == "" {
		uri = r.URL.RequestURI()
	}

	req := &Request{
		raw:         r,
		Header:      r.Header,
		Method:      strings.ToUpper(r.Method),
		URI:         uri,
		Path:        cleanPath(uri),
		ContentType: primaryContentType(r.Header.Get("Content-Type")),
		Get:         valuesToData(r.URL.Query()),
		Post:        emptyData(),
		Put:         emptyData(),
		Patch:       emptyData(),
		Delete:      emptyData(),
		Files:       map[string]*FileField{},
	}

	if !carriesBody(req.Method) {
		req.All = req.Get.Merge(nil)
		return req
	}

	body := req.parseBody(r, cfg)
	req.setMethodData(body)
	req.All = req.Get.Merge(body)

	return req
}

// HTTP returns the underlying *http.Request.
func (r *Request) HTTP() *http.Request {
	return r.raw
}

// Close removes the temp files a multipart body spilled to disk.
// Uploaded files cannot be opened afterwards.
func (r *Request) Close() error {
	if r.form == nil {
		return nil
	}
	return r.form.RemoveAll()
}

// Body returns the container filled from the body of the active method.
// It is empty for methods whose body is not parsed.
func (r *Request) Body() *Data {
	switch r.Method {
	case http.MethodPost:
		return r.Post
	case http.MethodPut:
		return r.Put
	case http.MethodPatch:
		return r.Patch
	case http.MethodDelete:
		return r.Delete
	}
	return emptyData()
}

// Param returns a route capture, or "" when it is absent.
func (r *Request) Param(name string) string {
	if r.Route == nil {
		return ""
	}
	v, _ := r.Route.String(name)
	return v
}

// File returns the first uploaded file of a field.
func (r *Request) File(name string) (*UploadedFile, bool) {
	return r.Files[name].First()
}

// Bind decodes All into dst and validates it using `validate` struct tags.
// Validation failures are returned as ValidationErrors.
func (r *Request) Bind(dst any) error {
	raw, err := bindJSON.Marshal(r.All.values)
	if err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	if err := bindJSON.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	return validateStruct(dst)
}

// carriesBody reports whether the body of a request with this method is parsed.
func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func (r *Request) setMethodData(d *Data) {
	switch r.Method {
	case http.MethodPost:
		r.Post = d
	case http.MethodPut:
		r.Put = d
	case http.MethodPatch:
		r.Patch = d
	case http.MethodDelete:
		r.Delete = d
	}
}

func (r *Request) parseBody(hr *http.Request, cfg *requestConfig) *Data {
	ctx := hr.Context()
	ct := r.ContentType

	if ct == "multipart/form-data" {
		form, err := readMultipart(hr, cfg.maxMultipartMemory, cfg.maxBodySize)
		if err != nil {
			cfg.logger.WarnContext(ctx, "malformed multipart body", slog.String("error", err.Error()))
			return emptyData()
		}
		r.form = form
		r.Files = collectFiles(form)
		return valuesToData(form.Value)
	}

	body, err := readBody(hr, cfg.maxBodySize)
	if err != nil {
		cfg.logger.WarnContext(ctx, "failed to read request body", slog.String("error", err.Error()))
		return emptyData()
	}

	switch {
	case slices.Contains(formContentTypes, ct):
		values, err := url.ParseQuery(string(body))
		if err != nil {
			cfg.logger.WarnContext(ctx, "malformed form body", slog.String("error", err.Error()))
		}
		return valuesToData(values)

	case slices.Contains(jsonContentTypes, ct):
		if len(bytes.TrimSpace(body)) == 0 {
			return emptyData()
		}
		var m map[string]any
		if err := bodyJSON.Unmarshal(body, &m); err != nil {
			cfg.logger.WarnContext(ctx, "malformed json body",
				slog.String("content_type", ct),
				slog.String("error", err.Error()),
			)
			return emptyData()
		}
		return &Data{values: nonNil(m)}

	case slices.Contains(xmlContentTypes, ct):
		if len(bytes.TrimSpace(body)) == 0 {
			return emptyData()
		}
		m, err := decodeXML(body)
		if err != nil {
			cfg.logger.WarnContext(ctx, "malformed xml body",
				slog.String("content_type", ct),
				slog.String("error", err.Error()),
			)
			return emptyData()
		}
		return &Data{values: m}
	}

	return &Data{values: map[string]any{"raw": string(body)}}
}

// readMultipart reads at most maxBody bytes of a multipart body. The form is
// also stored on hr so the server cleans it up when hr is its own request.
func readMultipart(hr *http.Request, maxMemory, maxBody int64) (*multipart.Form, error) {
	if hr.Body != nil {
		hr.Body = http.MaxBytesReader(nil, hr.Body, maxBody)
	}
	mr, err := hr.MultipartReader()
	if err != nil {
		return nil, err
	}
	form, err := mr.ReadForm(maxMemory)
	if err != nil {
		return nil, err
	}
	hr.MultipartForm = form
	return form, nil
}

func readBody(hr *http.Request, limit int64) ([]byte, error) {
	if hr.Body == nil {
		return nil, nil
	}
	return io.ReadAll(io.LimitReader(hr.Body, limit))
}

// cleanPath cuts the query string and neutralises "../" sequences.
// It is not a full normalisation: "./" and duplicate slashes are kept.
func cleanPath(uri string) string {
	path, _, _ := strings.Cut(uri, "?")
	return strings.ReplaceAll(path, "../", "/")
}

// primaryContentType returns the first ";"-delimited token, trimmed and lower-cased.
func primaryContentType(header string) string {
	ct, _, _ := strings.Cut(header, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// valuesToData converts url.Values. Keys written as "name[]" and keys sent
// more than once become ordered lists under the bare name.
// Keys are visited in sorted order, so "tags" comes before "tags[]".
func valuesToData(values url.Values) *Data {
	m := make(map[string]any, len(values))
	for _, key := range slices.Sorted(maps.Keys(values)) {
		vals := values[key]
		name, isArray := strings.CutSuffix(key, "[]")
		switch prev := m[name].(type) {
		case []string:
			m[name] = append(prev, vals...)
			continue
		case string:
			m[name] = append([]string{prev}, vals...)
			continue
		}
		if isArray || len(vals) > 1 {
			m[name] = append([]string(nil), vals...)
			continue
		}
		if len(vals) == 1 {
			m[name] = vals[0]
		}
	}
	return &Data{values: m}
}

// decodeXML turns a document into nested maps. The root element's children
// become the top-level keys; attributes are stored as "@name" and mixed
// text as "#text". Repeated elements are collected into a list.
func decodeXML(body []byte) (map[string]any, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrEmptyDocument
			}
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		v, err := decodeXMLElement(dec, start)
		if err != nil {
			return nil, err
		}
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
		return map[string]any{"#text": v}, nil
	}
}

func decodeXMLElement(dec *xml.Decoder, start xml.StartElement) (any, error) {
	m := make(map[string]any)
	for _, attr := range start.Attr {
		m["@"+attr.Name.Local] = attr.Value
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeXMLElement(dec, t)
			if err != nil {
				return nil, err
			}
			addXMLChild(m, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			s := strings.TrimSpace(text.String())
			if len(m) == 0 {
				return s, nil
			}
			if s != "" {
				m["#text"] = s
			}
			return m, nil
		}
	}
}

func addXMLChild(m map[string]any, name string, child any) {
	prev, ok := m[name]
	if !ok {
		m[name] = child
		return
	}
	if list, ok := prev.([]any); ok {
		m[name] = append(list, child)
		return
	}
	m[name] = []any{prev, child}
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
