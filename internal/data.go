package internal

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/trueweb/pkg/sanitizer"
)

var (
	reNotInt      = regexp.MustCompile(`[^0-9-]`)
	reNotFloat    = regexp.MustCompile(`[^0-9.eE+-]`)
	reNotAlpha    = regexp.MustCompile(`[^A-Za-z]`)
	reNotAlphaNum = regexp.MustCompile(`[^A-Za-z0-9]`)
	reNotSlug     = regexp.MustCompile(`[^a-z0-9-]`)
	reNotEmail    = regexp.MustCompile("[^A-Za-z0-9!#$%&'*+/=?^_`{|}~@.\\[\\]-]")
)

// Data is a read-only bag of values decoded from a query string or request body.
// Every container on a Request is non-nil, so handlers can read Put on a GET
// request without nil checks.
//
// Typed accessors sanitize the raw value and return false when the key is
// absent or nothing usable survives sanitization.
type Data struct {
	values map[string]any
}

// NewData wraps m. The map is copied.
func NewData(m map[string]any) *Data {
	values := make(map[string]any, len(m))
	maps.Copy(values, m)
	return &Data{values: values}
}

func emptyData() *Data {
	return &Data{values: map[string]any{}}
}

// Has reports whether key is present.
func (d *Data) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Len returns the number of keys.
func (d *Data) Len() int {
	return len(d.values)
}

// Keys returns the keys in sorted order.
func (d *Data) Keys() []string {
	return slices.Sorted(maps.Keys(d.values))
}

// Map returns a copy of the underlying values.
func (d *Data) Map() map[string]any {
	return maps.Clone(d.values)
}

// Merge returns a new Data holding d overlaid by other. Keys in other win.
func (d *Data) Merge(other *Data) *Data {
	out := NewData(d.values)
	if other != nil {
		maps.Copy(out.values, other.values)
	}
	return out
}

// Value returns the raw value stored under key.
func (d *Data) Value(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// String returns the trimmed string form of a scalar value.
func (d *Data) String(key string) (string, bool) {
	v, ok := d.values[key]
	if !ok {
		return "", false
	}
	s, ok := scalarString(v)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// Strings returns a list value. A scalar is returned as a one-element list.
func (d *Data) Strings(key string) ([]string, bool) {
	v, ok := d.values[key]
	if !ok {
		return nil, false
	}
	switch vv := v.(type) {
	case []string:
		return slices.Clone(vv), true
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := scalarString(item); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	if s, ok := scalarString(v); ok {
		return []string{s}, true
	}
	return nil, false
}

// Data returns a nested object as its own bag.
func (d *Data) Data(key string) (*Data, bool) {
	v, ok := d.values[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return NewData(v), true
}

// AsInt keeps digits and '-' then parses the result.
func (d *Data) AsInt(key string) (int, bool) {
	s, ok := d.sanitized(key, reNotInt)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsFloat keeps digits, sign, exponent and '.' then parses the result.
func (d *Data) AsFloat(key string) (float64, bool) {
	s, ok := d.sanitized(key, reNotFloat)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AsBool accepts the usual form spellings: 1/0, true/false, on/off, yes/no.
func (d *Data) AsBool(key string) (bool, bool) {
	s, ok := d.String(key)
	if !ok {
		return false, false
	}
	switch strings.ToLower(s) {
	case "1", "true", "on", "yes":
		return true, true
	case "0", "false", "off", "no", "":
		return false, true
	}
	return false, false
}

// AsAlpha keeps ASCII letters only.
func (d *Data) AsAlpha(key string) (string, bool) {
	return d.sanitized(key, reNotAlpha)
}

// AsAlphaNum keeps ASCII letters and digits only.
func (d *Data) AsAlphaNum(key string) (string, bool) {
	return d.sanitized(key, reNotAlphaNum)
}

// AsSlug lower-cases the value and keeps [a-z0-9-].
func (d *Data) AsSlug(key string) (string, bool) {
	s, ok := d.String(key)
	if !ok {
		return "", false
	}
	s = reNotSlug.ReplaceAllString(strings.ToLower(s), "")
	return s, s != ""
}

// AsEmail strips characters that cannot appear in an address and validates the rest.
func (d *Data) AsEmail(key string) (string, bool) {
	s, ok := d.sanitized(key, reNotEmail)
	if !ok || !isEmail(s) {
		return "", false
	}
	return s, true
}

// AsHTML returns the value with only basic formatting markup kept.
func (d *Data) AsHTML(key string) (string, bool) {
	s, ok := d.String(key)
	if !ok {
		return "", false
	}
	s = sanitizer.SanitizeHTML(s)
	return s, s != ""
}

// AsText returns the value with every tag removed.
func (d *Data) AsText(key string) (string, bool) {
	s, ok := d.String(key)
	if !ok {
		return "", false
	}
	s = sanitizer.StripHTML(s)
	return s, s != ""
}

// MarshalJSON encodes the underlying values.
func (d *Data) MarshalJSON() ([]byte, error) {
	return responseJSON.Marshal(d.values)
}

func (d *Data) sanitized(key string, drop *regexp.Regexp) (string, bool) {
	s, ok := d.String(key)
	if !ok {
		return "", false
	}
	s = drop.ReplaceAllString(s, "")
	return s, s != ""
}

// scalarString renders strings, numbers and booleans. Lists yield their first element.
func scalarString(v any) (string, bool) {
	switch vv := v.(type) {
	case string:
		return vv, true
	case json.Number:
		return vv.String(), true
	case bool:
		return strconv.FormatBool(vv), true
	case int, int64, float64:
		return fmt.Sprint(vv), true
	case []string:
		if len(vv) == 0 {
			return "", false
		}
		return vv[0], true
	case []any:
		if len(vv) == 0 {
			return "", false
		}
		return scalarString(vv[0])
	}
	return "", false
}
