package internal

import (
	"reflect"
	"strconv"
	"strings"
)

// Scalar is the set of types the typed accessors convert to. Named types
// over these kinds work too.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the value stored under key when it has type T, or the
// zero value.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// Param returns a route capture as T. Missing or unparsable captures yield
// the zero value.
//
// Example:
//
//	id := trueweb.Param[int](c, "id")
func Param[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Param(name))
	return v
}

// Query returns a query parameter as T, or the zero value.
func Query[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Query(name))
	return v
}

// QueryDefault returns a query parameter as T, or defaultValue when it is
// empty or unparsable.
func QueryDefault[T Scalar](c Context, name string, defaultValue T) T {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	if v, ok := parseScalar[T](raw); ok {
		return v
	}
	return defaultValue
}

// Input returns a value of the merged query and body data as T. The second
// result is false when the key is absent or the value does not parse.
func Input[T Scalar](c Context, name string) (T, bool) {
	raw, ok := c.Input().All.String(name)
	if !ok {
		var zero T
		return zero, false
	}
	return parseScalar[T](raw)
}

func parseScalar[T Scalar](raw string) (T, bool) {
	var out T
	v := reflect.ValueOf(&out).Elem()
	if v.Kind() == reflect.String {
		v.SetString(raw)
		return out, true
	}

	raw = strings.TrimSpace(raw)
	switch v.Kind() {
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return out, false
		}
		v.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, false
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, false
		}
		v.SetBool(b)
	}
	return out, true
}
