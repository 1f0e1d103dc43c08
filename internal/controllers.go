package internal

import (
	"fmt"
	"strings"
)

// Controller serves a request it was looked up for by name.
// Vars carries the auxiliary values the route passed along.
type Controller interface {
	Serve(c Context, vars Vars) error
}

// ControllerFunc adapts a function to the Controller interface.
type ControllerFunc func(c Context, vars Vars) error

func (f ControllerFunc) Serve(c Context, vars Vars) error {
	return f(c, vars)
}

// Vars are named values handed to a controller by the route that selected it.
type Vars map[string]any

// Var returns vars[name] as T. The second result is false when the name is
// absent or holds a different type.
func Var[T any](vars Vars, name string) (T, bool) {
	v, ok := vars[name].(T)
	return v, ok
}

// controllerRegistry maps normalised names to controllers.
type controllerRegistry map[string]Controller

func (r controllerRegistry) register(name string, c Controller) {
	r[normalizeControllerName(name)] = c
}

func (r controllerRegistry) lookup(name string) (Controller, error) {
	c, ok := r[normalizeControllerName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrControllerNotFound, name)
	}
	return c, nil
}

// normalizeControllerName makes "/admin/users.go", "admin/users" and
// " admin/users/ " refer to the same controller.
func normalizeControllerName(name string) string {
	name = strings.Trim(strings.TrimSpace(name), "/")
	return strings.TrimSuffix(name, ".go")
}
