package middlewares_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trueweb/middlewares"
)

func TestPanicError(t *testing.T) {
	t.Parallel()

	t.Run("formats the panic value", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "panic: something went wrong", (&middlewares.PanicError{Value: "something went wrong"}).Error())
		require.Equal(t, "panic: 42", (&middlewares.PanicError{Value: 42}).Error())
		require.Equal(t, "panic: <nil>", (&middlewares.PanicError{}).Error())
	})

	t.Run("unwraps error values", func(t *testing.T) {
		t.Parallel()
		err := &middlewares.PanicError{Value: io.ErrUnexpectedEOF}
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)

		require.NoError(t, (&middlewares.PanicError{Value: "text"}).Unwrap())
	})

	t.Run("detection through wrapping", func(t *testing.T) {
		t.Parallel()
		original := &middlewares.PanicError{Value: "boom", Stack: []byte("stack")}
		wrapped := fmt.Errorf("handling: %w", errors.Join(original, errors.New("other")))

		require.True(t, middlewares.IsPanicError(wrapped))
		pe, ok := middlewares.AsPanicError(wrapped)
		require.True(t, ok)
		require.Same(t, original, pe)

		require.False(t, middlewares.IsPanicError(nil))
		require.False(t, middlewares.IsPanicError(errors.New("plain")))
		_, ok = middlewares.AsPanicError(errors.New("plain"))
		require.False(t, ok)
	})
}
