package internal_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trueweb/internal"
)

type pingHandler struct{}

func (pingHandler) Routes(r internal.Router) {
	r.GET("/ping", func(c internal.Context) error { return c.String(http.StatusOK, "pong") })
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var shutdownCalls atomic.Int32

	app := internal.New(internal.WithHandlers(pingHandler{}))
	done := make(chan error, 1)
	go func() {
		done <- app.Run(
			internal.Listener(ln),
			internal.WithContext(ctx),
			internal.StartupHook(func(context.Context) error {
				close(started)
				return nil
			}),
			internal.ShutdownHook(func(context.Context) error {
				shutdownCalls.Add(1)
				return nil
			}),
			internal.ShutdownTimeout(time.Second),
		)
	}()

	<-started
	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	require.Equal(t, int32(1), shutdownCalls.Load())
}

func TestApp_RunStartupHookFails(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	boom := errors.New("migrations pending")
	err = internal.New().Run(
		internal.Listener(ln),
		internal.StartupHook(func(context.Context) error { return boom }),
	)
	require.ErrorIs(t, err, boom)
}

func TestApp_RunShutdownHookErrors(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := errors.New("close cache")
	var secondRan bool
	err = internal.New().Run(
		internal.Listener(ln),
		internal.WithContext(ctx),
		internal.ShutdownHook(func(context.Context) error { return first }),
		internal.ShutdownHook(func(context.Context) error {
			secondRan = true
			return nil
		}),
	)
	require.ErrorIs(t, err, first)
	require.True(t, secondRan)
}
