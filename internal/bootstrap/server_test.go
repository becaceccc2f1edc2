package bootstrap_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"hr-lite/internal/bootstrap"
	"hr-lite/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewHTTPServer(t *testing.T) {
	srv := bootstrap.NewHTTPServer(http.NotFoundHandler(), config.ServerConfig{
		Port:         8000,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  time.Minute,
	})

	assert.Equal(t, ":8000", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.WriteTimeout)
	assert.Equal(t, time.Minute, srv.IdleTimeout)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	var closed []string
	hooks := []bootstrap.ShutdownHook{
		func(context.Context) error { closed = append(closed, "kafka"); return nil },
		func(context.Context) error { closed = append(closed, "redis"); return errors.New("already closed") },
		func(context.Context) error { closed = append(closed, "db"); return nil },
	}

	done := make(chan error, 1)
	go func() { done <- bootstrap.Run(ctx, srv, zap.NewNop(), hooks...) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, []string{"kafka", "redis", "db"}, closed)
}

func TestRun_ListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	hookRan := false
	srv := &http.Server{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()}

	err = bootstrap.Run(context.Background(), srv, zap.NewNop(), func(context.Context) error {
		hookRan = true
		return nil
	})

	assert.Error(t, err)
	assert.True(t, hookRan)
}
