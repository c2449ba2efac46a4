package main

import (
	"context"
	"testing"
	"time"

	"github.com/indigo-web/rawhttp/config"
	"github.com/indigo-web/rawhttp/http"
	"github.com/indigo-web/rawhttp/http/status"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	t.Run("hello", func(t *testing.T) {
		response, err := helloHandler().ServeHTTP(context.Background(), http.Request{})
		require.NoError(t, err)
		require.Equal(t, status.OK, response.Code)
		require.Equal(t, "text/html", response.Headers["Content-Type"])
		require.Equal(t, helloPage, response.Body)
	})

	t.Run("echo user", func(t *testing.T) {
		response, err := echoUser(context.Background(), http.Request{
			Headers: http.Headers{"Content-Type": "application/json; charset=utf-8"},
			Body:    `{"id": 1, "name": "Ann"}`,
		})
		require.NoError(t, err)
		require.JSONEq(t, `{"id":1,"name":"Ann"}`, response.Body)
	})

	t.Run("bad user", func(t *testing.T) {
		_, err := echoUser(context.Background(), http.Request{Body: `{"id": 1`})
		require.ErrorIs(t, err, status.ErrBadRequest)

		_, err = echoUser(context.Background(), http.Request{Body: `{"id": 1}`})
		require.Equal(t, status.UnprocessableEntity, status.CodeOf(err))

		_, err = echoUser(context.Background(), http.Request{
			Headers: http.Headers{"Content-Type": "text/plain"},
			Body:    `{"id": 1, "name": "Ann"}`,
		})
		require.ErrorIs(t, err, status.ErrUnsupportedMediaType)
	})
}

func TestConfig(t *testing.T) {
	cfg, err := newConfig(options{
		readBuffer:     4096,
		framing:        "content-length",
		handlerTimeout: time.Second,
		maxConns:       10,
	})
	require.NoError(t, err)
	require.Equal(t, 4096, cfg.NET.ReadBufferSize)
	require.Equal(t, config.ContentLength, cfg.Body.Framing)
	require.Equal(t, time.Second, cfg.HTTP.HandlerTimeout)
	require.Equal(t, 10, cfg.NET.MaxConnections)

	_, err = newConfig(options{framing: "chunked"})
	require.Error(t, err)
}

func TestRootCmd(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"--addr", "localhost", "--log-level", "disabled"})
	require.Error(t, cmd.Execute())

	cmd = rootCmd()
	cmd.SetArgs([]string{"--log-level", "loud"})
	require.Error(t, cmd.Execute())
}
