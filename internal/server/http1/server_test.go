package http1

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/indigo-web/rawhttp/config"
	"github.com/indigo-web/rawhttp/http"
	"github.com/indigo-web/rawhttp/http/method"
	"github.com/indigo-web/rawhttp/http/mime"
	"github.com/indigo-web/rawhttp/http/status"
	"github.com/indigo-web/rawhttp/internal/httptest"
	"github.com/indigo-web/rawhttp/internal/metrics"
	"github.com/indigo-web/rawhttp/router"
	"github.com/indigo-web/rawhttp/transport/dummy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const helloPage = "<html><body><h1>Hello, world!</h1></body></html>"

func getRouter() *router.Router {
	return router.New().
		Register(method.GET, "/", router.Static(
			http.NewResponse().WithContentType(mime.HTML).WithString(helloPage),
		)).
		Register(method.POST, "/echo", router.HandlerFunc(func(_ context.Context, request http.Request) (http.Response, error) {
			return http.NewResponse().WithString(request.Body), nil
		})).
		Register(method.GET, "/teapot", router.HandlerFunc(func(context.Context, http.Request) (http.Response, error) {
			return http.Response{}, status.NewError(status.Teapot, "short and stout")
		})).
		Register(method.GET, "/fail", router.HandlerFunc(func(context.Context, http.Request) (http.Response, error) {
			return http.Response{}, errors.New("database is on fire")
		})).
		Register(method.GET, "/panic", router.HandlerFunc(func(context.Context, http.Request) (http.Response, error) {
			panic("something went wrong")
		})).
		Register(method.GET, "/slow", router.HandlerFunc(func(context.Context, http.Request) (http.Response, error) {
			time.Sleep(200 * time.Millisecond)
			return http.NewResponse().WithString("finally"), nil
		}))
}

func getServer(cfg *config.Config) *Server {
	return NewServer(cfg, getRouter().Freeze(), zerolog.Nop(), metrics.New(prometheus.NewRegistry()))
}

func serve(t *testing.T, server *Server, segments ...string) httptest.Response {
	conn := dummy.NewConn(segments...)
	server.Serve(conn)

	response, err := httptest.ParseResponse(conn.Written())
	require.NoError(t, err, conn.Written())

	return response
}

func TestServer(t *testing.T) {
	server := getServer(config.Default())

	t.Run("hello", func(t *testing.T) {
		response := serve(t, server, "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n")
		require.Equal(t, "HTTP/1.1", response.Proto)
		require.Equal(t, 200, response.Code)
		require.Equal(t, "OK", response.Status)
		require.Equal(t, http.Headers{"Content-Type": "text/html"}, response.Headers)
		require.Equal(t, helloPage, response.Body)
	})

	t.Run("request body", func(t *testing.T) {
		response := serve(t, server, "POST /echo HTTP/1.1\r\n\r\nHello, world!")
		require.Equal(t, 200, response.Code)
		require.Equal(t, "Hello, world!", response.Body)
	})

	t.Run("unmatched route", func(t *testing.T) {
		for _, request := range []string{
			"GET /missing HTTP/1.1\r\n\r\n",
			"POST / HTTP/1.1\r\n\r\n",
			"get / HTTP/1.1\r\n\r\n",
		} {
			conn := dummy.NewConn(request)
			server.Serve(conn)
			require.Equal(t, "HTTP/1.1 500 Internal Server Error\r\n\r\n", conn.Written())
		}
	})

	t.Run("malformed request", func(t *testing.T) {
		for _, tc := range []struct {
			Request string
			Want    int
		}{
			{"GARBAGE\r\n\r\n", 400},
			{"GET / HTTP/1.1\r\nHost localhost\r\n\r\n", 400},
			{"GET / HTTP/1.1\r\nHost: local", 400},
			{"GET / HTTP/1.1\r\n" + strings.Repeat("X: y\r\n", 17) + "\r\n", 431},
		} {
			response := serve(t, server, tc.Request)
			require.Equal(t, tc.Want, response.Code, tc.Request)
			require.Empty(t, response.Headers)
			require.Empty(t, response.Body)
		}
	})

	t.Run("handler errors", func(t *testing.T) {
		conn := dummy.NewConn("GET /teapot HTTP/1.1\r\n\r\n")
		server.Serve(conn)
		require.Equal(t, "HTTP/1.1 418 I'm a teapot\r\n\r\n", conn.Written())

		conn = dummy.NewConn("GET /fail HTTP/1.1\r\n\r\n")
		server.Serve(conn)
		require.Equal(t, "HTTP/1.1 500 Internal Server Error\r\n\r\n", conn.Written())
	})

	t.Run("handler panic", func(t *testing.T) {
		conn := dummy.NewConn("GET /panic HTTP/1.1\r\n\r\n")
		require.NotPanics(t, func() {
			server.Serve(conn)
		})
		require.Equal(t, "HTTP/1.1 500 Internal Server Error\r\n\r\n", conn.Written())
	})

	t.Run("silent client", func(t *testing.T) {
		conn := dummy.NewConn()
		server.Serve(conn)
		require.Empty(t, conn.Written())
	})

	t.Run("broken connection", func(t *testing.T) {
		conn := dummy.NewConn().WithReadError(errors.New("connection reset by peer"))
		server.Serve(conn)
		require.Empty(t, conn.Written())
	})

	t.Run("segmented request", func(t *testing.T) {
		response := serve(t, server, "GET / HTTP/1.1\r\n", "Host: localhost\r\n\r\n")
		require.Equal(t, 400, response.Code)
	})
}

func TestServer_Tuned(t *testing.T) {
	t.Run("fallback code", func(t *testing.T) {
		cfg := config.Default()
		cfg.HTTP.FallbackCode = status.NotFound
		conn := dummy.NewConn("GET /missing HTTP/1.1\r\n\r\n")
		getServer(cfg).Serve(conn)
		require.Equal(t, "HTTP/1.1 404 Not Found\r\n\r\n", conn.Written())
	})

	t.Run("auto content length", func(t *testing.T) {
		cfg := config.Default()
		cfg.HTTP.AutoContentLength = true
		response := serve(t, getServer(cfg), "GET / HTTP/1.1\r\n\r\n")
		require.Equal(t, strconv.Itoa(len(helloPage)), response.Headers["Content-Length"])
	})

	t.Run("handler timeout", func(t *testing.T) {
		cfg := config.Default()
		cfg.HTTP.HandlerTimeout = 10 * time.Millisecond
		conn := dummy.NewConn("GET /slow HTTP/1.1\r\n\r\n")
		getServer(cfg).Serve(conn)
		require.Equal(t, "HTTP/1.1 408 Request Timeout\r\n\r\n", conn.Written())
	})

	t.Run("content length framing", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.Framing = config.ContentLength
		response := serve(t, getServer(cfg),
			"POST /echo HTTP/1.1\r\nContent-Length: 13\r\n", "\r\nHello, ", "world!",
		)
		require.Equal(t, 200, response.Code)
		require.Equal(t, "Hello, world!", response.Body)
	})

	t.Run("read buffer size", func(t *testing.T) {
		cfg := config.Default()
		cfg.NET.ReadBufferSize = 32
		response := serve(t, getServer(cfg), "POST /echo HTTP/1.1\r\n\r\n"+strings.Repeat("a", 100))
		require.Equal(t, 200, response.Code)
		require.Equal(t, strings.Repeat("a", 32-len("POST /echo HTTP/1.1\r\n\r\n")), response.Body)
	})
}

func TestServer_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	server := NewServer(config.Default(), getRouter().Freeze(), zerolog.Nop(), metrics.New(registry))

	server.Serve(dummy.NewConn("GET / HTTP/1.1\r\n\r\n"))
	server.Serve(dummy.NewConn("GET /missing HTTP/1.1\r\n\r\n"))
	server.Serve(dummy.NewConn("GARBAGE\r\n\r\n"))
	server.Serve(dummy.NewConn("GET /panic HTTP/1.1\r\n\r\n"))

	for name, want := range map[string]int{
		"rawhttp_requests_total":           2,
		"rawhttp_parse_errors_total":       1,
		"rawhttp_handler_duration_seconds": 1,
	} {
		count, err := testutil.GatherAndCount(registry, name)
		require.NoError(t, err)
		require.Equal(t, want, count, name)
	}

	families, err := registry.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, family := range families {
		if len(family.GetMetric()) == 1 {
			metric := family.GetMetric()[0]
			values[family.GetName()] = metric.GetCounter().GetValue() + metric.GetGauge().GetValue()
		}
	}

	for _, family := range families {
		if family.GetName() == "rawhttp_parse_errors_total" {
			label := family.GetMetric()[0].GetLabel()[0]
			require.Equal(t, "kind", label.GetName())
			require.Equal(t, "missing_path", label.GetValue())
		}
	}

	require.Equal(t, 4.0, values["rawhttp_connections_total"])
	require.Equal(t, 0.0, values["rawhttp_connections_active"])
	require.Equal(t, 1.0, values["rawhttp_connection_panics_total"])
}
