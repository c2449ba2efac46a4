package httptest

import (
	"testing"

	"github.com/indigo-web/rawhttp/http"
	"github.com/indigo-web/rawhttp/http/method"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	t.Run("with headers and body", func(t *testing.T) {
		resp, err := ParseResponse("HTTP/1.1 200 OK\r\nHello: World\r\nFoo: bar\r\n\r\nHello, world!")
		require.NoError(t, err)
		require.Equal(t, Response{
			Proto:   "HTTP/1.1",
			Code:    200,
			Status:  "OK",
			Headers: http.Headers{"Hello": "World", "Foo": "bar"},
			Body:    "Hello, world!",
		}, resp)
	})

	t.Run("multi-word status", func(t *testing.T) {
		resp, err := ParseResponse("HTTP/1.1 500 Internal Server Error\r\n\r\n")
		require.NoError(t, err)
		require.Equal(t, 500, resp.Code)
		require.Equal(t, "Internal Server Error", resp.Status)
		require.Empty(t, resp.Headers)
		require.Empty(t, resp.Body)
	})

	t.Run("unterminated", func(t *testing.T) {
		_, err := ParseResponse("HTTP/1.1 500 Internal Server Error")
		require.Error(t, err)

		_, err = ParseResponse("HTTP/1.1 200 OK\r\nHello: World")
		require.Error(t, err)
	})
}

func TestDump(t *testing.T) {
	request := http.Request{
		Method:  method.POST,
		URI:     "/user",
		Version: "HTTP/1.1",
		Headers: http.Headers{"Host": "x", "Content-Type": "application/json"},
		Body:    "{}",
	}

	require.Equal(t,
		"POST /user HTTP/1.1\r\nContent-Type: application/json\r\nHost: x\r\n\r\n{}",
		Dump(request),
	)
}
