package status

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	t.Run("known", func(t *testing.T) {
		require.Equal(t, "OK", Text(OK))
		require.Equal(t, "Internal Server Error", Text(InternalServerError))
		require.Equal(t, "Request Header Fields Too Large", Text(RequestHeaderFieldsTooLarge))

		for code := range texts {
			require.True(t, IsKnown(code))
			require.Equal(t, strconv.Itoa(int(code)), code.String())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		for _, code := range []Code{0, 99, 299, 600, 65535} {
			require.False(t, IsKnown(code))
			require.Equal(t, "Unknown Status Code", Text(code))
		}
	})
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, BadRequest, CodeOf(ErrIncompleteRequest))
	require.Equal(t, RequestHeaderFieldsTooLarge, CodeOf(ErrTooManyHeaders))
	require.Equal(t, InternalServerError, CodeOf(ErrRouteNotFound))
	require.Equal(t, Teapot, CodeOf(fmt.Errorf("wrapped: %w", NewError(Teapot, "short and stout"))))
	require.Equal(t, InternalServerError, CodeOf(fmt.Errorf("plain error")))
}
