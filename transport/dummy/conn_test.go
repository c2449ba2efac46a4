package dummy

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConn(t *testing.T) {
	t.Run("segments", func(t *testing.T) {
		conn := NewConn("hello", "world")
		buff := make([]byte, 3)

		for _, want := range []string{"hel", "lo", "wor", "ld"} {
			n, err := conn.Read(buff)
			require.NoError(t, err)
			require.Equal(t, want, string(buff[:n]))
		}

		_, err := conn.Read(buff)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("journal", func(t *testing.T) {
		conn := NewConn()
		_, err := conn.Write([]byte("hello "))
		require.NoError(t, err)
		_, err = conn.Write([]byte("world"))
		require.NoError(t, err)
		require.Equal(t, "hello world", conn.Written())

		require.NoError(t, conn.Close())
		require.True(t, conn.Closed())
		_, err = conn.Write([]byte("!"))
		require.ErrorIs(t, err, net.ErrClosed)
	})
}
