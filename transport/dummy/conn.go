package dummy

import (
	"io"
	"net"
	"sync"
	"time"
)

// Conn is an in-memory net.Conn. Reads return the prepared segments one by one,
// followed by io.EOF, and everything written is journaled.
type Conn struct {
	mu       sync.Mutex
	segments [][]byte
	written  []byte
	closed   bool
	readErr  error
	deadline time.Time
}

func NewConn(segments ...string) *Conn {
	conn := &Conn{readErr: io.EOF}
	for _, segment := range segments {
		conn.segments = append(conn.segments, []byte(segment))
	}

	return conn
}

// WithReadError replaces io.EOF returned once the segments are exhausted.
func (c *Conn) WithReadError(err error) *Conn {
	c.readErr = err
	return c
}

func (c *Conn) Read(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, net.ErrClosed
	}

	if len(c.segments) == 0 {
		return 0, c.readErr
	}

	n = copy(b, c.segments[0])
	if n < len(c.segments[0]) {
		c.segments[0] = c.segments[0][n:]
	} else {
		c.segments = c.segments[1:]
	}

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, net.ErrClosed
	}

	c.written = append(c.written, b...)

	return len(b), nil
}

// Written returns everything that was written so far.
func (c *Conn) Written() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return string(c.written)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return nil
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// ReadDeadline returns the last deadline set via SetDeadline or SetReadDeadline.
func (c *Conn) ReadDeadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.deadline
}

func (c *Conn) LocalAddr() net.Addr {
	return addr("local")
}

func (c *Conn) RemoteAddr() net.Addr {
	return addr("remote")
}

func (c *Conn) SetDeadline(t time.Time) error {
	return c.SetReadDeadline(t)
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deadline = t
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}

type addr string

func (addr) Network() string {
	return "dummy"
}

func (a addr) String() string {
	return string(a)
}
