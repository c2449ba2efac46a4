package transport

import (
	"context"
	"errors"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"github.com/indigo-web/rawhttp/config"
	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"
)

var _ Transport = new(TCP)

var errNotBound = errors.New("listener isn't bound")

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

type TCP struct {
	mu       sync.Mutex
	l        net.Listener
	stopped  bool
	wg       *sync.WaitGroup
	logger   zerolog.Logger
	observer Observer
}

func NewTCP(logger zerolog.Logger, observer Observer) *TCP {
	return &TCP{
		wg:       new(sync.WaitGroup),
		logger:   logger,
		observer: observer,
	}
}

// Bind opens the listening socket. With cfg.MaxConnections set, no more than that many
// connections are served at a time, and the rest wait in the backlog.
func (t *TCP) Bind(addr string, cfg config.NET) error {
	var lc net.ListenConfig
	if cfg.ReuseAddr {
		lc.Control = reuseAddr
	}

	l, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return &ListenerError{Op: "bind", Addr: addr, Err: err}
	}

	if cfg.MaxConnections > 0 {
		l = netutil.LimitListener(l, cfg.MaxConnections)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.l = l
	if t.stopped {
		// stopped before even started, so the accept loop must end immediately
		_ = l.Close()
	}

	return nil
}

// Listen runs the accept loop, calling cb in a separate goroutine for every connection.
// The connection is closed right after cb returns. Failed accepts are reported and retried
// with a growing delay, so the loop ends only when the listener is closed.
func (t *TCP) Listen(cb func(conn net.Conn)) error {
	var backoff time.Duration

	t.mu.Lock()
	l := t.l
	t.mu.Unlock()

	if l == nil {
		return &ListenerError{Op: "accept", Err: errNotBound}
	}

	for {
		conn, err := l.Accept()
		if err != nil {
			if t.isStopped() || errors.Is(err, net.ErrClosed) {
				return nil
			}

			backoff = nextBackoff(backoff)
			t.observer.AcceptError()
			t.logger.Warn().Err(err).Dur("retry_in", backoff).Msg("accept failed")
			time.Sleep(backoff)

			continue
		}

		backoff = 0
		t.wg.Add(1)
		go t.serve(conn, cb)
	}
}

// serve runs the callback, making sure a panic in it stays within the connection.
func (t *TCP) serve(conn net.Conn, cb func(conn net.Conn)) {
	defer func() {
		if r := recover(); r != nil {
			t.observer.Panic()
			t.logger.Error().
				Interface("panic", r).
				Str("remote", conn.RemoteAddr().String()).
				Bytes("stack", debug.Stack()).
				Msg("connection goroutine panicked")
		}

		_ = conn.Close()
		t.wg.Done()
	}()

	cb(conn)
}

// Addr returns the bound address, or nil if Bind wasn't called yet.
func (t *TCP) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.l == nil {
		return nil
	}

	return t.l.Addr()
}

// Stop closes the listener, so the accept loop ends. Connections being served at
// the moment aren't interrupted, see Wait.
func (t *TCP) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}

	t.stopped = true
	if t.l != nil {
		_ = t.l.Close()
	}
}

func (t *TCP) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stopped
}

// Wait blocks until every connection is served.
func (t *TCP) Wait() {
	t.wg.Wait()
}

func nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return minAcceptBackoff
	}

	return min(current*2, maxAcceptBackoff)
}
