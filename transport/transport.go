package transport

import (
	"fmt"
	"net"

	"github.com/indigo-web/rawhttp/config"
)

type Transport interface {
	Bind(addr string, cfg config.NET) error
	Listen(cb func(conn net.Conn)) error
	Addr() net.Addr
	Stop()
	Wait()
}

// Observer is notified about the events the accept loop swallows.
type Observer interface {
	AcceptError()
	Panic()
}

// ListenerError is returned when the listening socket can't be set up.
type ListenerError struct {
	Op   string
	Addr string
	Err  error
}

func (l *ListenerError) Error() string {
	return fmt.Sprintf("%s %s: %s", l.Op, l.Addr, l.Err)
}

func (l *ListenerError) Unwrap() error {
	return l.Err
}
