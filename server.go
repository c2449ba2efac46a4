package rawhttp

import (
	"net"
	"sync"

	"github.com/indigo-web/rawhttp/config"
	"github.com/indigo-web/rawhttp/internal/metrics"
	"github.com/indigo-web/rawhttp/internal/server/http1"
	"github.com/indigo-web/rawhttp/router"
	"github.com/indigo-web/rawhttp/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Server is a built server, ready to run. It can be run only once.
type Server struct {
	addr      string
	cfg       *config.Config
	table     *router.Table
	transport transport.Transport
	http      *http1.Server
	logger    zerolog.Logger
	hooks     hooks
	drained   chan struct{}
	once      sync.Once
	mu        sync.Mutex
	runs      bool
}

func newServer(
	addr string, cfg *config.Config, table *router.Table,
	logger zerolog.Logger, registerer prometheus.Registerer, hooks hooks,
) *Server {
	m := metrics.New(registerer)

	return &Server{
		addr:      addr,
		cfg:       cfg,
		table:     table,
		transport: transport.NewTCP(logger, m),
		http:      http1.NewServer(cfg, table, logger, m),
		logger:    logger,
		hooks:     hooks,
		drained:   make(chan struct{}),
	}
}

// Run binds the address and serves connections until Stop is called. Failing to bind
// is the only error returned, as a transport.ListenerError.
func (s *Server) Run() error {
	s.mu.Lock()
	if s.runs {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.runs = true
	s.mu.Unlock()

	if err := s.transport.Bind(s.addr, s.cfg.NET); err != nil {
		close(s.drained)
		s.logger.Error().Err(err).Msg("cannot bind")
		return err
	}

	s.logger.Info().
		Str("addr", s.transport.Addr().String()).
		Int("routes", s.table.Len()).
		Stringer("framing", s.cfg.Body.Framing).
		Msg("listening")

	errch := make(chan error, 1)
	go func() {
		defer close(s.drained)

		err := s.transport.Listen(s.http.Serve)
		s.transport.Wait()
		errch <- err
	}()

	callIfNotNil(s.hooks.OnStart)
	err := <-errch

	s.logger.Info().Msg("stopped")
	callIfNotNil(s.hooks.OnStop)

	return err
}

// Stop closes the listener and blocks until every connection being served is done.
// Stopping a server that isn't running returns ErrNotStarted. It may be called from
// the NotifyOnStart and NotifyOnStop callbacks, but a handler must call it in a separate
// goroutine: otherwise Stop waits for the handler's own connection forever.
func (s *Server) Stop() error {
	s.mu.Lock()
	runs := s.runs
	s.mu.Unlock()

	if !runs {
		return ErrNotStarted
	}

	s.once.Do(s.transport.Stop)
	<-s.drained

	return nil
}

// Addr returns the address the server listens on, or nil if it isn't bound yet.
// This is the way to find out the port if port 0 was requested.
func (s *Server) Addr() net.Addr {
	return s.transport.Addr()
}

// Routes lists the registered routes.
func (s *Server) Routes() []router.Route {
	return s.table.Routes()
}
