package rawhttp

import (
	"errors"
	"os"

	"github.com/indigo-web/rawhttp/config"
	"github.com/indigo-web/rawhttp/http/method"
	"github.com/indigo-web/rawhttp/internal/address"
	"github.com/indigo-web/rawhttp/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Builder collects everything the server needs. Routes may be registered in any order,
// and the address may be set at any point before Build. Builder isn't safe for
// concurrent use.
type Builder struct {
	addr       string
	router     *router.Router
	cfg        *config.Config
	logger     zerolog.Logger
	registerer prometheus.Registerer
	hooks      hooks
	built      bool
}

// New returns an empty builder with the default config and a logger writing into stderr.
func New() *Builder {
	return &Builder{
		router: router.New(),
		cfg:    config.Default(),
		logger: zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel),
	}
}

// Bind sets the address to listen on. A bare port like ":8080" listens on all the
// interfaces. Calling it again replaces the previous address.
func (b *Builder) Bind(addr string) *Builder {
	b.addr = addr
	return b
}

// Route registers the handler. Registering the same method and path twice replaces
// the previous handler.
func (b *Builder) Route(m method.Method, path string, handler router.Handler) *Builder {
	b.router.Register(m, path, handler)
	return b
}

// RouteFunc is a shorthand for Route with a router.HandlerFunc.
func (b *Builder) RouteFunc(m method.Method, path string, fn router.HandlerFunc) *Builder {
	return b.Route(m, path, fn)
}

// Tune replaces the default config. The config must not be modified after Build.
func (b *Builder) Tune(cfg *config.Config) *Builder {
	b.cfg = cfg
	return b
}

// Logger replaces the default logger. Pass zerolog.Nop() to disable logging.
func (b *Builder) Logger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// Metrics sets the registerer the server's collectors are registered in. By default,
// a private registry is used, so the metrics aren't exported anywhere.
func (b *Builder) Metrics(registerer prometheus.Registerer) *Builder {
	b.registerer = registerer
	return b
}

// NotifyOnStart calls the callback once the listener is bound, so connections are
// accepted from now on.
func (b *Builder) NotifyOnStart(cb func()) *Builder {
	b.hooks.OnStart = cb
	return b
}

// NotifyOnStop calls the callback once the server is down: the listener is closed
// and every connection is served.
func (b *Builder) NotifyOnStop(cb func()) *Builder {
	b.hooks.OnStop = cb
	return b
}

// Build validates the collected parameters and freezes the routes. Routes registered
// afterward don't affect the built server. An empty routing table is legal: every
// request then gets the fallback response.
func (b *Builder) Build() (*Server, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}

	if len(b.addr) == 0 {
		return nil, ErrNoAddress
	}

	addr := address.Normalize(b.addr)
	if _, err := address.Parse(addr); err != nil {
		return nil, &ConfigError{Field: "address", Err: err}
	}

	if err := validate(b.cfg); err != nil {
		return nil, err
	}

	b.built = true

	return newServer(addr, b.cfg, b.router.Freeze(), b.logger, b.registerer, b.hooks), nil
}

func validate(cfg *config.Config) error {
	switch {
	case cfg == nil:
		return &ConfigError{Field: "config", Err: errors.New("config is nil")}
	case cfg.NET.ReadBufferSize <= 0:
		return &ConfigError{Field: "NET.ReadBufferSize", Err: errors.New("must be positive")}
	case cfg.NET.MaxConnections < 0:
		return &ConfigError{Field: "NET.MaxConnections", Err: errors.New("must not be negative")}
	case cfg.Headers.MaxNumber < 0:
		return &ConfigError{Field: "Headers.MaxNumber", Err: errors.New("must not be negative")}
	case cfg.Body.Framing != config.SingleRead && cfg.Body.Framing != config.ContentLength:
		return &ConfigError{Field: "Body.Framing", Err: errors.New("unknown framing")}
	case cfg.Body.MaxSize <= 0:
		return &ConfigError{Field: "Body.MaxSize", Err: errors.New("must be positive")}
	case cfg.HTTP.HandlerTimeout < 0:
		return &ConfigError{Field: "HTTP.HandlerTimeout", Err: errors.New("must not be negative")}
	}

	return nil
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
