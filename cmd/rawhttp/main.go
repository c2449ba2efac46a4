package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indigo-web/rawhttp"
	"github.com/indigo-web/rawhttp/config"
	"github.com/indigo-web/rawhttp/http/method"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	addr           string
	readBuffer     int
	framing        string
	handlerTimeout time.Duration
	maxConns       int
	logLevel       string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "rawhttp",
		Short: "Serve a hello-world page over plain HTTP/1.1",
		Long: `rawhttp runs a minimal HTTP/1.1 server with two routes:

  GET  /      responds with a hello-world HTML page
  POST /user  echoes the JSON user record back

Every connection serves exactly one request and is closed afterward.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.addr, "addr", "127.0.0.1:8080", "address to listen on")
	flags.IntVar(&opts.readBuffer, "read-buffer", config.Default().NET.ReadBufferSize, "size of the read buffer in bytes")
	flags.StringVar(&opts.framing, "framing", config.SingleRead.String(), "request framing: single-read or content-length")
	flags.DurationVar(&opts.handlerTimeout, "handler-timeout", 0, "how long to wait for a handler, 0 to wait forever")
	flags.IntVar(&opts.maxConns, "max-conns", 0, "maximal number of simultaneously served connections, 0 for no limit")
	flags.StringVar(&opts.logLevel, "log-level", zerolog.InfoLevel.String(), "log level: trace, debug, info, warn, error")

	return cmd
}

func newConfig(opts options) (*config.Config, error) {
	framing, ok := config.ParseFraming(opts.framing)
	if !ok {
		return nil, fmt.Errorf("unknown framing: %q", opts.framing)
	}

	cfg := config.Default()
	cfg.NET.ReadBufferSize = opts.readBuffer
	cfg.NET.MaxConnections = opts.maxConns
	cfg.Body.Framing = framing
	cfg.HTTP.HandlerTimeout = opts.handlerTimeout

	return cfg, nil
}

func serve(ctx context.Context, opts options) error {
	level, err := zerolog.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}

	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().
		Logger()

	server, err := rawhttp.New().
		Bind(opts.addr).
		Tune(cfg).
		Logger(logger).
		Route(method.GET, "/", helloHandler()).
		RouteFunc(method.POST, "/user", echoUser).
		Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		_ = server.Stop()
	}()

	return server.Run()
}
