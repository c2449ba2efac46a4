package http1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"runtime/debug"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/rawhttp/config"
	"github.com/indigo-web/rawhttp/http"
	"github.com/indigo-web/rawhttp/http/status"
	"github.com/indigo-web/rawhttp/internal/metrics"
	protocol "github.com/indigo-web/rawhttp/internal/protocol/http1"
	"github.com/indigo-web/rawhttp/router"
	"github.com/indigo-web/rawhttp/transport"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/indigo-web/rawhttp"
	spanName   = "rawhttp.conn"
	connIDLen  = 8
)

// Server serves exactly one request per connection: it reads it, finds the handler,
// writes either the handler's response or the error line, and returns. Closing the
// connection is up to the caller.
type Server struct {
	cfg      *config.Config
	table    *router.Table
	fallback error
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func NewServer(cfg *config.Config, table *router.Table, logger zerolog.Logger, m *metrics.Metrics) *Server {
	fallback := status.ErrRouteNotFound
	if cfg.HTTP.FallbackCode != status.InternalServerError {
		fallback = status.NewError(cfg.HTTP.FallbackCode, "route not found")
	}

	return &Server{
		cfg:      cfg,
		table:    table,
		fallback: fallback,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer(tracerName),
	}
}

type result struct {
	response http.Response
	err      error
}

func (s *Server) Serve(conn net.Conn) {
	id := uniuri.NewLen(connIDLen)
	logger := s.logger.With().
		Str("conn", id).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	ctx, span := s.tracer.Start(context.Background(), spanName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("rawhttp.conn_id", id)),
	)
	defer span.End()

	s.metrics.ConnOpened()
	defer s.metrics.ConnClosed()

	client := transport.NewClient(conn, s.cfg.NET.ReadTimeout, make([]byte, s.cfg.NET.ReadBufferSize))
	request, err := protocol.NewFramer(s.cfg).Frame(client)
	if err != nil {
		s.reject(client, span, logger, err)
		return
	}

	span.SetAttributes(
		attribute.String("http.method", request.Method.String()),
		attribute.String("http.target", request.URI),
	)

	start := time.Now()
	response, err := s.respond(ctx, logger, request)
	took := time.Since(start)

	var (
		data []byte
		code status.Code
	)

	if err != nil {
		data, code = protocol.SerializeError(nil, err), status.CodeOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		data, code = protocol.Serialize(nil, response, s.cfg.HTTP.AutoContentLength), response.Code
		span.SetStatus(codes.Ok, "")
	}

	span.SetAttributes(attribute.Int("http.status_code", int(code)))
	s.metrics.Request(request.Method, code, took)

	logger.Debug().
		Str("method", request.Method.String()).
		Str("uri", request.URI).
		Uint16("code", uint16(code)).
		Dur("took", took).
		Err(err).
		Msg("request served")

	s.write(client, logger, data)
}

// reject handles a request that couldn't be received or parsed. The error line is sent
// only if the error carries a status code: a failed read leaves nobody to respond to.
func (s *Server) reject(client transport.Client, span trace.Span, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, io.EOF):
		logger.Debug().Msg("closed without a request")
		return
	case errors.Is(err, os.ErrDeadlineExceeded):
		err = status.ErrRequestTimeout
	case !errors.As(err, new(status.HTTPError)):
		logger.Debug().Err(err).Msg("read failed")
		span.RecordError(err)
		return
	}

	s.metrics.ParseError(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.Debug().Err(err).Msg("request rejected")

	s.write(client, logger, protocol.SerializeError(nil, err))
}

// respond finds the handler and calls it.
func (s *Server) respond(ctx context.Context, logger zerolog.Logger, request http.Request) (http.Response, error) {
	handler, found := s.table.Match(request)
	if !found {
		return http.Response{}, s.fallback
	}

	return s.invoke(ctx, logger, handler, request)
}

// invoke runs the handler in a separate goroutine and awaits its result. If the handler
// doesn't make it in time, its result is discarded whenever it arrives.
func (s *Server) invoke(
	ctx context.Context, logger zerolog.Logger, handler router.Handler, request http.Request,
) (http.Response, error) {
	if timeout := s.cfg.HTTP.HandlerTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.metrics.Panic()
				logger.Error().
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")
				done <- result{err: fmt.Errorf("%w: handler panicked: %v", status.ErrInternalServerError, r)}
			}
		}()

		response, err := handler.ServeHTTP(ctx, request)
		done <- result{response: response, err: err}
	}()

	select {
	case res := <-done:
		return res.response, res.err
	case <-ctx.Done():
		return http.Response{}, status.ErrRequestTimeout
	}
}

func (s *Server) write(client transport.Client, logger zerolog.Logger, data []byte) {
	if _, err := client.Write(data); err != nil {
		logger.Debug().Err(err).Msg("write failed")
	}
}
