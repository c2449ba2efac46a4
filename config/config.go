package config

import (
	"time"

	"github.com/indigo-web/rawhttp/http/status"
)

// Framing decides how many reads a request may take.
type Framing uint8

const (
	// SingleRead parses whatever arrived in the first read of NET.ReadBufferSize bytes.
	// Bodies exceeding the buffer are truncated and bodies arriving in later segments
	// are lost.
	SingleRead Framing = iota + 1
	// ContentLength keeps reading until the headers block is complete and then until
	// as many body bytes as Content-Length declares have arrived, limited by Body.MaxSize.
	ContentLength
)

func (f Framing) String() string {
	switch f {
	case SingleRead:
		return "single-read"
	case ContentLength:
		return "content-length"
	default:
		return "unknown"
	}
}

// ParseFraming is the inverse of Framing.String.
func ParseFraming(str string) (Framing, bool) {
	switch str {
	case "single-read":
		return SingleRead, true
	case "content-length":
		return ContentLength, true
	default:
		return 0, false
	}
}

type (
	NET struct {
		// ReadBufferSize is the size of the buffer a request is read into. With SingleRead
		// framing it's also the upper bound of the whole request.
		ReadBufferSize int
		// ReadTimeout limits how long a connection may stay silent. Zero disables the limit,
		// so a stalled client holds its connection forever.
		ReadTimeout time.Duration `test:"nullable"`
		// MaxConnections limits the number of simultaneously served connections. Zero means
		// no limit.
		MaxConnections int `test:"nullable"`
		// ReuseAddr sets SO_REUSEADDR on the listening socket. Has no effect on non-unix
		// platforms.
		ReuseAddr bool `test:"nullable"`
	}

	Headers struct {
		// MaxNumber is a hard capacity of the headers parser. Requests with more header
		// fields are rejected.
		MaxNumber int
	}

	Body struct {
		Framing Framing
		// MaxSize limits the whole request (headers block included) in ContentLength framing.
		MaxSize int
	}

	HTTP struct {
		// HandlerTimeout limits how long a handler's result is awaited. Zero means the
		// result is awaited forever.
		HandlerTimeout time.Duration `test:"nullable"`
		// AutoContentLength appends Content-Length to responses that don't have one.
		AutoContentLength bool `test:"nullable"`
		// FallbackCode is the code of the response sent when no route matches.
		FallbackCode status.Code
	}
)

// Config holds limitations and behavioural switches of the server.
//
// Always start from Default() and modify it instead of initializing the config
// manually, as zero values aren't meaningful for most of the fields.
type Config struct {
	NET     NET
	Headers Headers
	Body    Body
	HTTP    HTTP
}

// Default returns the default config: a single read of 1024 bytes, at most 16 headers,
// no timeouts, no connections limit and 500 for unmatched routes.
func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize: 1024,
		},
		Headers: Headers{
			MaxNumber: 16,
		},
		Body: Body{
			Framing: SingleRead,
			MaxSize: 1024 * 1024,
		},
		HTTP: HTTP{
			FallbackCode: status.InternalServerError,
		},
	}
}
