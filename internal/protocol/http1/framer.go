package http1

import (
	"errors"
	"io"
	"strconv"

	"github.com/indigo-web/rawhttp/config"
	"github.com/indigo-web/rawhttp/http"
	"github.com/indigo-web/rawhttp/http/status"
)

// Reader is the source of request bytes. Every call returns the next received segment,
// which stays valid only until the following call.
type Reader interface {
	Read() ([]byte, error)
}

type frameState uint8

const (
	eReadingHead frameState = iota + 1
	eReadingBody
	eComplete
)

// Framer decides where a request ends. In config.SingleRead mode it's exactly one
// read, so a request is whatever arrived in it. In config.ContentLength mode the
// segments are accumulated until the headers block is complete, and then until the
// body reaches the declared Content-Length.
type Framer struct {
	framing    config.Framing
	maxHeaders int
	maxSize    int
	buff       []byte
}

func NewFramer(cfg *config.Config) *Framer {
	return &Framer{
		framing:    cfg.Body.Framing,
		maxHeaders: cfg.Headers.MaxNumber,
		maxSize:    cfg.Body.MaxSize,
	}
}

// Frame reads and parses a single request. Errors of the reader are returned as is
// if nothing was received at all, so io.EOF means the client left without saying a word.
func (f *Framer) Frame(r Reader) (http.Request, error) {
	if f.framing == config.ContentLength {
		return f.frameByLength(r)
	}

	return f.frameSingleRead(r)
}

func (f *Framer) frameSingleRead(r Reader) (http.Request, error) {
	data, err := r.Read()
	if len(data) == 0 {
		if err == nil {
			err = status.ErrIncompleteRequest
		}

		return http.Request{}, err
	}

	request, _, err := Parse(data, f.maxHeaders)

	return request, err
}

func (f *Framer) frameByLength(r Reader) (request http.Request, err error) {
	var headLen, contentLength int
	state := eReadingHead
	f.buff = f.buff[:0]

	for {
		data, readErr := r.Read()
		if len(f.buff)+len(data) > f.maxSize {
			return request, status.ErrRequestEntityTooLarge
		}

		f.buff = append(f.buff, data...)

		if state == eReadingHead {
			request, headLen, err = Parse(f.buff, f.maxHeaders)
			switch {
			case errors.Is(err, status.ErrIncompleteRequest):
			case err != nil:
				return request, err
			default:
				if contentLength, err = parseContentLength(request.Headers); err != nil {
					return request, err
				}

				if headLen+contentLength > f.maxSize {
					return request, status.ErrRequestEntityTooLarge
				}

				state = eReadingBody
			}
		}

		if state == eReadingBody && len(f.buff) >= headLen+contentLength {
			request.Body = string(f.buff[headLen : headLen+contentLength])
			state = eComplete
		}

		switch {
		case state == eComplete:
			return request, nil
		case readErr == nil:
		case len(f.buff) == 0 || !errors.Is(readErr, io.EOF):
			return request, readErr
		default:
			return request, status.ErrIncompleteRequest
		}
	}
}

// parseContentLength returns 0 if the header is absent: without it, a request has no body.
func parseContentLength(headers http.Headers) (int, error) {
	value, found := headers.Lookup("Content-Length")
	if !found {
		return 0, nil
	}

	length, err := strconv.Atoi(value)
	if err != nil || length < 0 {
		return 0, status.ErrBadRequest
	}

	return length, nil
}
