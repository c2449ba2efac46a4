package http

import (
	"github.com/indigo-web/rawhttp/http/method"
	"github.com/indigo-web/rawhttp/http/mime"
	"github.com/indigo-web/rawhttp/http/status"
	json "github.com/json-iterator/go"
)

// Request represents a parsed HTTP request. It's constructed once out of the bytes
// received from a connection and isn't modified afterward: handlers receive it by
// value.
type Request struct {
	// Method is either one of the known methods or the verb exactly as it was received.
	Method method.Method
	// URI is the request target, not decoded and not normalized.
	URI string
	// Version is the protocol token as received, e.g. HTTP/1.1.
	Version string
	// Headers hold header fields as they were received. Duplicate names are collapsed,
	// the last one wins.
	Headers Headers
	// Body contains every byte following the headers block in the received data. Empty
	// string means there's no body.
	Body string
}

// HasBody reports whether anything followed the headers block.
func (r Request) HasBody() bool {
	return len(r.Body) > 0
}

// JSON decodes the body into the model. If the request declares a Content-Type
// other than application/json, status.ErrUnsupportedMediaType is returned.
func (r Request) JSON(model any) error {
	if contentType, ok := r.Headers.Lookup("Content-Type"); ok && !mime.Complies(mime.JSON, contentType) {
		return status.ErrUnsupportedMediaType
	}

	iterator := json.ConfigDefault.BorrowIterator([]byte(r.Body))
	iterator.ReadVal(model)
	err := iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	return err
}
