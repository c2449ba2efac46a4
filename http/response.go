package http

import (
	"strconv"

	"github.com/indigo-web/rawhttp/http/mime"
	"github.com/indigo-web/rawhttp/http/status"
	json "github.com/json-iterator/go"
)

// DefaultVersion is used by NewResponse and by the serializer if the version is left empty.
const DefaultVersion = "HTTP/1.1"

// Response is a plain value produced by a handler and consumed exactly once by the
// serializer. Nothing is validated: the code may lie outside the 100-599 range and
// the status text may be arbitrary.
//
// The With* methods never modify the receiver, they return a modified copy with its
// own headers map instead.
type Response struct {
	Version string
	Code    status.Code
	Status  string
	Headers Headers
	Body    string
}

// NewResponse returns a 200 OK response with no headers and no body.
func NewResponse() Response {
	return Response{
		Version: DefaultVersion,
		Code:    status.OK,
		Status:  status.Text(status.OK),
		Headers: make(Headers),
	}
}

// Respond is a shorthand for NewResponse().WithCode(code).
func Respond(code status.Code) Response {
	return NewResponse().WithCode(code)
}

// WithCode sets the code and the matching reason phrase. Unknown codes get
// "Unknown Status Code", which can be overridden by WithStatus.
func (r Response) WithCode(code status.Code) Response {
	r.Code = code
	r.Status = status.Text(code)
	return r
}

// WithStatus sets a custom reason phrase.
func (r Response) WithStatus(text string) Response {
	r.Status = text
	return r
}

// WithHeader sets the header, overriding the previous value under exactly the same key.
func (r Response) WithHeader(key, value string) Response {
	r.Headers = r.Headers.Clone()
	r.Headers[key] = value
	return r
}

// WithContentType is a shorthand for WithHeader("Content-Type", value).
func (r Response) WithContentType(value mime.MIME) Response {
	return r.WithHeader("Content-Type", value)
}

// WithString sets the body. Content-Length isn't implied, see WithContentLength.
func (r Response) WithString(body string) Response {
	r.Body = body
	return r
}

// WithContentLength sets the Content-Length header to the current body length.
func (r Response) WithContentLength() Response {
	return r.WithHeader("Content-Length", strconv.Itoa(len(r.Body)))
}

// WithJSON serializes the model via json-iterator into the body and sets
// the application/json content type.
func (r Response) WithJSON(model any) (Response, error) {
	stream := json.ConfigDefault.BorrowStream(nil)
	defer json.ConfigDefault.ReturnStream(stream)

	stream.WriteVal(model)
	if stream.Error != nil {
		return r, stream.Error
	}

	return r.WithContentType(mime.JSON).WithString(string(stream.Buffer())), nil
}
