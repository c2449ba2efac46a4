package http1

import (
	"bytes"
	"unicode/utf8"

	"github.com/indigo-web/rawhttp/http"
	"github.com/indigo-web/rawhttp/http/method"
	"github.com/indigo-web/rawhttp/http/status"
)

// Parse parses the request line and the headers block out of data. The data is
// expected to hold the whole headers block: if its terminating empty line isn't
// there, status.ErrIncompleteRequest is returned and no further reads are attempted.
//
// At most maxHeaders header fields are accepted, one more results in
// status.ErrTooManyHeaders. Every byte following the headers block is taken as the
// body verbatim, as no Content-Length nor Transfer-Encoding is respected here.
//
// headLen is the length of the request line together with the headers block,
// including the terminating empty line.
func Parse(data []byte, maxHeaders int) (request http.Request, headLen int, err error) {
	offset := skipLeadingNewlines(data)

	line, next, ok := cutLine(data, offset)
	if !ok {
		return request, 0, status.ErrIncompleteRequest
	}

	if err = parseRequestLine(&request, line); err != nil {
		return request, 0, err
	}

	request.Headers = make(http.Headers)

	for headers := 0; ; headers++ {
		line, next, ok = cutLine(data, next)
		if !ok {
			return request, 0, status.ErrIncompleteRequest
		}

		if len(line) == 0 {
			break
		}

		if headers == maxHeaders {
			return request, 0, status.ErrTooManyHeaders
		}

		key, value, err := parseHeaderLine(line)
		if err != nil {
			return request, 0, err
		}

		request.Headers[key] = value
	}

	if next < len(data) {
		request.Body = string(data[next:])
	}

	return request, next, nil
}

func parseRequestLine(request *http.Request, line []byte) error {
	methodToken, rest, found := bytes.Cut(line, []byte{' '})
	if len(methodToken) == 0 {
		return status.ErrMissingMethod
	}

	if !found {
		return status.ErrMissingPath
	}

	uri, version, found := bytes.Cut(rest, []byte{' '})
	if len(uri) == 0 {
		return status.ErrMissingPath
	}

	if !found || !isVersion(version) {
		return status.ErrMissingVersion
	}

	request.Method = method.Parse(string(methodToken))
	request.URI = string(uri)
	request.Version = string(version)

	return nil
}

func parseHeaderLine(line []byte) (key, value string, err error) {
	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return "", "", status.ErrBadRequest
	}

	name := line[:colon]
	if bytes.ContainsAny(name, " \t") {
		return "", "", status.ErrBadRequest
	}

	rawValue := trimSpaces(line[colon+1:])
	if !utf8.Valid(rawValue) {
		return "", "", status.ErrMalformedHeaderText
	}

	return string(name), string(rawValue), nil
}

// isVersion checks the token against the HTTP/x.y form.
func isVersion(token []byte) bool {
	const prefix = "HTTP/"

	if len(token) != len(prefix)+3 || string(token[:len(prefix)]) != prefix {
		return false
	}

	major, dot, minor := token[len(prefix)], token[len(prefix)+1], token[len(prefix)+2]

	return isDigit(major) && dot == '.' && isDigit(minor)
}

// cutLine returns the line starting at offset without its line terminator, and the offset
// of the next line. Both CRLF and bare LF terminate a line.
func cutLine(data []byte, offset int) (line []byte, next int, ok bool) {
	if offset > len(data) {
		return nil, offset, false
	}

	lf := bytes.IndexByte(data[offset:], '\n')
	if lf == -1 {
		return nil, offset, false
	}

	line = data[offset : offset+lf]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	return line, offset + lf + 1, true
}

func skipLeadingNewlines(data []byte) (offset int) {
	for offset < len(data) && (data[offset] == '\r' || data[offset] == '\n') {
		offset++
	}

	return offset
}

func trimSpaces(b []byte) []byte {
	return bytes.Trim(b, " \t")
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
