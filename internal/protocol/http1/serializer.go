package http1

import (
	"strconv"

	"github.com/indigo-web/rawhttp/http"
	"github.com/indigo-web/rawhttp/http/status"
)

const crlf = "\r\n"

// Serialize appends the response in its wire form to buff:
//
//	{version} {code} {status}\r\n{name}: {value}\r\n...\r\n{body}
//
// Headers are emitted in the map iteration order, which is random. Content-Length is
// appended only if autoLength is set and the response doesn't carry the header already.
func Serialize(buff []byte, response http.Response, autoLength bool) []byte {
	buff = appendStatusLine(buff, response.Version, response.Code, response.Status)

	for key, value := range response.Headers {
		buff = appendHeader(buff, key, value)
	}

	if autoLength {
		if _, found := response.Headers.Lookup("Content-Length"); !found {
			buff = append(buff, "Content-Length: "...)
			buff = strconv.AppendInt(buff, int64(len(response.Body)), 10)
			buff = append(buff, crlf...)
		}
	}

	buff = append(buff, crlf...)

	return append(buff, response.Body...)
}

// SerializeError appends the minimal error form: the status line followed by the empty
// line, with neither headers nor body. The code is taken out of the error, see status.CodeOf.
func SerializeError(buff []byte, err error) []byte {
	code := status.CodeOf(err)
	buff = appendStatusLine(buff, http.DefaultVersion, code, status.Text(code))

	return append(buff, crlf...)
}

func appendStatusLine(buff []byte, version string, code status.Code, text string) []byte {
	if len(version) == 0 {
		version = http.DefaultVersion
	}

	buff = append(buff, version...)
	buff = append(buff, ' ')
	buff = strconv.AppendUint(buff, uint64(code), 10)
	buff = append(buff, ' ')
	buff = append(buff, text...)

	return append(buff, crlf...)
}

func appendHeader(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, ": "...)
	buff = append(buff, value...)

	return append(buff, crlf...)
}
