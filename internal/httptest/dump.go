package httptest

import (
	"sort"

	"github.com/indigo-web/rawhttp/http"
)

// Dump renders the request in its wire form. Headers are sorted by their names in
// order to keep the output stable.
func Dump(request http.Request) string {
	var buff []byte

	buff = append(buff, request.Method.String()...)
	buff = space(buff)
	buff = append(buff, request.URI...)
	buff = space(buff)
	buff = append(buff, request.Version...)
	buff = crlf(buff)

	keys := make([]string, 0, len(request.Headers))
	for key := range request.Headers {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		buff = header(buff, key, request.Headers[key])
	}

	buff = crlf(buff)
	buff = append(buff, request.Body...)

	return string(buff)
}

func space(b []byte) []byte {
	return append(b, ' ')
}

func crlf(b []byte) []byte {
	return append(b, '\r', '\n')
}

func header(b []byte, key, value string) []byte {
	b = append(b, key...)
	b = append(b, ':', ' ')
	b = append(b, value...)

	return crlf(b)
}
