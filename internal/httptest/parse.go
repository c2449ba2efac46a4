package httptest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/indigo-web/rawhttp/http"
)

// Response is a loosely parsed response, suitable for comparisons in tests.
type Response struct {
	Proto   string
	Code    int
	Status  string
	Headers http.Headers
	Body    string
}

// ParseResponse parses a response in its wire form. Everything after the headers
// block is taken as the body, as the connection is closed after every response.
func ParseResponse(raw string) (response Response, err error) {
	var found bool
	response.Headers = make(http.Headers)

	response.Proto, raw, found = strings.Cut(raw, " ")
	if !found || len(raw) == 0 {
		return response, fmt.Errorf("bad status line: lacking code and status")
	}

	var code string
	code, raw, found = strings.Cut(raw, " ")
	response.Code, err = strconv.Atoi(code)
	if err != nil {
		return response, err
	}

	if !found {
		return response, fmt.Errorf("bad status line: lacking status text")
	}

	response.Status, raw, found = strings.Cut(raw, "\r\n")
	if !found {
		return response, fmt.Errorf("bad response: status line isn't terminated")
	}

	for {
		var headerLine string
		headerLine, raw, found = strings.Cut(raw, "\r\n")
		if !found {
			return response, fmt.Errorf("bad header line %q: no breaking CRLF", headerLine)
		}

		if len(headerLine) == 0 {
			break
		}

		key, value, err := parseHeaderLine(headerLine)
		if err != nil {
			return response, err
		}

		response.Headers[key] = value
	}

	response.Body = raw

	return response, nil
}

func parseHeaderLine(line string) (key, value string, err error) {
	var found bool
	key, value, found = strings.Cut(line, ": ")
	if !found {
		return "", "", fmt.Errorf("bad header %s: no value", line)
	}

	return key, value, nil
}
