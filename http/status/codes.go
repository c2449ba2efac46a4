package status

import "strconv"

// Code is an HTTP status code. No range validation is done anywhere: a handler
// may respond with any uint16, and it's serialized verbatim.
type Code uint16

const (
	Continue           Code = 100
	SwitchingProtocols Code = 101

	OK        Code = 200
	Created   Code = 201
	Accepted  Code = 202
	NoContent Code = 204

	MovedPermanently  Code = 301
	Found             Code = 302
	SeeOther          Code = 303
	NotModified       Code = 304
	TemporaryRedirect Code = 307
	PermanentRedirect Code = 308

	BadRequest                  Code = 400
	Unauthorized                Code = 401
	Forbidden                   Code = 403
	NotFound                    Code = 404
	MethodNotAllowed            Code = 405
	RequestTimeout              Code = 408
	Conflict                    Code = 409
	LengthRequired              Code = 411
	RequestEntityTooLarge       Code = 413
	RequestURITooLong           Code = 414
	UnsupportedMediaType        Code = 415
	Teapot                      Code = 418
	UnprocessableEntity         Code = 422
	TooManyRequests             Code = 429
	RequestHeaderFieldsTooLarge Code = 431

	InternalServerError     Code = 500
	NotImplemented          Code = 501
	BadGateway              Code = 502
	ServiceUnavailable      Code = 503
	GatewayTimeout          Code = 504
	HTTPVersionNotSupported Code = 505
)

const unknownStatus = "Unknown Status Code"

var texts = map[Code]string{
	Continue:                    "Continue",
	SwitchingProtocols:          "Switching Protocols",
	OK:                          "OK",
	Created:                     "Created",
	Accepted:                    "Accepted",
	NoContent:                   "No Content",
	MovedPermanently:            "Moved Permanently",
	Found:                       "Found",
	SeeOther:                    "See Other",
	NotModified:                 "Not Modified",
	TemporaryRedirect:           "Temporary Redirect",
	PermanentRedirect:           "Permanent Redirect",
	BadRequest:                  "Bad Request",
	Unauthorized:                "Unauthorized",
	Forbidden:                   "Forbidden",
	NotFound:                    "Not Found",
	MethodNotAllowed:            "Method Not Allowed",
	RequestTimeout:              "Request Timeout",
	Conflict:                    "Conflict",
	LengthRequired:              "Length Required",
	RequestEntityTooLarge:       "Request Entity Too Large",
	RequestURITooLong:           "Request URI Too Long",
	UnsupportedMediaType:        "Unsupported Media Type",
	Teapot:                      "I'm a teapot",
	UnprocessableEntity:         "Unprocessable Entity",
	TooManyRequests:             "Too Many Requests",
	RequestHeaderFieldsTooLarge: "Request Header Fields Too Large",
	InternalServerError:         "Internal Server Error",
	NotImplemented:              "Not Implemented",
	BadGateway:                  "Bad Gateway",
	ServiceUnavailable:          "Service Unavailable",
	GatewayTimeout:              "Gateway Timeout",
	HTTPVersionNotSupported:     "HTTP Version Not Supported",
}

// Text returns the reason phrase for the code, or "Unknown Status Code" if the
// code isn't registered.
func Text(code Code) string {
	if text, ok := texts[code]; ok {
		return text
	}

	return unknownStatus
}

// IsKnown reports whether the code has a registered reason phrase.
func IsKnown(code Code) bool {
	_, ok := texts[code]
	return ok
}

func (c Code) String() string {
	return strconv.FormatUint(uint64(c), 10)
}
