package status

import "errors"

// HTTPError is an error carrying a status code, so it can be rendered onto the
// wire as is. Handlers may return it to control the error line.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest            = NewError(BadRequest, "bad request")
	ErrIncompleteRequest     = NewError(BadRequest, "request is incomplete")
	ErrMalformedHeaderText   = NewError(BadRequest, "header value is not a valid text")
	ErrMissingMethod         = NewError(BadRequest, "missing method")
	ErrMissingPath           = NewError(BadRequest, "missing uri")
	ErrMissingVersion        = NewError(BadRequest, "missing version")
	ErrTooManyHeaders        = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrRequestEntityTooLarge = NewError(RequestEntityTooLarge, "request entity too large")
	ErrRequestTimeout        = NewError(RequestTimeout, "request timeout")
	ErrUnsupportedMediaType  = NewError(UnsupportedMediaType, "unsupported media type")
	// ErrRouteNotFound is deliberately of the internal error class rather than 404.
	ErrRouteNotFound       = NewError(InternalServerError, "route not found")
	ErrInternalServerError = NewError(InternalServerError, "internal server error")
)

// CodeOf extracts the status code out of the error. Errors that aren't HTTPError
// are considered internal.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}
