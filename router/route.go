package router

import (
	"context"

	"github.com/indigo-web/rawhttp/http"
	"github.com/indigo-web/rawhttp/http/method"
)

// Route identifies a handler by the exact method and path.
type Route struct {
	Method method.Method
	Path   string
}

func (r Route) String() string {
	return r.Method.String() + " " + r.Path
}

// Handler produces a response for a request. Returned errors are turned into the
// minimal error response: status.HTTPError carries its own code, everything else
// results in 500 Internal Server Error.
//
// Handlers are called concurrently from many connections, so any state they capture
// must be safe for concurrent use.
type Handler interface {
	ServeHTTP(ctx context.Context, request http.Request) (http.Response, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, request http.Request) (http.Response, error)

func (h HandlerFunc) ServeHTTP(ctx context.Context, request http.Request) (http.Response, error) {
	return h(ctx, request)
}

// Static always responds with the same response.
func Static(response http.Response) Handler {
	return HandlerFunc(func(context.Context, http.Request) (http.Response, error) {
		return response, nil
	})
}
