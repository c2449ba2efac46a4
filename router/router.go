package router

import (
	"sort"

	"github.com/indigo-web/rawhttp/http"
	"github.com/indigo-web/rawhttp/http/method"
)

// Router collects routes during the server's construction. It isn't safe for
// concurrent use. Once everything is registered, Freeze it into a Table.
type Router struct {
	routes map[Route]Handler
}

func New() *Router {
	return &Router{
		routes: make(map[Route]Handler),
	}
}

// Register adds the handler. Registering the same method and path again replaces
// the previous handler.
func (r *Router) Register(m method.Method, path string, handler Handler) *Router {
	r.routes[Route{Method: m, Path: path}] = handler
	return r
}

// Lookup finds the handler registered by exactly the same method and path.
func (r *Router) Lookup(m method.Method, path string) (Handler, bool) {
	return lookup(r.routes, m, path)
}

func (r *Router) Len() int {
	return len(r.routes)
}

// Freeze copies the routes into an immutable table. Further registrations don't
// affect tables that are already frozen.
func (r *Router) Freeze() *Table {
	routes := make(map[Route]Handler, len(r.routes))
	for route, handler := range r.routes {
		routes[route] = handler
	}

	return &Table{routes: routes}
}

// Table is a read-only routing table, safe to be shared by any number of connections.
type Table struct {
	routes map[Route]Handler
}

func (t *Table) Lookup(m method.Method, path string) (Handler, bool) {
	return lookup(t.routes, m, path)
}

// Match is a shorthand for Lookup by the request's method and URI.
func (t *Table) Match(request http.Request) (Handler, bool) {
	return t.Lookup(request.Method, request.URI)
}

func (t *Table) Len() int {
	return len(t.routes)
}

// Routes lists the registered routes, sorted by path and then by method.
func (t *Table) Routes() []Route {
	routes := make([]Route, 0, len(t.routes))
	for route := range t.routes {
		routes = append(routes, route)
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}

		return routes[i].Method < routes[j].Method
	})

	return routes
}

func lookup(routes map[Route]Handler, m method.Method, path string) (Handler, bool) {
	handler, found := routes[Route{Method: m, Path: path}]
	return handler, found
}
