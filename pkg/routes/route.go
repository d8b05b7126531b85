// Package routes declares HTTP routes as data so domain handlers can
// describe their endpoints and a module can register them in one place.
package routes

import "net/http"

// Route binds a method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// String renders the route as a ServeMux pattern.
func (r Route) String() string {
	return r.Method + " " + r.Pattern
}
