package routes

import "net/http"

// Group is a set of routes sharing a prefix. Children nest under it.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds every route of groups to mux and returns the patterns
// registered, in registration order.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var patterns []string
	for _, g := range groups {
		patterns = register(mux, "", g, patterns)
	}
	return patterns
}

func register(mux *http.ServeMux, parent string, g Group, patterns []string) []string {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		pattern := r.Method + " " + prefix + r.Pattern
		mux.HandleFunc(pattern, r.Handler)
		patterns = append(patterns, pattern)
	}
	for _, child := range g.Children {
		patterns = register(mux, prefix, child, patterns)
	}
	return patterns
}
