package middleware

import (
	"net/http"
	"strings"
)

// UnmatchedRoute is the route label of requests no registered pattern serves.
const UnmatchedRoute = "other"

// RouteFunc returns the route label of r. Labels must come from a fixed set:
// they become Prometheus label values.
type RouteFunc func(r *http.Request) string

// MuxRoute labels a request with the path part of the ServeMux pattern that
// serves it, e.g. "/api/users/{id}". Anything else is UnmatchedRoute.
func MuxRoute(mux *http.ServeMux) RouteFunc {
	return func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		if pattern == "" {
			return UnmatchedRoute
		}
		// "GET /api/users/{id}" -> "/api/users/{id}", метод уже есть в отдельном label
		if _, path, ok := strings.Cut(pattern, " "); ok {
			return path
		}
		return pattern
	}
}

func unmatchedRoute(*http.Request) string {
	return UnmatchedRoute
}
