package auth

import (
	"errors"

	"github.com/atolz-bro/usermanagementservice/internal/models"
)

var (
	// ErrAuthenticationRequired is returned by Policy.Allow for an anonymous
	// request to a protected route.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrPrincipalNotResolvable means a valid token named a subject that is
	// no longer in the store.
	ErrPrincipalNotResolvable = errors.New("principal not resolvable")
)

// Route identifies an endpoint by method and path.
type Route struct {
	Method string
	Path   string
}

// Public routes reachable without a token.
var (
	RouteLogin   = Route{Method: "POST", Path: "/api/auth/login"}
	RouteHealth  = Route{Method: "GET", Path: "/api/health"}
	RouteMetrics = Route{Method: "GET", Path: "/metrics"}
)

// DefaultPublicRoutes returns the routes the service exposes anonymously.
func DefaultPublicRoutes() []Route {
	return []Route{RouteLogin, RouteHealth, RouteMetrics}
}

// Policy decides whether a request may reach its handler. Every route except
// the configured public ones requires an authenticated principal; roles are
// not checked.
type Policy struct {
	public map[Route]struct{}
}

// NewPolicy creates a Policy with the given public routes.
func NewPolicy(publicRoutes ...Route) *Policy {
	public := make(map[Route]struct{}, len(publicRoutes))
	for _, r := range publicRoutes {
		public[r] = struct{}{}
	}
	return &Policy{public: public}
}

// IsPublic reports whether route is reachable without a principal.
func (p *Policy) IsPublic(route Route) bool {
	_, ok := p.public[route]
	return ok
}

// Allow returns nil when the request may proceed.
func (p *Policy) Allow(route Route, principal *models.Principal) error {
	if p.IsPublic(route) {
		return nil
	}
	if principal == nil {
		return ErrAuthenticationRequired
	}
	return nil
}
