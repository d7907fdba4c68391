package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atolz-bro/usermanagementservice/internal/models"
)

func TestPolicy_Allow(t *testing.T) {
	policy := NewPolicy(DefaultPublicRoutes()...)
	principal := &models.Principal{Subject: "admin", Role: models.RoleAdmin}

	tests := []struct {
		principal *models.Principal
		wantErr   error
		route     Route
		name      string
	}{
		{name: "login anonymous", route: RouteLogin},
		{name: "health anonymous", route: RouteHealth},
		{name: "metrics anonymous", route: RouteMetrics},
		{name: "login with principal", route: RouteLogin, principal: principal},
		{name: "users anonymous", route: Route{Method: "GET", Path: "/api/users/1"}, wantErr: ErrAuthenticationRequired},
		{name: "users with principal", route: Route{Method: "GET", Path: "/api/users/1"}, principal: principal},
		{name: "login wrong method", route: Route{Method: "GET", Path: "/api/auth/login"}, wantErr: ErrAuthenticationRequired},
		{name: "unknown path anonymous", route: Route{Method: "GET", Path: "/nope"}, wantErr: ErrAuthenticationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Allow(tt.route, tt.principal)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPolicy_NoPublicRoutes(t *testing.T) {
	policy := NewPolicy()

	assert.ErrorIs(t, policy.Allow(RouteLogin, nil), ErrAuthenticationRequired)
	assert.False(t, policy.IsPublic(RouteHealth))
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()

	p, ok := PrincipalFromContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, p)

	want := &models.Principal{Subject: "user", Role: models.RoleUser}
	ctx = WithPrincipal(ctx, want)

	got, ok := PrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, want, got)

	_, ok = PrincipalFromContext(WithPrincipal(context.Background(), nil))
	assert.False(t, ok)
}
