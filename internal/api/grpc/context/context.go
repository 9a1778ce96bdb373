package context

import (
	"context"

	"github.com/dtroode/account-server/internal/model"
)

// authorizationKey is the context key under which the authorization result
// of the current call is stored.
type authorizationKey struct{}

// Manager stores and retrieves the authorization of the current gRPC call.
// It keeps the result in a context value rather than in metadata so a client
// cannot forge it.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetAuthorizationToContext returns a context carrying auth.
func (m *Manager) SetAuthorizationToContext(ctx context.Context, auth model.AuthorizationResult) context.Context {
	return context.WithValue(ctx, authorizationKey{}, auth)
}

// GetAuthorizationFromContext returns the authorization stored by
// SetAuthorizationToContext.
func (m *Manager) GetAuthorizationFromContext(ctx context.Context) (model.AuthorizationResult, bool) {
	auth, ok := ctx.Value(authorizationKey{}).(model.AuthorizationResult)
	return auth, ok
}
