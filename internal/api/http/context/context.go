package context

import (
	"context"

	"github.com/dtroode/classroom-auth/internal/model"
)

type claimsKey struct{}

// Manager stores authenticated token claims in a request context.
type Manager struct{}

var _ model.ContextManager = (*Manager)(nil)

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetClaimsToContext returns a copy of ctx carrying claims.
func (m *Manager) SetClaimsToContext(ctx context.Context, claims model.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaimsFromContext returns the claims set by SetClaimsToContext.
func (m *Manager) GetClaimsFromContext(ctx context.Context) (model.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(model.TokenClaims)
	return claims, ok
}
