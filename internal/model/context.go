package model

import "context"

// ContextManager carries authenticated token claims through a request context.
type ContextManager interface {
	SetClaimsToContext(ctx context.Context, claims TokenClaims) context.Context
	GetClaimsFromContext(ctx context.Context) (TokenClaims, bool)
}
