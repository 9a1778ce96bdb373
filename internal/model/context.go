package model

import "context"

// ContextManager stores and reads the caller's authorization in a request context.
type ContextManager interface {
	SetAuthorizationToContext(ctx context.Context, auth AuthorizationResult) context.Context
	GetAuthorizationFromContext(ctx context.Context) (AuthorizationResult, bool)
}
