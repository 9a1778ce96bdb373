package middleware

import (
	"context"

	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc"

	"github.com/dtroode/account-server/internal/api/grpc/apierror"
	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

// Authorizer checks a bearer token against the scopes a method requires.
type Authorizer interface {
	Authorize(ctx context.Context, token string, required model.Scopes) (model.AuthorizationResult, error)
}

// Authenticate authorizes calls to guarded methods and stores the result in
// the call context.
type Authenticate struct {
	authorizer     Authorizer
	methodScopes   map[string]model.Scopes
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware. methodScopes maps
// full method names to the scopes they require.
func NewAuthenticate(
	authorizer Authorizer,
	methodScopes map[string]model.Scopes,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		authorizer:     authorizer,
		methodScopes:   methodScopes,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Guards reports whether fullMethod goes through AuthFunc.
func (m *Authenticate) Guards(fullMethod string) bool {
	_, ok := m.methodScopes[fullMethod]
	return ok
}

// AuthFunc reads the bearer token, authorizes it for the called method and
// returns a context carrying the authorization.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	method, _ := grpc.Method(ctx)
	required, ok := m.methodScopes[method]
	if !ok {
		m.logger.Warn("Authenticate: method has no scope requirement", "method", method)
		return nil, apierror.Status(model.ErrForbidden)
	}

	// A missing or non-bearer header leaves the token empty.
	token, _ := grpcauth.AuthFromMD(ctx, "bearer")

	auth, err := m.authorizer.Authorize(ctx, token, required)
	if err != nil {
		m.logger.Debug("Authenticate: request rejected",
			"method", method,
			"error", err.Error())
		return nil, apierror.Status(err)
	}

	return m.contextManager.SetAuthorizationToContext(ctx, auth), nil
}
