package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/dtroode/account-server/internal/api/grpc/accountsv1"
	"github.com/dtroode/account-server/internal/api/grpc/handler"
	"github.com/dtroode/account-server/internal/api/grpc/middleware"
	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

// MethodScopes lists the methods guarded by the authentication interceptor
// and the scopes each requires. ResetPassword is absent on purpose: the
// reset flow authorizes its own token.
var MethodScopes = map[string]model.Scopes{
	accountsv1.MeFullMethodName: {model.ScopeStandard},
}

// Router represents a gRPC router for account operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	authService    handler.AuthService
	resetService   handler.ResetService
	authorizer     middleware.Authorizer
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	authService handler.AuthService,
	resetService handler.ResetService,
	authorizer middleware.Authorizer,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		resetService:   resetService,
		authorizer:     authorizer,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds a gRPC server with tracing, request logging and
// authentication, and registers the Accounts service on it. Extra options
// such as credentials are appended.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authorizer, MethodScopes, r.contextManager, r.logger)

	guarded := func(_ context.Context, c interceptors.CallMeta) bool {
		return authenticate.Guards(c.FullMethod())
	}

	serverOpts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(guarded),
			),
		),
	}

	s := grpc.NewServer(append(serverOpts, opts...)...)
	r.registerAccountRoutes(s)

	return s
}

func (r *Router) registerAccountRoutes(server *grpc.Server) {
	accountsHandler := handler.NewAccounts(r.authService, r.resetService, r.contextManager, r.logger)
	accountsv1.RegisterAccountsServer(server, accountsHandler)
}
