// Package accountsv1 describes the account.v1.Accounts gRPC service.
//
// Requests and responses are google.protobuf.Struct values so the service
// needs no generated message types. Field names are listed next to each
// method constant.
package accountsv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "account.v1.Accounts"

const (
	// RegisterFullMethodName takes email, password and optional send_email.
	// Returns a user.
	RegisterFullMethodName = "/account.v1.Accounts/Register"
	// LoginFullMethodName takes email and password. Returns access_token,
	// token_type, expires_in and scope.
	LoginFullMethodName = "/account.v1.Accounts/Login"
	// MeFullMethodName takes nothing and requires a session token.
	// Returns a user.
	MeFullMethodName = "/account.v1.Accounts/Me"
	// RequestPasswordResetFullMethodName takes email. Returns message.
	RequestPasswordResetFullMethodName = "/account.v1.Accounts/RequestPasswordReset"
	// ResetPasswordFullMethodName takes password and password_confirm and
	// requires a reset token. Returns a user.
	ResetPasswordFullMethodName = "/account.v1.Accounts/ResetPassword"
)

// AccountsServer is the server API for the Accounts service.
type AccountsServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RequestPasswordReset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterAccountsServer registers srv on s.
func RegisterAccountsServer(s grpc.ServiceRegistrar, srv AccountsServer) {
	s.RegisterService(&Accounts_ServiceDesc, srv)
}

type serverMethod func(AccountsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call serverMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AccountsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Accounts_ServiceDesc is the grpc.ServiceDesc for the Accounts service.
var Accounts_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    unaryHandler(RegisterFullMethodName, AccountsServer.Register),
		},
		{
			MethodName: "Login",
			Handler:    unaryHandler(LoginFullMethodName, AccountsServer.Login),
		},
		{
			MethodName: "Me",
			Handler:    unaryHandler(MeFullMethodName, AccountsServer.Me),
		},
		{
			MethodName: "RequestPasswordReset",
			Handler:    unaryHandler(RequestPasswordResetFullMethodName, AccountsServer.RequestPasswordReset),
		},
		{
			MethodName: "ResetPassword",
			Handler:    unaryHandler(ResetPasswordFullMethodName, AccountsServer.ResetPassword),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "account/v1/accounts.proto",
}

// AccountsClient is the client API for the Accounts service.
type AccountsClient interface {
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RequestPasswordReset(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ResetPassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type accountsClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountsClient(cc grpc.ClientConnInterface) AccountsClient {
	return &accountsClient{cc: cc}
}

func (c *accountsClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountsClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, RegisterFullMethodName, in, opts)
}

func (c *accountsClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LoginFullMethodName, in, opts)
}

func (c *accountsClient) Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MeFullMethodName, in, opts)
}

func (c *accountsClient) RequestPasswordReset(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, RequestPasswordResetFullMethodName, in, opts)
}

func (c *accountsClient) ResetPassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ResetPasswordFullMethodName, in, opts)
}
