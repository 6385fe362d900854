package grpc

import (
	"context"

	"github.com/dmitrijs2005/eatery/internal/server/services"
	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "eatery.accounts.AccountService"

// Full method names, as seen by interceptors.
const (
	MethodCreateAccount = "/" + ServiceName + "/CreateAccount"
	MethodLogin         = "/" + ServiceName + "/Login"
	MethodVerifyEmail   = "/" + ServiceName + "/VerifyEmail"
	MethodEditProfile   = "/" + ServiceName + "/EditProfile"
	MethodMe            = "/" + ServiceName + "/Me"
)

// MeRequest asks for the profile of the authenticated caller.
type MeRequest struct{}

// AccountServer is the server API of AccountService.
type AccountServer interface {
	CreateAccount(context.Context, *services.CreateAccountInput) (*services.CreateAccountOutput, error)
	Login(context.Context, *services.LoginInput) (*services.LoginOutput, error)
	VerifyEmail(context.Context, *services.VerifyEmailInput) (*services.VerifyEmailOutput, error)
	EditProfile(context.Context, *services.EditProfileInput) (*services.EditProfileOutput, error)
	Me(context.Context, *MeRequest) (*services.UserProfileOutput, error)
}

// RegisterAccountServer registers srv on s.
func RegisterAccountServer(s grpc.ServiceRegistrar, srv AccountServer) {
	s.RegisterService(&AccountServiceDesc, srv)
}

// unary adapts a typed AccountServer method to a grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(AccountServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AccountServiceDesc describes AccountService for grpc.Server.RegisterService.
var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAccount", Handler: unary(MethodCreateAccount, AccountServer.CreateAccount)},
		{MethodName: "Login", Handler: unary(MethodLogin, AccountServer.Login)},
		{MethodName: "VerifyEmail", Handler: unary(MethodVerifyEmail, AccountServer.VerifyEmail)},
		{MethodName: "EditProfile", Handler: unary(MethodEditProfile, AccountServer.EditProfile)},
		{MethodName: "Me", Handler: unary(MethodMe, AccountServer.Me)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eatery/accounts.json",
}
