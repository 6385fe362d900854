// Package grpc exposes AccountService over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/eatery/internal/logging"
	"github.com/dmitrijs2005/eatery/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Accounts is the account logic served over gRPC.
type Accounts interface {
	CreateAccount(ctx context.Context, in services.CreateAccountInput) services.CreateAccountOutput
	Login(ctx context.Context, in services.LoginInput) services.LoginOutput
	VerifyEmail(ctx context.Context, in services.VerifyEmailInput) services.VerifyEmailOutput
	EditProfile(ctx context.Context, userID string, in services.EditProfileInput) services.EditProfileOutput
	UserProfile(ctx context.Context, userID string) services.UserProfileOutput
}

// TokenVerifier resolves an access token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type GRPCServer struct {
	address  string
	accounts Accounts
	tokens   TokenVerifier
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, accounts Accounts, tokens TokenVerifier) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: accounts,
		tokens:   tokens,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	// registers services
	RegisterAccountServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
