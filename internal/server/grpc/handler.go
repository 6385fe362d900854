package grpc

import (
	"context"

	"github.com/dmitrijs2005/eatery/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Result objects travel to the caller as-is; only a missing identity is a
// transport error.

func (s *GRPCServer) CreateAccount(ctx context.Context, req *services.CreateAccountInput) (*services.CreateAccountOutput, error) {
	s.logger.Info(ctx, "Create account request", "role", req.Role)
	out := s.accounts.CreateAccount(ctx, *req)
	return &out, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *services.LoginInput) (*services.LoginOutput, error) {
	out := s.accounts.Login(ctx, *req)
	return &out, nil
}

func (s *GRPCServer) VerifyEmail(ctx context.Context, req *services.VerifyEmailInput) (*services.VerifyEmailOutput, error) {
	out := s.accounts.VerifyEmail(ctx, *req)
	return &out, nil
}

func (s *GRPCServer) EditProfile(ctx context.Context, req *services.EditProfileInput) (*services.EditProfileOutput, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	out := s.accounts.EditProfile(ctx, userID, *req)
	return &out, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *MeRequest) (*services.UserProfileOutput, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	out := s.accounts.UserProfile(ctx, userID)
	return &out, nil
}
