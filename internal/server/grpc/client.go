package grpc

import (
	"context"

	"github.com/dmitrijs2005/eatery/internal/common"
	"github.com/dmitrijs2005/eatery/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// AccountClient calls AccountService over an established connection.
type AccountClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountClient(cc grpc.ClientConnInterface) *AccountClient {
	return &AccountClient{cc: cc}
}

// WithAccessToken attaches token to outgoing calls made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AccountClient) CreateAccount(ctx context.Context, in *services.CreateAccountInput, opts ...grpc.CallOption) (*services.CreateAccountOutput, error) {
	return invoke[services.CreateAccountOutput](ctx, c.cc, MethodCreateAccount, in, opts...)
}

func (c *AccountClient) Login(ctx context.Context, in *services.LoginInput, opts ...grpc.CallOption) (*services.LoginOutput, error) {
	return invoke[services.LoginOutput](ctx, c.cc, MethodLogin, in, opts...)
}

func (c *AccountClient) VerifyEmail(ctx context.Context, in *services.VerifyEmailInput, opts ...grpc.CallOption) (*services.VerifyEmailOutput, error) {
	return invoke[services.VerifyEmailOutput](ctx, c.cc, MethodVerifyEmail, in, opts...)
}

func (c *AccountClient) EditProfile(ctx context.Context, in *services.EditProfileInput, opts ...grpc.CallOption) (*services.EditProfileOutput, error) {
	return invoke[services.EditProfileOutput](ctx, c.cc, MethodEditProfile, in, opts...)
}

func (c *AccountClient) Me(ctx context.Context, opts ...grpc.CallOption) (*services.UserProfileOutput, error) {
	return invoke[services.UserProfileOutput](ctx, c.cc, MethodMe, &MeRequest{}, opts...)
}
