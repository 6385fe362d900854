package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/eatery/internal/client/config"
	"github.com/dmitrijs2005/eatery/internal/common"
	"github.com/dmitrijs2005/eatery/internal/server/models"
	"github.com/dmitrijs2005/eatery/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type fakeAPI struct {
	createIn  *services.CreateAccountInput
	createOut *services.CreateAccountOutput

	loginOut *services.LoginOutput

	verifyIn *services.VerifyEmailInput

	editIn  *services.EditProfileInput
	editOut *services.EditProfileOutput

	meOut *services.UserProfileOutput

	tokens []string
	err    error
}

func (f *fakeAPI) token(ctx context.Context) {
	md, _ := metadata.FromOutgoingContext(ctx)
	f.tokens = append(f.tokens, md.Get(common.AccessTokenHeaderName)...)
}

func (f *fakeAPI) CreateAccount(ctx context.Context, in *services.CreateAccountInput, _ ...grpc.CallOption) (*services.CreateAccountOutput, error) {
	f.createIn = in
	return f.createOut, f.err
}

func (f *fakeAPI) Login(ctx context.Context, in *services.LoginInput, _ ...grpc.CallOption) (*services.LoginOutput, error) {
	return f.loginOut, f.err
}

func (f *fakeAPI) VerifyEmail(ctx context.Context, in *services.VerifyEmailInput, _ ...grpc.CallOption) (*services.VerifyEmailOutput, error) {
	f.verifyIn = in
	return &services.VerifyEmailOutput{Output: services.Output{Ok: true}}, f.err
}

func (f *fakeAPI) EditProfile(ctx context.Context, in *services.EditProfileInput, _ ...grpc.CallOption) (*services.EditProfileOutput, error) {
	f.token(ctx)
	f.editIn = in
	return f.editOut, f.err
}

func (f *fakeAPI) Me(ctx context.Context, _ ...grpc.CallOption) (*services.UserProfileOutput, error) {
	f.token(ctx)
	return f.meOut, f.err
}

// stubInput replaces the interactive prompts with canned answers.
func stubInput(t *testing.T, lines []string, password string) {
	t.Helper()
	origText, origPw := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })

	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		if len(lines) == 0 {
			return "", errors.New("no more input")
		}
		l := lines[0]
		lines = lines[1:]
		return l, nil
	}
	getPassword = func(io.Writer) ([]byte, error) {
		return []byte(password), nil
	}
}

func newTestApp(api accountAPI) *App {
	return &App{
		config: &config.Config{RequestTimeout: time.Second},
		api:    api,
		reader: rdr(""),
		out:    &bytes.Buffer{},
	}
}

func TestRegister(t *testing.T) {
	silencePrint(t)
	stubInput(t, []string{"a@x.com", ""}, "pw1")

	api := &fakeAPI{createOut: &services.CreateAccountOutput{Output: services.Output{Ok: true}}}
	a := newTestApp(api)

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, &services.CreateAccountInput{Email: "a@x.com", Password: "pw1", Role: "client"}, api.createIn)
}

func TestRegister_ServerRejects(t *testing.T) {
	printed := silencePrint(t)
	stubInput(t, []string{"a@x.com", "owner"}, "pw1")

	api := &fakeAPI{createOut: &services.CreateAccountOutput{Output: services.Output{Error: services.ErrDuplicateEmail.Error()}}}
	a := newTestApp(api)

	err := a.Register(context.Background())
	require.EqualError(t, err, services.ErrDuplicateEmail.Error())
	assert.Contains(t, *printed, "Error: "+services.ErrDuplicateEmail.Error())
}

func TestLoginThenProtectedCommands(t *testing.T) {
	silencePrint(t)
	stubInput(t, []string{" A@X.com ", "b@x.com"}, "pw1")

	api := &fakeAPI{
		loginOut: &services.LoginOutput{Output: services.Output{Ok: true}, Token: "tok"},
		meOut: &services.UserProfileOutput{Output: services.Output{Ok: true},
			User: &models.User{ID: "u-1", Email: "a@x.com", Role: models.RoleClient}},
		editOut: &services.EditProfileOutput{Output: services.Output{Ok: true},
			User: &models.User{ID: "u-1", Email: "b@x.com"}},
	}
	a := newTestApp(api)
	ctx := context.Background()

	require.ErrorIs(t, a.Me(ctx), errNotLoggedIn)

	require.NoError(t, a.Login(ctx))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(a@x.com)", a.getStatus())

	require.NoError(t, a.Me(ctx))
	require.NoError(t, a.ChangeEmail(ctx))
	require.NotNil(t, api.editIn.Email)
	assert.Equal(t, "b@x.com", *api.editIn.Email)
	assert.Equal(t, "(b@x.com)", a.getStatus())

	require.NoError(t, a.ChangePassword(ctx))
	require.NotNil(t, api.editIn.Password)
	assert.Equal(t, "pw1", *api.editIn.Password)

	assert.Equal(t, []string{"tok", "tok", "tok"}, api.tokens)

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.isLoggedIn())
	require.ErrorIs(t, a.ChangePassword(ctx), errNotLoggedIn)
}

func TestLogin_Failure(t *testing.T) {
	silencePrint(t)
	stubInput(t, []string{"a@x.com"}, "bad")

	api := &fakeAPI{loginOut: &services.LoginOutput{Output: services.Output{Error: services.ErrInvalidCredentials.Error()}}}
	a := newTestApp(api)

	require.Error(t, a.Login(context.Background()))
	assert.False(t, a.isLoggedIn())
}

func TestVerify(t *testing.T) {
	silencePrint(t)
	stubInput(t, []string{"prompted"}, "")

	api := &fakeAPI{}
	a := newTestApp(api)

	require.NoError(t, a.Verify(context.Background(), []string{"inline"}))
	assert.Equal(t, "inline", api.verifyIn.Code)

	require.NoError(t, a.Verify(context.Background(), nil))
	assert.Equal(t, "prompted", api.verifyIn.Code)
}

func TestTransportError(t *testing.T) {
	silencePrint(t)
	stubInput(t, []string{"code"}, "")

	a := newTestApp(&fakeAPI{err: errors.New("unavailable")})
	require.EqualError(t, a.Verify(context.Background(), nil), "unavailable")
}
