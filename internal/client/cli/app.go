package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/eatery/internal/client/config"
	gs "github.com/dmitrijs2005/eatery/internal/server/grpc"
	"github.com/dmitrijs2005/eatery/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// accountAPI is the subset of gs.AccountClient the CLI calls.
type accountAPI interface {
	CreateAccount(ctx context.Context, in *services.CreateAccountInput, opts ...grpc.CallOption) (*services.CreateAccountOutput, error)
	Login(ctx context.Context, in *services.LoginInput, opts ...grpc.CallOption) (*services.LoginOutput, error)
	VerifyEmail(ctx context.Context, in *services.VerifyEmailInput, opts ...grpc.CallOption) (*services.VerifyEmailOutput, error)
	EditProfile(ctx context.Context, in *services.EditProfileInput, opts ...grpc.CallOption) (*services.EditProfileOutput, error)
	Me(ctx context.Context, opts ...grpc.CallOption) (*services.UserProfileOutput, error)
}

type App struct {
	config *config.Config
	api    accountAPI
	conn   io.Closer
	token  string
	email  string
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	conn, err := grpc.NewClient(c.ServerEndpointAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", c.ServerEndpointAddr, err)
	}

	return &App{
		config: c,
		api:    gs.NewAccountClient(conn),
		conn:   conn,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) getStatus() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

// callContext bounds a single server call by the configured timeout and
// attaches the session token when there is one.
func (a *App) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.isLoggedIn() {
		ctx = gs.WithAccessToken(ctx, a.token)
	}
	if a.config != nil && a.config.RequestTimeout > 0 {
		return context.WithTimeout(ctx, a.config.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.conn != nil {
			_ = a.conn.Close()
		}
	}()

	printlnFn("Welcome to eatery account CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
