// Package server initializes and runs the account server: it opens the
// store, applies migrations, wires mail delivery and event publishing, and
// serves AccountService over gRPC until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/eatery/internal/common"
	"github.com/dmitrijs2005/eatery/internal/dbx"
	"github.com/dmitrijs2005/eatery/internal/logging"
	"github.com/dmitrijs2005/eatery/internal/server/auth"
	"github.com/dmitrijs2005/eatery/internal/server/config"
	"github.com/dmitrijs2005/eatery/internal/server/events"
	"github.com/dmitrijs2005/eatery/internal/server/mail"
	"github.com/dmitrijs2005/eatery/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/eatery/internal/server/services"
	"github.com/dmitrijs2005/eatery/internal/server/verification"

	gs "github.com/dmitrijs2005/eatery/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
}

func NewApp(c *config.Config) (*App, error) {
	if c == nil {
		return nil, fmt.Errorf("config is required")
	}
	if _, err := repomanager.ParseDriver(c.DatabaseDriver); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generate secret key: %w", err)
		}
		c.SecretKey = key
		logger.Warn(context.Background(), "no secret key configured, sessions will not survive a restart")
	}

	return &App{config: c, logger: logger}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// newMailTransport picks the delivery backend named by the config.
func (app *App) newMailTransport(ctx context.Context) (mail.Transport, error) {
	c := app.config

	switch c.MailProvider {
	case config.MailProviderLog, "":
		return mail.NewLogTransport(app.logger), nil
	case config.MailProviderMailgun:
		return mail.NewMailgunTransport(mail.MailgunConfig{
			Domain:  c.MailgunDomain,
			APIKey:  c.MailgunAPIKey,
			From:    c.MailFrom,
			APIBase: c.MailgunAPIBase,
		})
	case config.MailProviderSES:
		return mail.NewSESTransport(ctx, mail.SESConfig{
			Region:       c.SESRegion,
			AccessKey:    c.SESAccessKey,
			SecretKey:    c.SESSecretKey,
			BaseEndpoint: c.SESBaseEndpoint,
			From:         c.MailFrom,
		})
	case config.MailProviderSMTP:
		return mail.NewSMTPTransport(mail.SMTPConfig{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			User:     c.SMTPUser,
			Password: c.SMTPPassword,
			From:     c.MailFrom,
		})
	}
	return nil, fmt.Errorf("unknown mail provider %q", c.MailProvider)
}

// newPublisher connects to Redis when an address is configured. The
// returned close function is never nil.
func (app *App) newPublisher(ctx context.Context) (events.Publisher, func(), error) {
	c := app.config
	if c.RedisAddr == "" {
		app.logger.Info(ctx, "Redis is not configured, account events are disabled")
		return events.NopPublisher{}, func() {}, nil
	}

	client, err := events.NewRedisClient(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
	if err != nil {
		return nil, nil, err
	}

	p := events.NewRedisPublisher(client, events.UserEventsStream, c.EventsMaxLen, app.logger)
	return p, func() { _ = client.Close() }, nil
}

// purger removes expired verification codes.
type purger interface {
	Purge(ctx context.Context, db dbx.DBTX) (int64, error)
}

// runPurgeLoop purges expired verification codes every interval until ctx
// is done.
func (app *App) runPurgeLoop(ctx context.Context, interval time.Duration, p purger, db *sql.DB) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Purge(ctx, db)
			if err != nil {
				app.logger.Error(ctx, "failed to purge verifications", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired verifications", "count", n)
			}
		}
	}
}

// Run serves until ctx is cancelled or a termination signal arrives. It
// returns an error only when startup fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	driver, err := repomanager.ParseDriver(app.config.DatabaseDriver)
	if err != nil {
		return err
	}

	db, err := repomanager.Open(ctx, driver, app.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			app.logger.Error(ctx, "failed to close db", "error", err)
		}
	}()

	rm, err := repomanager.NewRepositoryManager(driver)
	if err != nil {
		return err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return err
	}

	transport, err := app.newMailTransport(ctx)
	if err != nil {
		return fmt.Errorf("mail init error: %w", err)
	}
	sender := mail.NewSender(transport, app.logger,
		mail.WithTimeout(app.config.MailSendTimeout),
		mail.WithOverrideRecipient(app.config.MailOverrideRecipient),
	)
	defer sender.Wait()

	publisher, closePublisher, err := app.newPublisher(ctx)
	if err != nil {
		return fmt.Errorf("events init error: %w", err)
	}
	defer closePublisher()

	issuer := verification.NewIssuer(rm, app.config.VerificationTTL)
	tokens := auth.NewTokenIssuer([]byte(app.config.SecretKey), app.config.AccessTokenValidityDuration)
	accounts := services.NewAccountService(db, rm, issuer, tokens, sender, publisher, app.logger)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runPurgeLoop(ctx, app.config.VerificationPurgeInterval, issuer, db)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, accounts, tokens)
		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return nil
}
