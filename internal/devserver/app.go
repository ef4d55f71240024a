// Package devserver runs the in-memory backend from apitest as a standalone
// HTTP server, so the CLI can be tried without the real service.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dmitrijs2005/voicedesk/internal/client/apitest"
	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/common"
	"github.com/dmitrijs2005/voicedesk/internal/devserver/config"
	"github.com/dmitrijs2005/voicedesk/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	backend *apitest.Backend
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	secret := c.SecretKey
	if secret == "" {
		s, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
		secret = s
	}

	backend := apitest.New(
		apitest.WithSecret([]byte(secret)),
		apitest.WithTokenTTL(c.TokenTTL),
		apitest.WithGuestTTL(c.GuestTTL),
		apitest.WithLogger(logger),
	)

	if c.Admin != "" {
		username, password, ok := strings.Cut(c.Admin, ":")
		if !ok || username == "" || password == "" {
			return nil, fmt.Errorf("admin must be username:password, got %q", c.Admin)
		}
		u := backend.SeedUser(username, username+"@localhost", password, models.RoleAdmin)
		logger.Info(context.Background(), "seeded administrator", "id", u.ID, "username", u.Username)
	}

	return &App{config: c, logger: logger, backend: backend}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	app.initSignalHandler(cancelFunc)

	ln, err := net.Listen("tcp", app.config.Addr)
	if err != nil {
		return err
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           app.backend,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	app.logger.Info(ctx, "development backend listening", "url", "http://"+ln.Addr().String()+apitest.Prefix)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
