package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/voicedesk/internal/client/api"
	"github.com/dmitrijs2005/voicedesk/internal/client/config"
	"github.com/dmitrijs2005/voicedesk/internal/client/metrics"
	"github.com/dmitrijs2005/voicedesk/internal/client/session"
	"github.com/dmitrijs2005/voicedesk/internal/client/tokenstore"
	"github.com/dmitrijs2005/voicedesk/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// App is the interactive client. It owns the token store and the session
// for the lifetime of the process.
type App struct {
	config   *config.Config
	store    *tokenstore.Store
	client   *api.Client
	session  *session.Manager
	gatherer prometheus.Gatherer
	log      logging.Logger

	reader *bufio.Reader
	out    io.Writer

	mu     sync.Mutex
	active *viewState
}

// NewApp opens the token store and builds the API and session layers on top
// of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := tokenstore.Open(ctx, c.DBPath)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	gw, err := api.NewGateway(c.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		api.WithCredentials(store),
		api.WithRateLimit(c.RateLimit, int(c.RateLimit)),
		api.WithRecorder(collector),
		api.WithLogger(log),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	client := api.NewClient(gw)

	sess := session.NewManager(store, client,
		session.WithLogger(log),
		session.WithForcedLogoutHook(collector.RecordForcedLogout),
	)
	gw.SetUnauthorizedHandler(sess.ForceLogout)

	a := newApp(c, client, sess, log, bufio.NewReader(os.Stdin), os.Stdout)
	a.store = store
	a.gatherer = reg
	return a, nil
}

func newApp(c *config.Config, client *api.Client, s *session.Manager, log logging.Logger, r *bufio.Reader, w io.Writer) *App {
	a := &App{
		config:  c,
		client:  client,
		session: s,
		log:     log,
		reader:  r,
		out:     w,
		active:  &viewState{},
	}
	s.Subscribe(a.onSessionChange)
	return a
}

// Run restores the previous session and serves the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.session.Restore(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.config.MetricsAddr != "" && a.gatherer != nil {
		go a.serveMetrics(ctx)
	}
	if a.config.SessionCheckInterval > 0 {
		go a.StartSessionWatcher(ctx, a.config.SessionCheckInterval)
	}

	runREPL(ctx, a, a.reader)
	return nil
}

func (a *App) Close() {
	a.mu.Lock()
	a.active.close()
	a.mu.Unlock()

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Error(context.Background(), "close token store", "error", err)
		}
	}
}

func (a *App) serveMetrics(ctx context.Context) {
	srv := &http.Server{
		Addr:              a.config.MetricsAddr,
		Handler:           metrics.NewServeMux(a.gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info(ctx, "serving metrics", "addr", a.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error(ctx, "metrics server stopped", "error", err)
	}
}

// StartSessionWatcher re-validates the stored credential every interval
// while someone is logged in. A rejected credential ends the session through
// the gateway's 401 hook; other failures are only logged.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkSession(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkSession(ctx context.Context) {
	id, ok := a.session.Identity()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	_, err := a.client.GetUser(ctx, id.ID)
	switch {
	case err == nil:
	case errors.Is(err, api.ErrUnauthorized):
		fmt.Fprintln(a.out, "\n"+msgSessionExpired)
	default:
		a.log.Warn(ctx, "session check failed", "error", err)
	}
}
