package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/config"
	"github.com/dmitrijs2005/gatepass/internal/client/guard"
	"github.com/dmitrijs2005/gatepass/internal/client/repositories/session"
	"github.com/dmitrijs2005/gatepass/internal/client/services"
	"github.com/dmitrijs2005/gatepass/internal/cryptox"
	"github.com/dmitrijs2005/gatepass/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger

	auth    services.AuthService
	passes  services.PassService
	search  services.SearchService
	users   services.UserService
	catalog services.CatalogService
	guard   *guard.Guard
	nav     *Navigator

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	db *sql.DB
}

// NewApp wires storage, transport and services from cfg. The caller owns the
// returned App and must Close it.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	var durable session.Repository
	var db *sql.DB

	persistence, err := services.ParsePersistence(cfg.SessionPersistence)
	if err != nil {
		return nil, err
	}
	if persistence == services.PersistDurable {
		db, err = client.InitDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open session database: %w", err)
		}
		key, err := cryptox.LoadOrCreateKey(cfg.KeyPath)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("load session key: %w", err)
		}
		sealer, err := cryptox.NewSealer(key)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		durable = session.NewSealedRepository(session.NewSQLiteRepository(db), sealer)
	}

	sessions := services.NewSessionManager(session.NewMemoryRepository(), durable, cfg.SessionMaxAge, log)
	if _, err := sessions.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore session", "error", err)
	}

	a := wire(ctx, cfg, log, sessions, client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout), in, out)
	a.db = db
	return a, nil
}

// wire builds the services on top of an open session store.
func wire(ctx context.Context, cfg *config.Config, log logging.Logger, sessions *services.SessionManager, api *client.HTTPClient, in io.Reader, out io.Writer) *App {
	auth := services.NewAuthService(api, sessions, log.With("component", "auth"))
	api.UseHeaders(auth)

	a := &App{
		config: cfg,
		log:    log,
		auth:   auth,
		reader: bufio.NewReader(in),
		out:    out,
		now:    time.Now,
	}
	a.passes = services.NewPassService(api, services.ConfirmFunc(a.Confirm), log.With("component", "passes"))
	a.search = services.NewSearchService(api, cfg.DownloadDir, log.With("component", "search"))
	a.users = services.NewUserService(api, log.With("component", "users"))
	a.catalog = services.NewCatalogService(api, log.With("component", "catalog"))
	a.guard = guard.New(auth, log.With("component", "guard"))
	a.nav = NewNavigator(guard.ScreenLogin)
	a.guard.Observe(func(s guard.Screen, st guard.State) {
		log.Debug(ctx, "guard", "screen", string(s), "state", st.String())
	})

	auth.OnLogout(a.onLogout)
	return a
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return !a.auth.Session().Anonymous()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Confirm asks the operator on the shell's input.
func (a *App) Confirm(_ context.Context, prompt string) (bool, error) {
	return GetConfirmation(a.reader, prompt, a.out)
}

// onLogout runs after every logout, including the ones forced by the
// session watcher.
func (a *App) onLogout(ctx context.Context) {
	a.nav.Reset(guard.ScreenLogin)
}

// StartSessionWatcher runs the expiry check in the background until ctx is
// done.
func (a *App) StartSessionWatcher(ctx context.Context) {
	go a.auth.StartSessionWatcher(ctx, a.config.SessionCheckInterval)
}

// errRedirected unwinds nested screens after the guard or the server sent
// the operator back to login.
var errRedirected = errors.New("redirected to login")

// refusedError is a guard decision other than Authorized.
type refusedError struct {
	decision guard.Decision
}

func (e *refusedError) Error() string {
	return fmt.Sprintf("cannot open %s: %s", e.decision.Screen, e.decision.Reason)
}

// authorize runs the guard for screen.
func (a *App) authorize(ctx context.Context, screen guard.Screen) error {
	d, err := a.guard.Check(ctx, screen)
	if err != nil {
		return err
	}
	if !d.Allowed() {
		return &refusedError{decision: d}
	}
	return nil
}

// handleErr reports err and reacts to an expired session. It returns
// errRedirected when the current screen must be left.
func (a *App) handleErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errRedirected) {
		return err
	}
	if errors.Is(err, services.ErrCancelled) {
		a.println(mutedStyle.Render("Cancelled."))
		return nil
	}
	var refused *refusedError
	if errors.As(err, &refused) {
		a.nav.Replace(refused.decision.Redirect)
		a.println(errorStyle.Render(refused.Error() + "."))
		return errRedirected
	}
	if errors.Is(err, client.ErrUnauthorized) {
		a.auth.Invalidate(ctx)
		a.nav.Reset(guard.ScreenLogin)
		a.println(errorStyle.Render("Your session has ended. Please log in again."))
		return errRedirected
	}
	a.println(describeError(err))
	return nil
}
