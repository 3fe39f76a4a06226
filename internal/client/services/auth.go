package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/common"
	"github.com/dmitrijs2005/gatepass/internal/logging"
)

// AuthService defines authentication operations for the shell.
//
// Contract:
//   - Login: authenticate against the server and replace the held session.
//   - Logout: tell the server (best effort), clear the session, run the logout hook.
//   - ValidateToken: ask the server whether the held token is still good.
//     Anything but a 2xx answer counts as "no".
//   - Invalidate: drop the session after a failed validation.
//   - AuthHeaders: the bearer header for the held token, or nothing.
//   - Expired: whether the held session is past its age ceiling or token expiry.
type AuthService interface {
	Login(ctx context.Context, username, password string) (models.Session, error)
	Logout(ctx context.Context)
	ValidateToken(ctx context.Context) bool
	Invalidate(ctx context.Context)
	AuthHeaders() map[string]string
	Session() models.Session
	Expired() bool
	OnLogout(hook func(ctx context.Context))
	StartSessionWatcher(ctx context.Context, interval time.Duration)
}

type authService struct {
	client   client.Client
	sessions *SessionManager
	log      logging.Logger
	now      func() time.Time

	hookMu sync.Mutex
	hook   func(ctx context.Context)
}

func NewAuthService(c client.Client, sessions *SessionManager, log logging.Logger) AuthService {
	return &authService{client: c, sessions: sessions, log: log, now: time.Now}
}

var ErrBadLoginResponse = errors.New("server returned an incomplete login response")

// Login authenticates and stores the resulting session wholesale.
func (a *authService) Login(ctx context.Context, username, password string) (models.Session, error) {
	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		return models.Session{}, err
	}
	if resp.Token == "" {
		return models.Session{}, ErrBadLoginResponse
	}
	role, err := models.ParseRole(resp.Role)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrBadLoginResponse, err)
	}

	s := models.Session{
		Token:          resp.Token,
		Role:           role,
		Username:       resp.Username,
		DisplayName:    resp.Name,
		LoginTimestamp: a.now().UnixMilli(),
	}
	if s.Username == "" {
		s.Username = username
	}

	if err := a.sessions.Begin(ctx, s); err != nil {
		return models.Session{}, err
	}
	a.log.Info(ctx, "logged in", "username", s.Username, "role", s.Role)
	return s, nil
}

// Logout never fails: the server call is best effort and the local session
// is always cleared.
func (a *authService) Logout(ctx context.Context) {
	if !a.sessions.Current().Anonymous() {
		if err := a.client.Logout(ctx); err != nil {
			a.log.Debug(ctx, "server logout failed", "error", err)
		}
	}
	a.sessions.ClearAll(ctx)
	a.log.Info(ctx, "logged out")

	a.hookMu.Lock()
	hook := a.hook
	a.hookMu.Unlock()
	if hook != nil {
		hook(ctx)
	}
}

func (a *authService) ValidateToken(ctx context.Context) bool {
	if a.sessions.Current().Token == "" {
		return false
	}
	if _, err := a.client.ValidateToken(ctx); err != nil {
		a.log.Debug(ctx, "token validation failed", "error", err)
		return false
	}
	return true
}

func (a *authService) Invalidate(ctx context.Context) {
	a.sessions.ClearAll(ctx)
}

func (a *authService) AuthHeaders() map[string]string {
	token := a.sessions.Current().Token
	if token == "" {
		return map[string]string{}
	}
	return map[string]string{common.AuthorizationHeaderName: common.BearerScheme + " " + token}
}

func (a *authService) Session() models.Session {
	return a.sessions.Current()
}

func (a *authService) Expired() bool {
	return a.sessions.Expired()
}

// OnLogout registers the function run after every logout, forced or not.
func (a *authService) OnLogout(hook func(ctx context.Context)) {
	a.hookMu.Lock()
	defer a.hookMu.Unlock()
	a.hook = hook
}

// StartSessionWatcher blocks until ctx is done, logging the user out as soon
// as a tick finds the session expired.
func (a *authService) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.Expired() {
				a.log.Warn(ctx, "session expired", "username", a.sessions.Current().Username)
				lctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				a.Logout(lctx)
				cancel()
			}
		case <-ctx.Done():
			return
		}
	}
}
